package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pteich/configstruct"

	"github.com/pteich/elastic-index-workflow/flags"
	"github.com/pteich/elastic-index-workflow/workflow"
)

func main() {
	ctx := context.Background()

	conf := flags.Default()

	indexCommand := configstruct.NewCommand(
		"",
		"Example that recreates an ElasticSearch index from a countries fixture, counts it and searches it. https://github.com/pteich/elastic-index-workflow",
		&conf,
		func(c *configstruct.Command, cfg interface{}) error {
			conf := cfg.(*flags.Flags)
			// failures are logged by the workflow, the process still ends normally
			_, _ = workflow.Run(ctx, conf, newLogger(conf))
			return nil
		},
	)

	err := indexCommand.ParseAndRun(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newLogger(conf *flags.Flags) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(conf.LogLevel)}

	var handler slog.Handler
	if conf.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
