// Package formats renders search hits for the report.
package formats

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
	"github.com/pteich/elastic-index-workflow/flags"
)

type Formatter interface {
	Run(context.Context, <-chan elastic.SearchHit) error
}

// New returns the formatter for format, falling back to CSV.
func New(format string, fields []string, out io.Writer, log *slog.Logger, bar *pb.ProgressBar) Formatter {
	switch format {
	case flags.FormatJSON:
		return JSON{Outfile: out, ProgessBar: bar}
	case flags.FormatRAW:
		return Raw{Outfile: out, Logger: log, ProgessBar: bar}
	default:
		return CSV{Fields: fields, Outfile: out, Logger: log, ProgessBar: bar}
	}
}

func increment(bar *pb.ProgressBar) {
	if bar != nil {
		bar.Increment()
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
