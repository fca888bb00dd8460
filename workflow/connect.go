package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pteich/elastic-index-workflow/elastic"
	"github.com/pteich/elastic-index-workflow/elastic/embedded"
	elasticv7 "github.com/pteich/elastic-index-workflow/elastic/v7"
	elasticv8 "github.com/pteich/elastic-index-workflow/elastic/v8"
	elasticv9 "github.com/pteich/elastic-index-workflow/elastic/v9"
	"github.com/pteich/elastic-index-workflow/flags"
)

// NewConfig derives the connection settings from conf. Credentials come from
// the flags or from ES_USER and ES_PASSWORD.
func NewConfig(conf *flags.Flags) elastic.Config {
	user, pass := conf.Credentials(os.LookupEnv)

	return elastic.Config{
		URL:            conf.URL(),
		Username:       user,
		Password:       pass,
		VerifySSL:      conf.ElasticVerifySSL,
		ClientCrt:      conf.ElasticClientCrt,
		ClientKey:      conf.ElasticClientKey,
		ConnectTimeout: conf.ConnectTimeout(),
		ReadTimeout:    conf.ReadTimeout(),
		KeepAlive:      conf.KeepAlive(),
		Trace:          conf.Trace,
	}
}

// Connect opens a client for the backend selected in conf and checks that
// the service answers. The caller must Stop the returned client.
func Connect(ctx context.Context, conf *flags.Flags, logger *slog.Logger) (elastic.Client, error) {
	client, err := newClient(conf, logger)
	if err != nil {
		return nil, stepError(ErrConnection, "connect", "", err)
	}
	return pingOrStop(ctx, client)
}

func pingOrStop(ctx context.Context, client elastic.Client) (elastic.Client, error) {
	if err := client.Ping(ctx); err != nil {
		client.Stop()
		return nil, stepError(ErrConnection, "ping", "", err)
	}
	return client, nil
}

func newClient(conf *flags.Flags, logger *slog.Logger) (elastic.Client, error) {
	if conf.Embedded {
		return embedded.NewClient(), nil
	}

	cfg := NewConfig(conf)

	httpClient, err := elastic.NewHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	var (
		client elastic.Client
		cerr   error
	)

	switch conf.ElasticVersion {
	case 7:
		errorLog := slog.NewLogLogger(logger.Handler(), slog.LevelError)
		traceLog := slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
		c, err := elasticv7.NewClient(cfg.URL, elasticv7.Options(cfg, httpClient, errorLog, traceLog))
		client, cerr = c, err
	case 8:
		c, err := elasticv8.NewClient(elasticv8.NewConfig(cfg, httpClient))
		client, cerr = c, err
	case 9:
		c, err := elasticv9.NewClient(elasticv9.NewConfig(cfg, httpClient))
		client, cerr = c, err
	default:
		return nil, fmt.Errorf("unsupported ElasticSearch version %d", conf.ElasticVersion)
	}

	if cerr != nil {
		return nil, cerr
	}
	return client, nil
}
