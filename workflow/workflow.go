// Package workflow drives the example end to end: it recreates an index,
// indexes the countries fixture one document at a time, refreshes, counts
// and runs a single exact term query. All calls are sequential.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
	"github.com/pteich/elastic-index-workflow/fixture"
	"github.com/pteich/elastic-index-workflow/flags"
)

var connect = Connect

type Workflow struct {
	client   elastic.Client
	logger   *slog.Logger
	progress bool
}

type Option func(*Workflow)

// WithProgress shows a progress bar on stderr while indexing.
func WithProgress(enabled bool) Option {
	return func(w *Workflow) {
		w.progress = enabled
	}
}

func New(client elastic.Client, logger *slog.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		client: client,
		logger: logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnsureCleanIndex deletes name if it exists and creates it again with the
// fixture mapping. It returns the index name confirmed by the service.
func (w *Workflow) EnsureCleanIndex(ctx context.Context, name string) (string, error) {
	exists, err := w.client.IndexExists(ctx, name)
	if err != nil {
		return "", stepError(ErrIndexLifecycle, "check index", name, err)
	}

	if exists {
		w.logger.Info("index does already exist", "index", name)
		if err := w.client.DeleteIndex(ctx, name); err != nil {
			return "", stepError(ErrIndexLifecycle, "delete index", name, err)
		}
		w.logger.Info("deleted existing index", "index", name)
	}

	w.logger.Info("creating index", "index", name)
	id, err := w.client.CreateIndex(ctx, name, fixture.Mapping)
	if err != nil {
		return "", stepError(ErrIndexLifecycle, "create index", name, err)
	}
	w.logger.Info("created index", "index", id)

	return id, nil
}

// IndexAll submits every document with its own request, without IDs, so the
// service assigns them. It stops at the first failure.
func (w *Workflow) IndexAll(ctx context.Context, index string, docs []json.RawMessage) (int, time.Duration, error) {
	w.logger.Info("indexing documents", "index", index, "documents", len(docs))

	var bar *pb.ProgressBar
	if w.progress {
		bar = pb.New(len(docs))
		bar.SetWriter(os.Stderr)
		bar.Start()
		defer bar.Finish()
	}

	start := time.Now()
	for i, doc := range docs {
		id, err := w.client.Index(ctx, index, doc)
		if err != nil {
			return i, time.Since(start), stepError(ErrIndexing, fmt.Sprintf("index document %d", i), index, err)
		}
		w.logger.Debug("indexed document", "index", index, "id", id)
		if bar != nil {
			bar.Increment()
		}
	}
	elapsed := time.Since(start)

	w.logger.Info("indexed documents", "index", index, "documents", len(docs), "took", elapsed)
	return len(docs), elapsed, nil
}

// Refresh makes indexed documents visible. Failed shards are only logged.
func (w *Workflow) Refresh(ctx context.Context, index string) (int, error) {
	res, err := w.client.Refresh(ctx, index)
	if err != nil {
		return 0, stepError(ErrIndexLifecycle, "refresh index", index, err)
	}

	if res.Failed > 0 {
		w.logger.Warn("refresh failed on some shards", "index", index, "failed", res.Failed, "total", res.Total)
	}
	w.logger.Info("refreshed index", "index", index, "shards", res.Successful)

	return res.Successful, nil
}

func (w *Workflow) CountAll(ctx context.Context, index string) (int64, error) {
	count, err := w.client.Count(ctx, index, elastic.NewMatchAllQuery())
	if err != nil {
		return 0, stepError(ErrQuery, "count documents", index, err)
	}
	w.logger.Info("documents contained in index", "index", index, "count", count)
	return count, nil
}

// Search runs an exact, case sensitive term filter on field.
func (w *Workflow) Search(ctx context.Context, index, field, value string) (*elastic.SearchResult, error) {
	res, err := w.client.Search(ctx, index, elastic.NewTermQuery(field, value))
	if err != nil {
		return nil, stepError(ErrQuery, "search", index, err)
	}

	ids := make([]string, 0, len(res.Hits()))
	for _, hit := range res.Hits() {
		ids = append(ids, hit.ID)
	}
	w.logger.Info("search finished", "index", index, "field", field, "value", value, "total", res.Total(), "hits", strings.Join(ids, ","))

	return res, nil
}

// Summary is what a complete run observed.
type Summary struct {
	Index     string
	Indexed   int
	Took      time.Duration
	Shards    int
	Count     int64
	Result    *elastic.SearchResult
	Connected bool
}

// Run executes every step in order against an open client and writes the
// search hits to out. The first failing step ends the run.
func (w *Workflow) Run(ctx context.Context, conf *flags.Flags, out io.Writer) (*Summary, error) {
	sum := &Summary{Connected: true}

	docs, err := fixture.LoadDocuments(conf.Fixture)
	if err != nil {
		return sum, stepError(ErrParse, "load fixture", conf.Index, err)
	}

	sum.Index, err = w.EnsureCleanIndex(ctx, conf.Index)
	if err != nil {
		return sum, err
	}

	sum.Indexed, sum.Took, err = w.IndexAll(ctx, sum.Index, docs)
	if err != nil {
		return sum, err
	}

	sum.Shards, err = w.Refresh(ctx, sum.Index)
	if err != nil {
		return sum, err
	}

	sum.Count, err = w.CountAll(ctx, sum.Index)
	if err != nil {
		return sum, err
	}

	sum.Result, err = w.Search(ctx, sum.Index, conf.Field, conf.Value)
	if err != nil {
		return sum, err
	}

	if err := Report(ctx, conf, sum.Result, out, w.logger); err != nil {
		w.logger.Warn("writing report failed", "error", err)
	}

	return sum, nil
}

// Run connects, runs the workflow and always releases the connection. The
// error is logged here and also returned.
func Run(ctx context.Context, conf *flags.Flags, logger *slog.Logger) (*Summary, error) {
	logger.Info("connecting to search service", "url", conf.URL(), "version", conf.ElasticVersion, "embedded", conf.Embedded)

	client, err := connect(ctx, conf, logger)
	if err != nil {
		logger.Error("error on connecting to search service", "error", err)
		return &Summary{}, err
	}
	defer client.Stop()
	logger.Info("connected to search service")

	out, closeOut, err := openOutput(conf.Outfile)
	if err != nil {
		logger.Error("error creating report file", "error", err)
		return &Summary{Connected: true}, err
	}
	defer closeOut()

	sum, err := New(client, logger, WithProgress(conf.Progress)).Run(ctx, conf, out)
	if err != nil {
		logger.Error("error on accessing index", "index", conf.Index, "error", err)
	}

	logger.Info("finished search example")
	return sum, err
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
