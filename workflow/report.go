package workflow

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
	"github.com/pteich/elastic-index-workflow/flags"
	"github.com/pteich/elastic-index-workflow/formats"
)

// Report writes the hits of res to out in the format selected by conf.
func Report(ctx context.Context, conf *flags.Flags, res *elastic.SearchResult, out io.Writer, logger *slog.Logger) error {
	var fields []string
	if conf.Fieldlist != "" {
		fields = strings.Split(conf.Fieldlist, ",")
	}

	var bar *pb.ProgressBar
	if conf.Progress {
		bar = pb.New(len(res.Hits()))
		bar.SetWriter(os.Stderr)
		bar.Start()
		defer bar.Finish()
	}

	hits := make(chan elastic.SearchHit, len(res.Hits()))
	for _, hit := range res.Hits() {
		hits <- hit
	}
	close(hits)

	return formats.New(conf.OutFormat, fields, out, logger, bar).Run(ctx, hits)
}
