package formats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
)

// Raw writes every hit including its metadata as one JSON line.
type Raw struct {
	Outfile    io.Writer
	Logger     *slog.Logger
	ProgessBar *pb.ProgressBar
}

func (r Raw) Run(ctx context.Context, hits <-chan elastic.SearchHit) error {
	for hit := range hits {
		data, err := json.Marshal(hit)
		if err != nil {
			logger(r.Logger).Warn("marshal hit", "id", hit.ID, "error", err)
			continue
		}
		if _, err := fmt.Fprintln(r.Outfile, string(data)); err != nil {
			return err
		}
		increment(r.ProgessBar)

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
