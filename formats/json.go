package formats

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
)

// JSON writes the source of every hit on its own line.
type JSON struct {
	Outfile    io.Writer
	ProgessBar *pb.ProgressBar
}

func (j JSON) Run(ctx context.Context, hits <-chan elastic.SearchHit) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case hit, ok := <-hits:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintln(j.Outfile, string(hit.GetSource())); err != nil {
				return err
			}
			increment(j.ProgessBar)
		}
	}
}
