package formats

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/cheggaaa/pb.v2"

	"github.com/pteich/elastic-index-workflow/elastic"
)

var lineBreaks = regexp.MustCompile(`\x{000D}\x{000A}|[\x{000A}\x{000B}\x{000C}\x{000D}\x{0085}\x{2028}\x{2029}]`)

type CSV struct {
	Fields     []string
	Outfile    io.Writer
	Logger     *slog.Logger
	ProgessBar *pb.ProgressBar
}

// Run writes one row per hit. Without Fields every top level key is
// written in sorted order and no header is emitted.
func (c CSV) Run(ctx context.Context, hits <-chan elastic.SearchHit) error {
	w := csv.NewWriter(c.Outfile)

	if c.Fields != nil {
		if err := w.Write(c.Fields); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case hit, ok := <-hits:
			if !ok {
				w.Flush()
				return w.Error()
			}

			var document map[string]interface{}
			if err := json.Unmarshal(hit.GetSource(), &document); err != nil {
				logger(c.Logger).Warn("unmarshal hit source", "id", hit.ID, "error", err)
				continue
			}

			if err := w.Write(c.row(document)); err != nil {
				return fmt.Errorf("writing CSV data: %w", err)
			}
			w.Flush()
			increment(c.ProgessBar)
		}
	}
}

func (c CSV) row(document map[string]interface{}) []string {
	var csvdata []string

	if c.Fields == nil {
		keys := make([]string, 0, len(document))
		for key := range document {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			csvdata = append(csvdata, format(document[key]))
		}
		return csvdata
	}

	flat := flatten(document)
	for _, field := range c.Fields {
		csvdata = append(csvdata, format(flat[field]))
	}
	return csvdata
}

func format(val interface{}) string {
	switch val := val.(type) {
	case nil:
		return ""
	case float64:
		d := int(val)
		if val == float64(d) {
			return fmt.Sprintf("%d", d)
		}
		return fmt.Sprintf("%f", val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, v := range val {
			parts = append(parts, format(v))
		}
		return strings.Join(parts, ",")
	default:
		return removeLBR(fmt.Sprintf("%v", val))
	}
}

// flatten adds a dotted key for every value of a nested map while keeping
// the nested map itself.
func flatten(document map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(document))
	for key, val := range document {
		flat[key] = val
		if nested, ok := val.(map[string]interface{}); ok {
			for nkey, nval := range flatten(nested) {
				flat[key+"."+nkey] = nval
			}
		}
	}
	return flat
}

func removeLBR(text string) string {
	return lineBreaks.ReplaceAllString(text, ``)
}
