package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"

	"github.com/pteich/elastic-index-workflow/fixture"
	"github.com/pteich/elastic-index-workflow/flags"
)

func TestWorkflowE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}

	tests := []struct {
		version int
		image   string
	}{
		{version: 7, image: "docker.elastic.co/elasticsearch/elasticsearch:7.17.10"},
		{version: 8, image: "docker.elastic.co/elasticsearch/elasticsearch:8.17.0"},
		{version: 9, image: "docker.elastic.co/elasticsearch/elasticsearch:9.2.3"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("Elasticsearch_v%d", tt.version), func(t *testing.T) {
			ctx := context.Background()

			esContainer, err := elasticsearch.Run(ctx, tt.image,
				testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
					ContainerRequest: testcontainers.ContainerRequest{
						Env: map[string]string{
							"discovery.type":         "single-node",
							"xpack.security.enabled": "false",
						},
					},
				}),
			)
			if err != nil {
				t.Fatalf("failed to start container: %s", err)
			}
			defer func() {
				if err := esContainer.Terminate(ctx); err != nil {
					t.Fatalf("failed to terminate container: %s", err)
				}
			}()

			conf := testFlags(t)
			conf.Embedded = false
			conf.ElasticURL = esContainer.Settings.Address
			conf.ElasticVersion = tt.version

			// twice, so the second run has to delete the index of the first
			for run := 0; run < 2; run++ {
				sum, err := Run(ctx, conf, testLogger())
				if err != nil {
					t.Fatalf("run %d failed: %s", run, err)
				}
				verifySummary(t, sum, 16)
			}

			verifyFailures(t, ctx, conf)
		})
	}
}

func verifySummary(t *testing.T, sum *Summary, expectedDocs int) {
	t.Helper()

	if sum.Indexed != expectedDocs {
		t.Errorf("expected %d indexed documents, got %d", expectedDocs, sum.Indexed)
	}
	if sum.Count != int64(expectedDocs) {
		t.Errorf("expected count %d, got %d", expectedDocs, sum.Count)
	}
	if sum.Shards < 1 {
		t.Errorf("expected at least one refreshed shard, got %d", sum.Shards)
	}
	if sum.Result.Total() != 1 || len(sum.Result.Hits()) != 1 {
		t.Fatalf("expected exactly one hit, got total %d and %d hits", sum.Result.Total(), len(sum.Result.Hits()))
	}

	var country fixture.Country
	if err := json.Unmarshal(sum.Result.Hits()[0].GetSource(), &country); err != nil {
		t.Fatalf("failed to decode hit: %s", err)
	}
	if country.Name != "Bahamas" {
		t.Errorf("expected country Bahamas, got %q", country.Name)
	}
}

func verifyFailures(t *testing.T, ctx context.Context, conf *flags.Flags) {
	t.Helper()

	client, err := Connect(ctx, conf, testLogger())
	if err != nil {
		t.Fatalf("failed to connect: %s", err)
	}
	defer client.Stop()

	w := New(client, testLogger())

	if _, err := w.EnsureCleanIndex(ctx, "Invalid Name"); err == nil {
		t.Error("expected invalid index name to fail")
	}

	for _, value := range []string{"bahamas", "Baham"} {
		res, err := w.Search(ctx, conf.Index, "country", value)
		if err != nil {
			t.Fatalf("search %q failed: %s", value, err)
		}
		if res.Total() != 0 {
			t.Errorf("expected no hits for %q, got %d", value, res.Total())
		}
	}
}
