package elastic

import (
	"context"
	"encoding/json"
)

// SearchTypeDFSQueryThenFetch gathers term statistics from all shards
// before the query and fetch phases run.
const SearchTypeDFSQueryThenFetch = "dfs_query_then_fetch"

// Client is the subset of the search service API the workflow drives.
// Implementations are not safe for concurrent use.
type Client interface {
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, body json.RawMessage) (string, error)
	DeleteIndex(ctx context.Context, index string) error
	Index(ctx context.Context, index string, doc json.RawMessage) (string, error)
	Refresh(ctx context.Context, index string) (RefreshResult, error)
	Count(ctx context.Context, index string, query Query) (int64, error)
	Search(ctx context.Context, index string, filter Query) (*SearchResult, error)
	Stop()
}

type Query interface {
	Build() map[string]interface{}
}

type RefreshResult struct {
	Total      int
	Successful int
	Failed     int
}

type SearchResult struct {
	total int64
	hits  []SearchHit
}

func NewSearchResult(total int64, hits []SearchHit) *SearchResult {
	return &SearchResult{total: total, hits: hits}
}

func (r *SearchResult) Hits() []SearchHit {
	return r.hits
}

func (r *SearchResult) Total() int64 {
	return r.total
}

type SearchHit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score,omitempty"`
	Source json.RawMessage `json:"_source"`
}

func (h SearchHit) GetSource() []byte {
	return h.Source
}
