// Package embedded runs the search service in process on top of bleve, so the
// workflow can be exercised without an ElasticSearch node.
package embedded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"github.com/pteich/elastic-index-workflow/elastic"
)

// DefaultSize mirrors the default result window of an ElasticSearch search.
const DefaultSize = 10

var (
	ErrIndexNotFound = errors.New("index_not_found_exception")
	ErrIndexExists   = errors.New("resource_already_exists_exception")
	ErrStopped       = errors.New("client stopped")
)

// Index names follow the same lowercase rules ElasticSearch enforces.
var validIndexName = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-.+]*$`)

type index struct {
	bleve   bleve.Index
	sources map[string]json.RawMessage
}

// Client keeps every index in memory. Documents are only visible to Count
// and Search after Refresh, like on a real node.
type Client struct {
	indices map[string]*index
	pending map[string][]string
	stopped bool
}

var _ elastic.Client = (*Client)(nil)

func NewClient() *Client {
	return &Client{
		indices: make(map[string]*index),
		pending: make(map[string][]string),
	}
}

func (c *Client) Ping(_ context.Context) error {
	if c.stopped {
		return ErrStopped
	}
	return nil
}

func (c *Client) IndexExists(_ context.Context, name string) (bool, error) {
	if c.stopped {
		return false, ErrStopped
	}
	_, ok := c.indices[name]
	return ok, nil
}

// CreateIndex ignores the request body. Every field is indexed with the
// keyword analyzer, which matches the mapping the workflow sends.
func (c *Client) CreateIndex(_ context.Context, name string, _ json.RawMessage) (string, error) {
	if c.stopped {
		return "", ErrStopped
	}
	if !validIndexName.MatchString(name) {
		return "", fmt.Errorf("invalid_index_name_exception: %q", name)
	}
	if _, ok := c.indices[name]; ok {
		return "", fmt.Errorf("%w: %s", ErrIndexExists, name)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = keyword.Name

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return "", fmt.Errorf("creating index %q: %w", name, err)
	}

	c.indices[name] = &index{
		bleve:   idx,
		sources: make(map[string]json.RawMessage),
	}
	return name, nil
}

func (c *Client) DeleteIndex(_ context.Context, name string) error {
	idx, err := c.lookup(name)
	if err != nil {
		return err
	}

	delete(c.indices, name)
	delete(c.pending, name)
	return idx.bleve.Close()
}

// Index stores doc under a generated ID. A missing index is created on the
// fly, as ElasticSearch does with automatic index creation.
func (c *Client) Index(ctx context.Context, name string, doc json.RawMessage) (string, error) {
	if c.stopped {
		return "", ErrStopped
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return "", fmt.Errorf("mapper_parsing_exception: %w", err)
	}

	if _, ok := c.indices[name]; !ok {
		if _, err := c.CreateIndex(ctx, name, nil); err != nil {
			return "", err
		}
	}

	id := uuid.NewString()
	c.indices[name].sources[id] = append(json.RawMessage(nil), doc...)
	c.pending[name] = append(c.pending[name], id)
	return id, nil
}

// Refresh makes pending documents searchable. The in-memory index has one shard.
func (c *Client) Refresh(_ context.Context, name string) (elastic.RefreshResult, error) {
	idx, err := c.lookup(name)
	if err != nil {
		return elastic.RefreshResult{}, err
	}

	batch := idx.bleve.NewBatch()
	for _, id := range c.pending[name] {
		var fields map[string]interface{}
		if err := json.Unmarshal(idx.sources[id], &fields); err != nil {
			return elastic.RefreshResult{}, err
		}
		if err := batch.Index(id, fields); err != nil {
			return elastic.RefreshResult{}, err
		}
	}

	if err := idx.bleve.Batch(batch); err != nil {
		return elastic.RefreshResult{Total: 1, Failed: 1}, nil
	}
	delete(c.pending, name)

	return elastic.RefreshResult{Total: 1, Successful: 1}, nil
}

func (c *Client) Count(ctx context.Context, name string, q elastic.Query) (int64, error) {
	idx, err := c.lookup(name)
	if err != nil {
		return 0, err
	}

	bq, err := toBleve(q)
	if err != nil {
		return 0, err
	}

	res, err := idx.bleve.SearchInContext(ctx, bleve.NewSearchRequestOptions(bq, 0, 0, false))
	if err != nil {
		return 0, err
	}
	return int64(res.Total), nil
}

func (c *Client) Search(ctx context.Context, name string, filter elastic.Query) (*elastic.SearchResult, error) {
	idx, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	bq, err := toBleve(filter)
	if err != nil {
		return nil, err
	}

	res, err := idx.bleve.SearchInContext(ctx, bleve.NewSearchRequestOptions(bq, DefaultSize, 0, false))
	if err != nil {
		return nil, err
	}

	hits := make([]elastic.SearchHit, 0, len(res.Hits))
	for _, match := range res.Hits {
		score := match.Score
		hits = append(hits, elastic.SearchHit{
			Index:  name,
			ID:     match.ID,
			Score:  &score,
			Source: idx.sources[match.ID],
		})
	}

	return elastic.NewSearchResult(int64(res.Total), hits), nil
}

// Stop closes all indices. The client cannot be used afterwards.
func (c *Client) Stop() {
	for name, idx := range c.indices {
		_ = idx.bleve.Close()
		delete(c.indices, name)
	}
	c.stopped = true
}

func (c *Client) lookup(name string) (*index, error) {
	if c.stopped {
		return nil, ErrStopped
	}
	idx, ok := c.indices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	return idx, nil
}

func toBleve(q elastic.Query) (query.Query, error) {
	switch q := q.(type) {
	case nil, *elastic.MatchAllQuery:
		return bleve.NewMatchAllQuery(), nil
	case *elastic.TermQuery:
		tq := bleve.NewTermQuery(q.Value)
		tq.SetField(q.Field)
		return tq, nil
	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}
