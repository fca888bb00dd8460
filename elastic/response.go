package elastic

import (
	"encoding/json"
	"io"
)

// Wire shapes of the REST responses shared by the esapi based backends.

type CreateIndexResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Index        string `json:"index"`
}

type IndexResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"`
}

type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type RefreshResponse struct {
	Shards ShardsInfo `json:"_shards"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type SearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []SearchHit `json:"hits"`
	} `json:"hits"`
}

func Decode[T any](r io.Reader) (*T, error) {
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r RefreshResponse) Result() RefreshResult {
	return RefreshResult{
		Total:      r.Shards.Total,
		Successful: r.Shards.Successful,
		Failed:     r.Shards.Failed,
	}
}

func (r SearchResponse) Result() *SearchResult {
	return NewSearchResult(r.Hits.Total.Value, r.Hits.Hits)
}
