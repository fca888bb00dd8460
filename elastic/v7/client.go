package v7

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/olivere/elastic/v7"
	esindex "github.com/pteich/elastic-index-workflow/elastic"
)

type Client struct {
	client *elastic.Client
	url    string
}

var _ esindex.Client = (*Client)(nil)

func NewClient(url string, esOpts []elastic.ClientOptionFunc) (*Client, error) {
	client, err := elastic.NewClient(esOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, url: url}, nil
}

// Options translates conf into client options. errorLog and traceLog may be nil.
func Options(conf esindex.Config, httpClient *http.Client, errorLog, traceLog *log.Logger) []elastic.ClientOptionFunc {
	esOpts := []elastic.ClientOptionFunc{
		elastic.SetHttpClient(httpClient),
		elastic.SetURL(conf.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheckInterval(60 * time.Second),
		elastic.SetHealthcheckTimeoutStartup(conf.ConnectTimeout),
	}

	if errorLog != nil {
		esOpts = append(esOpts, elastic.SetErrorLog(errorLog))
	}

	if conf.Trace && traceLog != nil {
		esOpts = append(esOpts, elastic.SetTraceLog(traceLog))
	}

	if conf.HasCredentials() {
		esOpts = append(esOpts, elastic.SetBasicAuth(conf.Username, conf.Password))
	}

	return esOpts
}

func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.client.Ping(c.url).Do(ctx)
	return err
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	return c.client.IndexExists(index).Do(ctx)
}

func (c *Client) CreateIndex(ctx context.Context, index string, body json.RawMessage) (string, error) {
	svc := c.client.CreateIndex(index)
	if len(body) > 0 {
		svc = svc.BodyString(string(body))
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return "", err
	}
	return res.Index, nil
}

func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	_, err := c.client.DeleteIndex(index).Do(ctx)
	return err
}

func (c *Client) Index(ctx context.Context, index string, doc json.RawMessage) (string, error) {
	res, err := c.client.Index().Index(index).BodyString(string(doc)).Do(ctx)
	if err != nil {
		return "", err
	}
	return res.Id, nil
}

func (c *Client) Refresh(ctx context.Context, index string) (esindex.RefreshResult, error) {
	res, err := c.client.Refresh(index).Do(ctx)
	if err != nil {
		return esindex.RefreshResult{}, err
	}
	if res.Shards == nil {
		return esindex.RefreshResult{}, nil
	}
	return esindex.RefreshResult{
		Total:      res.Shards.Total,
		Successful: res.Shards.Successful,
		Failed:     res.Shards.Failed,
	}, nil
}

func (c *Client) Count(ctx context.Context, index string, query esindex.Query) (int64, error) {
	svc := c.client.Count(index)
	if query != nil {
		svc = svc.Query(sourceQuery{query: query})
	}
	return svc.Do(ctx)
}

func (c *Client) Search(ctx context.Context, index string, filter esindex.Query) (*esindex.SearchResult, error) {
	svc := c.client.Search(index).SearchType(esindex.SearchTypeDFSQueryThenFetch)
	if filter != nil {
		svc = svc.PostFilter(sourceQuery{query: filter})
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	hits := make([]esindex.SearchHit, 0)
	if res.Hits != nil {
		if res.Hits.TotalHits != nil {
			total = res.Hits.TotalHits.Value
		}
		for _, hit := range res.Hits.Hits {
			hits = append(hits, esindex.SearchHit{
				Index:  hit.Index,
				ID:     hit.Id,
				Score:  hit.Score,
				Source: hit.Source,
			})
		}
	}

	return esindex.NewSearchResult(total, hits), nil
}

func (c *Client) Stop() {
	c.client.Stop()
}

// sourceQuery adapts a built query map to the olivere Query interface.
type sourceQuery struct {
	query esindex.Query
}

func (q sourceQuery) Source() (interface{}, error) {
	return q.query.Build(), nil
}
