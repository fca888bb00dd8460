package v9

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/pteich/elastic-index-workflow/elastic"
)

type Client struct {
	client    *elasticsearch.Client
	transport http.RoundTripper
}

var _ elastic.Client = (*Client)(nil)

func NewClient(cfg elasticsearch.Config) (*Client, error) {
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, transport: cfg.Transport}, nil
}

func NewConfig(conf elastic.Config, httpClient *http.Client) elasticsearch.Config {
	cfg := elasticsearch.Config{
		Addresses: []string{conf.URL},
		Transport: httpClient.Transport,
	}

	if conf.HasCredentials() {
		cfg.Username = conf.Username
		cfg.Password = conf.Password
		// the transport skips basic auth for an empty password
		if conf.Password == "" {
			cfg.Header = http.Header{"Authorization": []string{conf.BasicAuth()}}
		}
	}

	if conf.Trace {
		cfg.Logger = &elastictransport.TextLogger{
			Output:             os.Stderr,
			EnableRequestBody:  true,
			EnableResponseBody: true,
		}
	}

	return cfg
}

func (c *Client) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	req := esapi.IndicesExistsRequest{
		Index: []string{index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errors.New(res.String())
	}
}

func (c *Client) CreateIndex(ctx context.Context, index string, body json.RawMessage) (string, error) {
	req := esapi.IndicesCreateRequest{
		Index: index,
	}
	if len(body) > 0 {
		req.Body = bytes.NewReader(body)
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", errors.New(res.String())
	}

	resp, err := elastic.Decode[elastic.CreateIndexResponse](res.Body)
	if err != nil {
		return "", err
	}
	return resp.Index, nil
}

func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	req := esapi.IndicesDeleteRequest{
		Index: []string{index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

func (c *Client) Index(ctx context.Context, index string, doc json.RawMessage) (string, error) {
	req := esapi.IndexRequest{
		Index: index,
		Body:  bytes.NewReader(doc),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", errors.New(res.String())
	}

	resp, err := elastic.Decode[elastic.IndexResponse](res.Body)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) Refresh(ctx context.Context, index string) (elastic.RefreshResult, error) {
	req := esapi.IndicesRefreshRequest{
		Index: []string{index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return elastic.RefreshResult{}, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return elastic.RefreshResult{}, errors.New(res.String())
	}

	resp, err := elastic.Decode[elastic.RefreshResponse](res.Body)
	if err != nil {
		return elastic.RefreshResult{}, err
	}
	return resp.Result(), nil
}

func (c *Client) Count(ctx context.Context, index string, query elastic.Query) (int64, error) {
	body, err := elastic.CountBody(query)
	if err != nil {
		return 0, err
	}

	req := esapi.CountRequest{
		Index: []string{index},
	}
	if body != nil {
		req.Body = bytes.NewReader(body)
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, errors.New(res.String())
	}

	resp, err := elastic.Decode[elastic.CountResponse](res.Body)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Search(ctx context.Context, index string, filter elastic.Query) (*elastic.SearchResult, error) {
	body, err := elastic.SearchBody(filter)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index:      []string{index},
		Body:       bytes.NewReader(body),
		SearchType: elastic.SearchTypeDFSQueryThenFetch,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New(res.String())
	}

	resp, err := elastic.Decode[elastic.SearchResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return resp.Result(), nil
}

// Stop releases idle connections held by the transport.
func (c *Client) Stop() {
	if tr, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		tr.CloseIdleConnections()
	}
}
