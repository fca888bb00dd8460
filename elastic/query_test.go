package elastic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBody(t *testing.T) {
	body, err := SearchBody(NewTermQuery("country", "Bahamas"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"post_filter":{"term":{"country":{"value":"Bahamas"}}}}`, string(body))

	body, err = SearchBody(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))
}

func TestCountBody(t *testing.T) {
	body, err := CountBody(NewMatchAllQuery())
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match_all":{}}}`, string(body))

	body, err = CountBody(nil)
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestSearchResponse_Result(t *testing.T) {
	raw := `{"hits":{"total":{"value":1,"relation":"eq"},"hits":[{"_index":"countries","_id":"a1","_score":1.5,"_source":{"country":"Bahamas"}}]}}`

	resp, err := Decode[SearchResponse](strings.NewReader(raw))
	require.NoError(t, err)

	res := resp.Result()
	assert.Equal(t, int64(1), res.Total())
	require.Len(t, res.Hits(), 1)
	assert.Equal(t, "a1", res.Hits()[0].ID)
	assert.JSONEq(t, `{"country":"Bahamas"}`, string(res.Hits()[0].GetSource()))
}

func TestRefreshResponse_Result(t *testing.T) {
	resp, err := Decode[RefreshResponse](strings.NewReader(`{"_shards":{"total":2,"successful":1,"failed":0}}`))
	require.NoError(t, err)
	assert.Equal(t, RefreshResult{Total: 2, Successful: 1}, resp.Result())
}

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient(Config{})
	require.NoError(t, err)
	assert.Zero(t, client.Timeout)

	_, err = NewHTTPClient(Config{ClientCrt: "missing.crt", ClientKey: "missing.key"})
	assert.Error(t, err)
}

func TestConfig_HasCredentials(t *testing.T) {
	assert.False(t, Config{}.HasCredentials())
	assert.False(t, Config{Password: "changeme"}.HasCredentials())
	assert.True(t, Config{Username: "elastic"}.HasCredentials())
	assert.Equal(t, "Basic ZWxhc3RpYzo=", Config{Username: "elastic"}.BasicAuth())
	assert.Equal(t, "Basic ZWxhc3RpYzpjaGFuZ2VtZQ==", Config{Username: "elastic", Password: "changeme"}.BasicAuth())
}
