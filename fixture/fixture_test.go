package fixture

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocuments(t *testing.T) {
	want := []Country{
		{Name: "Bahamas", States: []string{"Bimini", "Exuma"}},
		{Name: "Bahrain", States: []string{"Al Hadd"}},
		{Name: "Antarctica", States: []string{}},
	}

	for _, path := range []string{"testdata/countries.json", "testdata/countries.yaml"} {
		t.Run(path, func(t *testing.T) {
			docs, err := LoadDocuments(path)
			require.NoError(t, err)
			require.Len(t, docs, len(want))

			for i, doc := range docs {
				var got Country
				require.NoError(t, json.Unmarshal(doc, &got))
				assert.Equal(t, want[i], got)
			}
		})
	}
}

func TestLoadDocuments_Default(t *testing.T) {
	docs, err := LoadDocuments("")
	require.NoError(t, err)
	assert.Len(t, docs, 16)

	var first Country
	require.NoError(t, json.Unmarshal(docs[0], &first))
	assert.Equal(t, "Afghanistan", first.Name)
}

func TestLoadDocuments_SerializedShape(t *testing.T) {
	docs, err := LoadDocuments("testdata/no_states.json")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"country":"Bahamas","states":[]}`, string(docs[0]))
}

func TestLoadDocuments_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing countries key", "testdata/missing_countries.json"},
		{"malformed json", "testdata/malformed.json"},
		{"entry without country", "testdata/missing_name.json"},
		{"missing file", "testdata/does_not_exist.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := LoadDocuments(tt.path)
			require.Error(t, err)
			assert.Nil(t, docs)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.path, perr.Path)
		})
	}
}

func TestLoadDocuments_MissingFileIsNotExist(t *testing.T) {
	_, err := LoadDocuments("testdata/does_not_exist.json")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"empty list", `{"countries": []}`, 0, false},
		{"null countries", `{"countries": null}`, 0, true},
		{"object countries", `{"countries": {}}`, 0, true},
		{"top level array", `[{"country": "Bahamas"}]`, 0, true},
		{"wrong state type", `{"countries": [{"country": "Bahamas", "states": [1]}]}`, 0, true},
		{"extra keys ignored", `{"countries": [{"country": "Bahamas", "capital": "Nassau"}], "version": 1}`, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("inline.json", []byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParse_YAMLMissingCountries(t *testing.T) {
	_, err := Parse("inline.yaml", []byte("nations: []\n"))
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}
