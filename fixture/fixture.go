// Package fixture reads the countries fixture and splits it into one
// standalone JSON document per country.
package fixture

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is reported as the path when the built-in fixture is loaded.
const DefaultName = "countries.json"

//go:embed countries.json
var defaultFixture []byte

// Mapping declares country and states as keywords so term queries match the
// stored value exactly, including case.
var Mapping = json.RawMessage(`{
  "mappings": {
    "properties": {
      "country": {"type": "keyword"},
      "states": {"type": "keyword"}
    }
  }
}`)

// Country is a single document of the fixture.
type Country struct {
	Name   string   `json:"country" yaml:"country"`
	States []string `json:"states" yaml:"states"`
}

// ParseError is returned for any fixture that cannot be read or does not
// have the expected shape. Nothing is loaded when it occurs.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing fixture %q: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadDocuments reads the fixture at path and returns one serialized document
// per country in source order. An empty path loads the built-in fixture.
func LoadDocuments(path string) ([]json.RawMessage, error) {
	countries, err := Load(path)
	if err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, 0, len(countries))
	for _, c := range countries {
		doc, err := json.Marshal(c)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Load reads and validates the fixture at path.
func Load(path string) ([]Country, error) {
	if path == "" {
		return Parse(DefaultName, defaultFixture)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes data, choosing YAML for .yml and .yaml names and JSON
// otherwise.
func Parse(name string, data []byte) ([]Country, error) {
	var (
		countries []Country
		err       error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml":
		countries, err = parseYAML(data)
	default:
		countries, err = parseJSON(data)
	}
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return countries, nil
}

// entry uses pointers so a missing key can be told apart from an empty value.
type entry struct {
	Country *string   `json:"country" yaml:"country"`
	States  *[]string `json:"states" yaml:"states"`
}

func parseJSON(data []byte) ([]Country, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	raw, ok := top["countries"]
	if !ok {
		return nil, errors.New(`missing "countries" key`)
	}

	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf(`"countries": %w`, err)
	}
	if entries == nil {
		return nil, errors.New(`"countries" must be an array`)
	}
	return toCountries(entries)
}

func parseYAML(data []byte) ([]Country, error) {
	var top struct {
		Countries *[]entry `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if top.Countries == nil {
		return nil, errors.New(`missing "countries" key`)
	}
	return toCountries(*top.Countries)
}

func toCountries(entries []entry) ([]Country, error) {
	countries := make([]Country, 0, len(entries))
	for i, e := range entries {
		if e.Country == nil {
			return nil, fmt.Errorf(`countries[%d]: missing "country"`, i)
		}

		c := Country{Name: *e.Country, States: []string{}}
		if e.States != nil && *e.States != nil {
			c.States = *e.States
		}
		countries = append(countries, c)
	}
	return countries, nil
}
