package elastic

import (
	"encoding/json"
)

type MatchAllQuery struct{}

func NewMatchAllQuery() *MatchAllQuery {
	return &MatchAllQuery{}
}

func (q *MatchAllQuery) Build() map[string]interface{} {
	return map[string]interface{}{
		"match_all": map[string]interface{}{},
	}
}

// TermQuery matches documents whose field holds exactly Value. There is no
// analysis, fuzziness or boost.
type TermQuery struct {
	Field string
	Value string
}

func NewTermQuery(field, value string) *TermQuery {
	return &TermQuery{Field: field, Value: value}
}

func (q *TermQuery) Build() map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{
			q.Field: map[string]interface{}{
				"value": q.Value,
			},
		},
	}
}

// CountBody wraps query for the _count endpoint. A nil query counts everything.
func CountBody(query Query) ([]byte, error) {
	if query == nil {
		return nil, nil
	}
	return json.Marshal(map[string]interface{}{"query": query.Build()})
}

// SearchBody puts filter into post_filter so it narrows hits without
// influencing scoring.
func SearchBody(filter Query) ([]byte, error) {
	body := map[string]interface{}{}
	if filter != nil {
		body["post_filter"] = filter.Build()
	}
	return json.Marshal(body)
}
