package db

import (
	"errors"
	"strings"
)

// TagClause matches one value of a TAG field.
type TagClause struct {
	Field string
	Value string
}

// ListQuery selects hash records from an index by TAG equality.
// Prefix is the key prefix covered by Index; drivers without filter-only
// FT.SEARCH walk it instead. When SortBy names a NUMERIC field, results are
// ordered ascending by it (then by key) before Limit is applied.
type ListQuery struct {
	Index   string
	Prefix  string
	Must    []TagClause
	MustNot []TagClause
	SortBy  string
	Limit   int
}

// Validate checks that the query can be executed.
func (q *ListQuery) Validate() error {
	if q.Index == "" {
		return errors.New("index name is required")
	}
	if q.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	for _, group := range [][]TagClause{q.Must, q.MustNot} {
		for _, c := range group {
			if c.Field == "" {
				return errors.New("tag clause field is required")
			}
		}
	}
	return nil
}

// Matches evaluates the query against a stored hash using the default TAG
// semantics: comma-separated values, case-insensitive, trimmed.
func (q *ListQuery) Matches(fields map[string]string) bool {
	for _, c := range q.Must {
		if !tagHas(fields[c.Field], c.Value) {
			return false
		}
	}
	for _, c := range q.MustNot {
		if tagHas(fields[c.Field], c.Value) {
			return false
		}
	}
	return true
}

func tagHas(stored, value string) bool {
	if stored == "" {
		return false
	}
	value = strings.TrimSpace(value)
	for _, v := range strings.Split(stored, DefaultTagSeparator) {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}
