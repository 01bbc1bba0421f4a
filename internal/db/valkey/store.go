// Package valkey adapts the rueidis store to Valkey with valkey-search, which
// cannot run filter-only FT.SEARCH queries. Listing walks the key prefix
// instead and evaluates TAG clauses in process.
package valkey

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/localdex/internal/db"
	"github.com/kailas-cloud/localdex/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// fetchBatch bounds keys per HGETALL pipeline.
const fetchBatch = 100

// Config holds connection parameters for a Valkey store.
type Config = redis.Config

// Store implements db.Store for Valkey 8+.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	inner, err := redis.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Store: inner}, nil
}

// SearchList lists hashes under the query prefix that satisfy its TAG clauses.
// Keys are visited in lexical order so repeated calls agree. With SortBy set
// every match is read and ordered before the limit is applied.
func (s *Store) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	prefix := q.Prefix
	if prefix == "" {
		prefix = indexToKeyPrefix(q.Index)
	}
	keys, err := s.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan for list: %w", err)
	}
	sort.Strings(keys)

	res := &db.SearchResult{}
	for start := 0; start < len(keys) && (q.SortBy != "" || len(res.Entries) < q.Limit); start += fetchBatch {
		end := min(start+fetchBatch, len(keys))
		batch := keys[start:end]

		hashes, err := s.HGetAllMulti(ctx, batch)
		if err != nil {
			return nil, err
		}
		for i, fields := range hashes {
			if len(fields) == 0 {
				continue // deleted between SCAN and HGETALL
			}
			if !q.Matches(fields) {
				continue
			}
			res.Total++
			if q.SortBy != "" || len(res.Entries) < q.Limit {
				res.Entries = append(res.Entries, db.SearchEntry{Key: batch[i], Fields: fields})
			}
		}
	}

	if q.SortBy != "" {
		sortEntries(res.Entries, q.SortBy)
		if len(res.Entries) > q.Limit {
			res.Entries = res.Entries[:q.Limit]
		}
	}
	return res, nil
}

// sortEntries orders entries ascending by a numeric field, then by key.
// Entries whose field is missing or unparsable sort last.
func sortEntries(entries []db.SearchEntry, field string) {
	num := func(e db.SearchEntry) (float64, bool) {
		v, err := strconv.ParseFloat(e.Fields[field], 64)
		return v, err == nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, aok := num(entries[i])
		b, bok := num(entries[j])
		switch {
		case aok != bok:
			return aok
		case aok && a != b:
			return a < b
		}
		return entries[i].Key < entries[j].Key
	})
}

// indexToKeyPrefix converts index name to a SCAN prefix.
// "localdex:shops:idx" -> "localdex:shops:"
func indexToKeyPrefix(index string) string {
	if strings.HasSuffix(index, ":idx") {
		return index[:len(index)-3]
	}
	return index + ":"
}
