package suggestion

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// MaxSuggestions caps every suggestion list.
const MaxSuggestions = 8

// Type tags where a suggestion came from.
type Type string

// Suggestion types.
const (
	Reference Type = "reference"
	Query     Type = "query"
	Entity    Type = "entity"
)

// Suggestion is a single type-ahead entry.
type Suggestion struct {
	Text        string
	Type        Type
	ReferenceID refid.ID
	Route       string
}

// ForReference builds the exact-entity suggestion for a resolved reference id.
func ForReference(id refid.ID, name string) Suggestion {
	return Suggestion{Text: name, Type: Reference, ReferenceID: id, Route: refid.RoutePath(string(id))}
}

const (
	rankPrefix = iota
	rankContains
	rankOverlap
)

// MatchCatalog filters catalog entries against term and ranks them:
// starts-with before contains before word overlap, then shorter text,
// then catalog order. At most MaxSuggestions entries are returned.
func MatchCatalog(catalog []string, term string) []Suggestion {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	words := strings.Fields(needle)

	type candidate struct {
		text string
		rank int
	}
	cands := make([]candidate, 0, len(catalog))
	for _, entry := range catalog {
		text := strings.TrimSpace(entry)
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		switch {
		case strings.HasPrefix(lower, needle):
			cands = append(cands, candidate{text, rankPrefix})
		case strings.Contains(lower, needle):
			cands = append(cands, candidate{text, rankContains})
		case overlaps(lower, words):
			cands = append(cands, candidate{text, rankOverlap})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return len(cands[i].text) < len(cands[j].text)
	})

	if len(cands) > MaxSuggestions {
		cands = cands[:MaxSuggestions]
	}
	out := make([]Suggestion, len(cands))
	for i, c := range cands {
		out[i] = Suggestion{Text: c.text, Type: Query}
	}
	return out
}

func overlaps(text string, words []string) bool {
	for _, tw := range strings.Fields(text) {
		for _, w := range words {
			if tw == w {
				return true
			}
		}
	}
	return false
}
