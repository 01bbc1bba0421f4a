// Package wire holds the JSON shapes shared by the HTTP API and the remote
// search client, plus conversions to and from domain types.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
)

// Result is a search hit on the wire.
type Result struct {
	ReferenceID    string     `json:"referenceId"`
	Kind           string     `json:"kind,omitempty"`
	Name           string     `json:"name"`
	Category       string     `json:"category,omitempty"`
	Brand          string     `json:"brand,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	District       string     `json:"district,omitempty"`
	Location       *geo.Point `json:"location,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	Featured       bool       `json:"featured"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	Route          string     `json:"route"`
	DistanceMeters *float64   `json:"distanceMeters,omitempty"`
	MatchScore     float64    `json:"matchScore"`
	MatchType      string     `json:"matchType"`
}

// Suggestion is a type-ahead entry on the wire.
type Suggestion struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	ReferenceID string `json:"referenceId,omitempty"`
	Route       string `json:"route,omitempty"`
}

// FromResult converts a domain result.
func FromResult(r *result.Result) Result {
	p := r.Projection()
	out := Result{
		ReferenceID:    string(p.ReferenceID),
		Name:           p.Name,
		Category:       p.Category,
		Brand:          p.Brand,
		Tags:           p.Tags,
		District:       p.District,
		Location:       p.Location,
		Price:          p.Price,
		Featured:       p.Featured,
		ImageURL:       p.ImageURL,
		Route:          p.Route,
		DistanceMeters: p.DistanceMeters,
		MatchScore:     r.Score(),
		MatchType:      string(r.MatchType()),
	}
	if p.Kind.IsValid() {
		out.Kind = p.Kind.String()
	}
	return out
}

// FromResults converts a result list. A nil input yields an empty slice.
func FromResults(in []result.Result) []Result {
	out := make([]Result, len(in))
	for i := range in {
		out[i] = FromResult(&in[i])
	}
	return out
}

// ToResult converts a wire hit into a domain result. The kind is taken from the
// reference id when it decodes, else from the kind field. Unknown match types
// are kept as-is since remote backends may tag signals the local scorer lacks.
func (r *Result) ToResult() (result.Result, error) {
	if r.ReferenceID == "" {
		return result.Result{}, fmt.Errorf("result %q: missing referenceId", r.Name)
	}
	if r.MatchScore < 0 {
		return result.Result{}, fmt.Errorf("result %s: negative matchScore", r.ReferenceID)
	}
	k, ok := refid.KindOf(r.ReferenceID)
	if !ok && r.Kind != "" {
		if parsed, err := kind.Parse(r.Kind); err == nil {
			k = parsed
		}
	}
	route := r.Route
	if route == "" {
		route = refid.RoutePath(r.ReferenceID)
	}
	return result.New(result.Projection{
		ReferenceID:    refid.ID(r.ReferenceID),
		Kind:           k,
		Name:           r.Name,
		Category:       r.Category,
		Brand:          r.Brand,
		Tags:           r.Tags,
		District:       r.District,
		Location:       r.Location,
		Price:          r.Price,
		Featured:       r.Featured,
		ImageURL:       r.ImageURL,
		Route:          route,
		DistanceMeters: r.DistanceMeters,
	}, r.MatchScore, match.Type(r.MatchType)), nil
}

// ToResults converts a wire list, failing on the first malformed entry.
func ToResults(in []Result) ([]result.Result, error) {
	out := make([]result.Result, 0, len(in))
	for i := range in {
		r, err := in[i].ToResult()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// FromSuggestions converts domain suggestions. A nil input yields an empty slice.
func FromSuggestions(in []suggestion.Suggestion) []Suggestion {
	out := make([]Suggestion, len(in))
	for i, s := range in {
		out[i] = Suggestion{
			Text:        s.Text,
			Type:        string(s.Type),
			ReferenceID: string(s.ReferenceID),
			Route:       s.Route,
		}
	}
	return out
}

// ToSuggestions converts wire suggestions, dropping entries without text.
// A missing type defaults to a plain query.
func ToSuggestions(in []Suggestion) []suggestion.Suggestion {
	out := make([]suggestion.Suggestion, 0, len(in))
	for _, s := range in {
		if s.Text == "" {
			continue
		}
		t := suggestion.Type(s.Type)
		if t == "" {
			t = suggestion.Query
		}
		route := s.Route
		if route == "" && s.ReferenceID != "" {
			route = refid.RoutePath(s.ReferenceID)
		}
		out = append(out, suggestion.Suggestion{
			Text:        s.Text,
			Type:        t,
			ReferenceID: refid.ID(s.ReferenceID),
			Route:       route,
		})
	}
	return out
}

// Items is the envelope of list responses.
type Items[T any] struct {
	Items []T `json:"items"`
}

// DecodeList accepts either a bare JSON array or an {"items": [...]} envelope.
func DecodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode list: empty body")
	}
	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}
	var env Items[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return env.Items, nil
}
