// Package score computes the additive relevance of an entity record against a
// lower-cased search term. It is pure and performs no I/O.
package score

import (
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
)

// Signal weights. Only the ordering is load-bearing:
// reference id > exact name > name prefix > name substring > brand >
// category = tag > district > featured.
const (
	WeightReferenceID  = 10.0
	WeightNameExact    = 8.0
	WeightNamePrefix   = 6.0
	WeightNameContains = 4.0
	WeightBrand        = 3.0
	WeightCategory     = 2.0
	WeightTag          = 2.0
	WeightDistrict     = 1.0
	WeightFeatured     = 0.5
)

// Match is the cumulative score and the field of the strongest signal.
// A zero Value means the record does not match.
type Match struct {
	Value float64
	Type  match.Type
}

// IsMatch reports whether any textual signal fired.
func (m Match) IsMatch() bool { return m.Value > 0 }

// Score evaluates every signal in priority order and sums the weights.
// term must already be lower-cased. The featured boost only applies when a
// textual signal matched, so featured records never match on their own.
func Score(rec *entity.Record, term string) Match {
	if term == "" {
		return Match{}
	}

	var m Match
	hit := func(w float64, t match.Type) {
		if m.Value == 0 {
			m.Type = t
		}
		m.Value += w
	}

	if contains(string(rec.ReferenceID()), term) {
		hit(WeightReferenceID, match.ReferenceID)
	}

	name := strings.ToLower(rec.Name())
	if name == term {
		hit(WeightNameExact, match.Name)
	}
	if strings.HasPrefix(name, term) {
		hit(WeightNamePrefix, match.Name)
	}
	if strings.Contains(name, term) {
		hit(WeightNameContains, match.Name)
	}

	if rec.Kind().HasBrand() && contains(rec.Brand(), term) {
		hit(WeightBrand, match.Brand)
	}
	if contains(rec.Category(), term) {
		hit(WeightCategory, match.Category)
	}
	for _, tag := range rec.Tags() {
		if contains(tag, term) {
			hit(WeightTag, match.Tag)
			break
		}
	}
	if contains(rec.District(), term) {
		hit(WeightDistrict, match.District)
	}

	if m.Value > 0 && rec.Featured() {
		m.Value += WeightFeatured
	}
	return m
}

func contains(field, term string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), term)
}
