package result

import (
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
)

// Fixed scores outside the additive scorer.
const (
	// ReferenceLookupScore is the ceiling assigned to a direct reference id hit.
	ReferenceLookupScore = 100.0
	// RelatedScore is the flat score of related items.
	RelatedScore = 5.0
)

// Projection is the entity view carried by a search hit.
type Projection struct {
	ReferenceID    refid.ID
	Kind           kind.Kind
	Name           string
	Category       string
	Brand          string
	Tags           []string
	District       string
	Location       *geo.Point
	Price          *float64
	Featured       bool
	ImageURL       string
	Route          string
	DistanceMeters *float64
}

// Result is a single search hit.
type Result struct {
	projection Projection
	score      float64
	matchType  match.Type
}

// New creates a search result. An empty route is derived from the reference id.
func New(p Projection, score float64, mt match.Type) Result {
	if p.Route == "" {
		p.Route = refid.RoutePath(string(p.ReferenceID))
	}
	return Result{projection: p, score: score, matchType: mt}
}

// FromRecord projects an entity record into a result.
func FromRecord(rec *entity.Record, score float64, mt match.Type) Result {
	return New(Projection{
		ReferenceID: rec.ReferenceID(),
		Kind:        rec.Kind(),
		Name:        rec.Name(),
		Category:    rec.Category(),
		Brand:       rec.Brand(),
		Tags:        rec.Tags(),
		District:    rec.District(),
		Location:    rec.Location(),
		Price:       rec.Price(),
		Featured:    rec.Featured(),
		ImageURL:    rec.ImageURL(),
	}, score, mt)
}

// Projection returns the entity view.
func (r *Result) Projection() Projection { return r.projection }

// ReferenceID returns the hit's reference id.
func (r *Result) ReferenceID() refid.ID { return r.projection.ReferenceID }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// MatchType returns the field of the strongest signal.
func (r *Result) MatchType() match.Type { return r.matchType }

// WithDistanceFrom returns a copy carrying the distance from origin in meters.
// Results without coordinates are returned unchanged.
func (r *Result) WithDistanceFrom(origin geo.Point) Result {
	out := *r
	loc := r.projection.Location
	if loc == nil {
		return out
	}
	d := origin.DistanceTo(*loc)
	out.projection.DistanceMeters = &d
	return out
}
