package result

import (
	"testing"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
)

func TestFromRecord(t *testing.T) {
	price := 40.0
	rec := entity.Reconstruct("k", "PRD-MAN-024", kind.Product, entity.Draft{
		Name: "Sev", Brand: "Ratlami", Category: "snacks", Tags: []string{"spicy"},
		District: "Mandsaur", Price: &price, Featured: true, ImageURL: "img/sev.png",
	}, 0)

	r := FromRecord(&rec, 12.5, match.Name)

	if r.ReferenceID() != "PRD-MAN-024" {
		t.Errorf("ReferenceID() = %q", r.ReferenceID())
	}
	if r.Score() != 12.5 || r.MatchType() != match.Name {
		t.Errorf("score/type = %v/%q", r.Score(), r.MatchType())
	}
	p := r.Projection()
	if p.Route != "/product/PRD-MAN-024" {
		t.Errorf("Route = %q", p.Route)
	}
	if p.Kind != kind.Product || p.Brand != "Ratlami" || *p.Price != 40 || !p.Featured {
		t.Errorf("projection = %+v", p)
	}
	if p.DistanceMeters != nil {
		t.Error("distance must be unset without an origin")
	}
}

func TestNew_KeepsExplicitRoute(t *testing.T) {
	r := New(Projection{ReferenceID: "SHP-MAN-001", Route: "/custom"}, 1, match.Related)
	if r.Projection().Route != "/custom" {
		t.Errorf("Route = %q", r.Projection().Route)
	}
}

func TestNew_InvalidReferenceRoutesToNotFound(t *testing.T) {
	r := New(Projection{ReferenceID: "bogus"}, 1, match.Description)
	if r.Projection().Route != "/not-found" {
		t.Errorf("Route = %q", r.Projection().Route)
	}
}

func TestWithDistanceFrom(t *testing.T) {
	origin := geo.Point{Lat: 24.07, Lng: 75.07}

	noLoc := New(Projection{ReferenceID: "SHP-MAN-001"}, 1, match.Name)
	if got := noLoc.WithDistanceFrom(origin); got.Projection().DistanceMeters != nil {
		t.Error("expected no distance without location")
	}

	withLoc := New(Projection{ReferenceID: "SHP-MAN-002", Location: &geo.Point{Lat: 24.07, Lng: 75.07}}, 1, match.Name)
	got := withLoc.WithDistanceFrom(origin)
	if got.Projection().DistanceMeters == nil || *got.Projection().DistanceMeters != 0 {
		t.Errorf("distance = %v", got.Projection().DistanceMeters)
	}
	if withLoc.Projection().DistanceMeters != nil {
		t.Error("WithDistanceFrom must not mutate the receiver")
	}
}
