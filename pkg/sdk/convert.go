package localdex

import (
	"fmt"

	domentity "github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
)

func toKind(k Kind) (kind.Kind, error) {
	dk, err := kind.Parse(string(k))
	if err != nil {
		return 0, fmt.Errorf("localdex: %w", err)
	}
	return dk, nil
}

func toPoint(l *Location) *geo.Point {
	if l == nil {
		return nil
	}
	return &geo.Point{Lat: l.Lat, Lng: l.Lng}
}

func fromPoint(p *geo.Point) *Location {
	if p == nil {
		return nil
	}
	return &Location{Lat: p.Lat, Lng: p.Lng}
}

func fromResults(rs []result.Result) []Result {
	out := make([]Result, len(rs))
	for i := range rs {
		p := rs[i].Projection()
		out[i] = Result{
			ReferenceID:    string(p.ReferenceID),
			Kind:           Kind(p.Kind.String()),
			Name:           p.Name,
			Category:       p.Category,
			Brand:          p.Brand,
			Tags:           p.Tags,
			District:       p.District,
			Location:       fromPoint(p.Location),
			Price:          p.Price,
			Featured:       p.Featured,
			ImageURL:       p.ImageURL,
			Route:          p.Route,
			DistanceMeters: p.DistanceMeters,
			Score:          rs[i].Score(),
			MatchType:      string(rs[i].MatchType()),
		}
	}
	return out
}

func toDraft(d *EntityDraft) domentity.Draft {
	return domentity.Draft{
		Name:        d.Name,
		Category:    d.Category,
		Brand:       d.Brand,
		Tags:        d.Tags,
		Description: d.Description,
		District:    d.District,
		Location:    toPoint(d.Location),
		Price:       d.Price,
		Featured:    d.Featured,
		Active:      d.Active,
		ImageURL:    d.ImageURL,
		Attributes:  d.Attributes,
	}
}

func fromRecord(rec *domentity.Record) Entity {
	return Entity{
		ReferenceID: string(rec.ReferenceID()),
		Kind:        Kind(rec.Kind().String()),
		Route:       refid.RoutePath(string(rec.ReferenceID())),
		Name:        rec.Name(),
		Category:    rec.Category(),
		Brand:       rec.Brand(),
		Tags:        rec.Tags(),
		Description: rec.Description(),
		District:    rec.District(),
		Location:    fromPoint(rec.Location()),
		Price:       rec.Price(),
		Featured:    rec.Featured(),
		Active:      rec.Active(),
		ImageURL:    rec.ImageURL(),
		Attributes:  rec.Attributes(),
		CreatedAt:   rec.CreatedAt(),
	}
}
