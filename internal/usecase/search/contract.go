package search

import (
	"context"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
)

// Gateway reads one entity collection.
type Gateway interface {
	Kind() kind.Kind
	GetByReferenceID(ctx context.Context, id refid.ID) (entity.Record, error)
	ScanAll(ctx context.Context, limit int) ([]entity.Record, error)
}

// RemoteSearcher is the external aggregated search backend.
type RemoteSearcher interface {
	Universal(ctx context.Context, term string, loc *geo.Point) ([]result.Result, error)
}
