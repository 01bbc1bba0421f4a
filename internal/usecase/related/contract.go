package related

import (
	"context"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
)

// Gateway reads one entity collection by reference id and TAG field.
type Gateway interface {
	Kind() kind.Kind
	GetByReferenceID(ctx context.Context, id refid.ID) (entity.Record, error)
	QueryByField(ctx context.Context, field, value string, limit int, exclude ...refid.ID) ([]entity.Record, error)
}

// RemoteSearcher serves related items from the external backend.
type RemoteSearcher interface {
	Related(ctx context.Context, id refid.ID, limit int) ([]result.Result, error)
}
