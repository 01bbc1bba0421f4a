package suggest

import (
	"context"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
)

// Gateway resolves reference ids within one collection.
type Gateway interface {
	Kind() kind.Kind
	GetByReferenceID(ctx context.Context, id refid.ID) (entity.Record, error)
}

// RemoteSuggester serves type-ahead suggestions from the external backend.
type RemoteSuggester interface {
	Suggestions(ctx context.Context, term string) ([]suggestion.Suggestion, error)
}
