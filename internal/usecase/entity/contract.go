package entity

import (
	"context"

	domentity "github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// Repository stores records of one collection.
type Repository interface {
	Kind() kind.Kind
	NewKey(id string) string
	Put(ctx context.Context, rec *domentity.Record) error
	GetByReferenceID(ctx context.Context, id refid.ID) (domentity.Record, error)
	Delete(ctx context.Context, id refid.ID) error
}

// Sequencer hands out per-partition sequence numbers.
type Sequencer interface {
	// Next atomically increments and returns the post-increment value.
	Next(ctx context.Context, partition string) (int64, error)
	Peek(ctx context.Context, partition string) (int64, error)
}
