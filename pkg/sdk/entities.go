package localdex

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EntityService creates and manages entity records.
type EntityService struct {
	svc entityUseCase
	obs *observer
}

// Create stores a new entity. Its reference id is allocated from the
// kind and district partition and is never reused.
func (s *EntityService) Create(ctx context.Context, k Kind, d EntityDraft) (_ Entity, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "entity.create", start, err, slog.String("kind", string(k))) }()

	dk, err := toKind(k)
	if err != nil {
		return Entity{}, err
	}
	rec, err := s.svc.Create(ctx, dk, toDraft(&d))
	if err != nil {
		return Entity{}, fmt.Errorf("create %s: %w", k, err)
	}
	return fromRecord(&rec), nil
}

// Get fetches an entity by reference id. Lower-case ids are accepted.
func (s *EntityService) Get(ctx context.Context, referenceID string) (_ Entity, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "entity.get", start, err, slog.String("reference_id", referenceID)) }()

	rec, err := s.svc.Get(ctx, referenceID)
	if err != nil {
		return Entity{}, fmt.Errorf("get %s: %w", referenceID, err)
	}
	return fromRecord(&rec), nil
}

// Delete removes an entity. The reference id stays spent.
func (s *EntityService) Delete(ctx context.Context, referenceID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "entity.delete", start, err, slog.String("reference_id", referenceID)) }()

	if err = s.svc.Delete(ctx, referenceID); err != nil {
		return fmt.Errorf("delete %s: %w", referenceID, err)
	}
	return nil
}

// Reserve spends the next reference id of a partition without storing an entity.
func (s *EntityService) Reserve(ctx context.Context, k Kind, district string) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe(ctx, "entity.reserve", start, err, slog.String("kind", string(k))) }()

	dk, err := toKind(k)
	if err != nil {
		return "", err
	}
	id, err := s.svc.Reserve(ctx, dk, district)
	if err != nil {
		return "", fmt.Errorf("reserve %s: %w", k, err)
	}
	return string(id), nil
}

// Peek reports the state of a partition without advancing it.
func (s *EntityService) Peek(ctx context.Context, k Kind, district string) (Allocation, error) {
	dk, err := toKind(k)
	if err != nil {
		return Allocation{}, err
	}
	a, err := s.svc.Peek(ctx, dk, district)
	out := Allocation{Partition: a.Partition, Issued: a.Issued, Next: string(a.Next)}
	if err != nil {
		return out, fmt.Errorf("peek %s: %w", k, err)
	}
	return out, nil
}
