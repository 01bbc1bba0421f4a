package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	domentity "github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
)

// Allocation describes the state of one reference id partition.
type Allocation struct {
	Partition string
	Issued    int64
	Next      refid.ID
}

// Service creates, reads and deletes entity records.
type Service struct {
	repos  map[kind.Kind]Repository
	seq    Sequencer
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New creates an entity service.
func New(repos []Repository, seq Sequencer, log *zap.Logger) *Service {
	byKind := make(map[kind.Kind]Repository, len(repos))
	for _, r := range repos {
		byKind[r.Kind()] = r
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repos: byKind, seq: seq, logger: log, now: time.Now, newID: uuid.NewString}
}

// Create validates d, allocates the next reference id in its partition and stores the record.
// An allocated id is never reused, so a failed store leaves a gap in the sequence.
func (s *Service) Create(ctx context.Context, k kind.Kind, d domentity.Draft) (domentity.Record, error) {
	repo, err := s.repo(k)
	if err != nil {
		return domentity.Record{}, err
	}

	// Reject bad drafts before a sequence number is spent on them.
	placeholder := refid.Parts{Kind: k, DistrictCode: refid.DistrictCode(d.District), Sequence: 1}.ID()
	if _, err := domentity.New("pending", placeholder, k, d, 0); err != nil {
		return domentity.Record{}, err
	}

	id, err := s.allocate(ctx, k, d.District)
	if err != nil {
		return domentity.Record{}, err
	}

	rec, err := domentity.New(repo.NewKey(s.newID()), id, k, d, s.now().UnixMilli())
	if err != nil {
		return domentity.Record{}, err
	}
	if err := repo.Put(ctx, &rec); err != nil {
		return domentity.Record{}, fmt.Errorf("store %s: %w", id, err)
	}

	logger.OrFallback(ctx, s.logger).Info("entity created",
		zap.String("reference_id", string(id)),
		zap.String("kind", k.String()),
	)
	return rec, nil
}

// Get returns the record behind a reference id.
func (s *Service) Get(ctx context.Context, raw string) (domentity.Record, error) {
	p, err := refid.Parse(raw)
	if err != nil {
		return domentity.Record{}, err
	}
	repo, err := s.repo(p.Kind)
	if err != nil {
		return domentity.Record{}, err
	}
	rec, err := repo.GetByReferenceID(ctx, p.ID())
	if err != nil {
		return domentity.Record{}, fmt.Errorf("get %s: %w", p.ID(), err)
	}
	return rec, nil
}

// Delete removes a record. Its sequence number is not released.
func (s *Service) Delete(ctx context.Context, raw string) error {
	p, err := refid.Parse(raw)
	if err != nil {
		return err
	}
	repo, err := s.repo(p.Kind)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, p.ID()); err != nil {
		return fmt.Errorf("delete %s: %w", p.ID(), err)
	}
	return nil
}

// Reserve allocates the next reference id in a partition without storing a
// record. The id is spent even if no record is ever created for it.
func (s *Service) Reserve(ctx context.Context, k kind.Kind, district string) (refid.ID, error) {
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %d", domain.ErrUnknownKind, int(k))
	}
	id, err := s.allocate(ctx, k, district)
	if err != nil {
		return "", err
	}
	logger.OrFallback(ctx, s.logger).Info("reference id reserved",
		zap.String("reference_id", string(id)),
		zap.String("kind", k.String()),
	)
	return id, nil
}

func (s *Service) allocate(ctx context.Context, k kind.Kind, district string) (refid.ID, error) {
	partition := refid.Partition(k, district)
	n, err := s.seq.Next(ctx, partition)
	if err != nil {
		return "", fmt.Errorf("allocate reference id in %s: %w", partition, err)
	}
	id, err := refid.Encode(k, district, int(n-1))
	if err != nil {
		return "", err
	}
	metrics.ReferenceIDsAllocatedTotal.WithLabelValues(k.String()).Inc()
	return id, nil
}

// Peek reports how many ids a partition has issued and which id comes next.
// Next is empty and the error wraps domain.ErrSequenceExhausted once the partition is full.
func (s *Service) Peek(ctx context.Context, k kind.Kind, district string) (Allocation, error) {
	if !k.IsValid() {
		return Allocation{}, fmt.Errorf("%w: %d", domain.ErrUnknownKind, int(k))
	}
	a := Allocation{Partition: refid.Partition(k, district)}
	n, err := s.seq.Peek(ctx, a.Partition)
	if err != nil {
		return Allocation{}, fmt.Errorf("peek %s: %w", a.Partition, err)
	}
	a.Issued = n
	next, err := refid.Encode(k, district, int(n))
	if err != nil {
		return a, err
	}
	a.Next = next
	return a, nil
}

func (s *Service) repo(k kind.Kind) (Repository, error) {
	if r, ok := s.repos[k]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKind, k)
}
