// Package sequence stores the per-partition reference id counters.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/localdex/internal/db"
	"github.com/kailas-cloud/localdex/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo allocates sequence numbers with atomic increments. Counters never decrease.
type Repo struct {
	store store
}

// New creates a sequence repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Next increments the partition counter and returns the post-increment value.
func (r *Repo) Next(ctx context.Context, partition string) (int64, error) {
	n, err := r.store.IncrBy(ctx, counterKey(partition), 1)
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", counterKey(partition), err)
	}
	return n, nil
}

// Peek returns how many ids the partition has issued. A missing counter is zero.
func (r *Repo) Peek(ctx context.Context, partition string) (int64, error) {
	raw, err := r.store.Get(ctx, counterKey(partition))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get %s: %w", counterKey(partition), err)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", counterKey(partition), err)
	}
	return n, nil
}

func counterKey(partition string) string {
	return domain.KeyPrefix + "seq:" + partition
}
