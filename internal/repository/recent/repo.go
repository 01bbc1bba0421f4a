// Package recent persists per-session recent search buffers as JSON with a TTL.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/localdex/internal/db"
	"github.com/kailas-cloud/localdex/internal/domain"
	domrecent "github.com/kailas-cloud/localdex/internal/domain/recent"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type bufferJSON struct {
	Capacity int      `json:"capacity"`
	Items    []string `json:"items"`
}

// Repo stores recent search buffers.
type Repo struct {
	store    store
	capacity int
	ttl      time.Duration
}

// New creates a repository. capacity applies to sessions without a stored buffer.
func New(s store, capacity int, ttl time.Duration) *Repo {
	return &Repo{store: s, capacity: capacity, ttl: ttl}
}

// Load returns the session buffer, or an empty one when none is stored.
func (r *Repo) Load(ctx context.Context, session string) (domrecent.Buffer, error) {
	raw, err := r.store.Get(ctx, bufferKey(session))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrecent.New(r.capacity), nil
		}
		return domrecent.Buffer{}, fmt.Errorf("get %s: %w", bufferKey(session), err)
	}

	var dto bufferJSON
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domrecent.Buffer{}, fmt.Errorf("unmarshal recent buffer: %w", err)
	}
	// Configured capacity wins so a lowered limit trims old buffers on read.
	return domrecent.Reconstruct(r.capacity, dto.Items), nil
}

// Save writes the buffer and refreshes its TTL.
func (r *Repo) Save(ctx context.Context, session string, buf *domrecent.Buffer) error {
	data, err := json.Marshal(bufferJSON{Capacity: buf.Capacity(), Items: buf.Items()})
	if err != nil {
		return fmt.Errorf("marshal recent buffer: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, bufferKey(session), data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", bufferKey(session), err)
	}
	return nil
}

// Delete drops the session buffer. Deleting a missing buffer is not an error.
func (r *Repo) Delete(ctx context.Context, session string) error {
	if err := r.store.Del(ctx, bufferKey(session)); err != nil {
		return fmt.Errorf("del %s: %w", bufferKey(session), err)
	}
	return nil
}

func bufferKey(session string) string {
	return domain.KeyPrefix + "recent:" + session
}
