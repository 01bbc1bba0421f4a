package localdex

import (
	"context"
	"fmt"
	"time"
)

// RecentService is the recent-search buffer of one session.
type RecentService struct {
	session string
	svc     recentUseCase
	obs     *observer
}

// Record pushes term to the front of the buffer. Blank terms are ignored.
func (r *RecentService) Record(ctx context.Context, term string) (err error) {
	start := time.Now()
	defer func() { r.obs.observe(ctx, "recent.record", start, err) }()

	if err = r.svc.Record(ctx, r.session, term); err != nil {
		return fmt.Errorf("record recent: %w", err)
	}
	return nil
}

// List returns the buffer, most recent first.
func (r *RecentService) List(ctx context.Context) ([]string, error) {
	terms, err := r.svc.List(ctx, r.session)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return terms, nil
}

// Clear empties the buffer.
func (r *RecentService) Clear(ctx context.Context) error {
	if err := r.svc.Clear(ctx, r.session); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}
