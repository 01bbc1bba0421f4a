package recent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain"
)

// MaxSessionLength bounds session ids accepted from clients.
const MaxSessionLength = 128

var sessionPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// Service records and lists recent searches per session.
type Service struct {
	repo Repository
}

// New creates a recent-searches service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidateSession checks a client-supplied session id.
func ValidateSession(session string) error {
	if session == "" || len(session) > MaxSessionLength || !sessionPattern.MatchString(session) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSession, session)
	}
	return nil
}

// Record adds term to the session buffer. Blank terms are ignored.
func (s *Service) Record(ctx context.Context, session, term string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}
	if strings.TrimSpace(term) == "" {
		return nil
	}
	buf, err := s.repo.Load(ctx, session)
	if err != nil {
		return fmt.Errorf("load recent: %w", err)
	}
	buf.Add(term)
	if err := s.repo.Save(ctx, session, &buf); err != nil {
		return fmt.Errorf("save recent: %w", err)
	}
	return nil
}

// List returns the session's recent searches, newest first.
func (s *Service) List(ctx context.Context, session string) ([]string, error) {
	if err := ValidateSession(session); err != nil {
		return nil, err
	}
	buf, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("load recent: %w", err)
	}
	return buf.Items(), nil
}

// Clear forgets the session's recent searches.
func (s *Service) Clear(ctx context.Context, session string) error {
	if err := ValidateSession(session); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, session); err != nil {
		return fmt.Errorf("clear recent: %w", err)
	}
	return nil
}
