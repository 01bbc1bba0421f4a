package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
)

// Search parameter limits.
const (
	// MaxTermLength is the maximum allowed search term length in bytes.
	MaxTermLength     = 256
	DefaultMaxResults = 50
	HardMaxResults    = 200
)

// Request is a validated universal search query.
type Request struct {
	term       string
	location   *geo.Point
	maxResults int
}

// New validates and normalizes search parameters.
// maxResults <= 0 falls back to DefaultMaxResults and is clamped to HardMaxResults.
func New(term string, location *geo.Point, maxResults int) (Request, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Request{}, fmt.Errorf("%w: term is required", domain.ErrInvalidQuery)
	}
	if len(term) > MaxTermLength {
		return Request{}, fmt.Errorf("%w: term too long (max %d chars)", domain.ErrInvalidQuery, MaxTermLength)
	}
	if location != nil && !geo.ValidateCoordinates(location.Lat, location.Lng) {
		return Request{}, fmt.Errorf("%w: location out of range", domain.ErrInvalidQuery)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > HardMaxResults {
		maxResults = HardMaxResults
	}
	return Request{term: term, location: location, maxResults: maxResults}, nil
}

// Term returns the trimmed search term as typed.
func (r *Request) Term() string { return r.term }

// Location returns the caller position, nil when not supplied.
func (r *Request) Location() *geo.Point { return r.location }

// MaxResults returns the result budget.
func (r *Request) MaxResults() int { return r.maxResults }

// WithMaxResults returns a copy with the budget lowered to limit when smaller.
func (r *Request) WithMaxResults(limit int) Request {
	out := *r
	if limit > 0 && limit < out.maxResults {
		out.maxResults = limit
	}
	return out
}
