// Package api defines the localdex HTTP contract: request and response
// bodies, the ServerInterface implemented by the transport layer and a chi
// router that binds path and query parameters before dispatching.
package api

import (
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/transport/wire"
)

// ErrorResponseCode is the machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized       ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed   ErrorResponseCode = "validation_failed"
	ErrorResponseCodeInvalidReferenceID ErrorResponseCode = "invalid_reference_id"
	ErrorResponseCodeUnknownKind        ErrorResponseCode = "unknown_kind"
	ErrorResponseCodeInvalidSession     ErrorResponseCode = "invalid_session"
	ErrorResponseCodeNotFound           ErrorResponseCode = "not_found"
	ErrorResponseCodeAlreadyExists      ErrorResponseCode = "already_exists"
	ErrorResponseCodeSequenceExhausted  ErrorResponseCode = "sequence_exhausted"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchUniversalParams are the query parameters of GET /search/universal.
type SearchUniversalParams struct {
	Q     string   `form:"q" json:"q"`
	Lat   *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lng   *float64 `form:"lng,omitempty" json:"lng,omitempty"`
	Limit *int     `form:"limit,omitempty" json:"limit,omitempty"`
}

// SearchSuggestionsParams are the query parameters of GET /search/suggestions.
type SearchSuggestionsParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// SearchRelatedParams are the query parameters of GET /search/related.
type SearchRelatedParams struct {
	ReferenceId string `form:"referenceId" json:"referenceId"`
	Limit       *int   `form:"limit,omitempty" json:"limit,omitempty"`
}

// CollectionStatus reports one collection of a local fan-out.
type CollectionStatus struct {
	Kind    string `json:"kind"`
	Matched int    `json:"matched"`
	OK      bool   `json:"ok"`
}

// SearchResponse is the body of GET /search/universal.
type SearchResponse struct {
	Items       []wire.Result      `json:"items"`
	Total       int                `json:"total"`
	Source      string             `json:"source"`
	Collections []CollectionStatus `json:"collections,omitempty"`
}

// SuggestionsResponse is the body of GET /search/suggestions.
type SuggestionsResponse struct {
	Items []wire.Suggestion `json:"items"`
}

// RelatedResponse is the body of GET /search/related.
type RelatedResponse struct {
	Items  []wire.Result `json:"items"`
	Source string        `json:"source"`
}

// ResolveResponse is the body of GET /resolve/{referenceId}.
type ResolveResponse struct {
	ReferenceID string `json:"referenceId"`
	Route       string `json:"route"`
	Kind        string `json:"kind,omitempty"`
	Valid       bool   `json:"valid"`
}

// EntityRequest is the body of POST /entities/{kind}.
type EntityRequest struct {
	Name        string            `json:"name"`
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Description string            `json:"description,omitempty"`
	District    string            `json:"district,omitempty"`
	Location    *geo.Point        `json:"location,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
	Active      *bool             `json:"active,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// EntityResponse is a stored entity record.
type EntityResponse struct {
	ReferenceID string            `json:"referenceId"`
	Kind        string            `json:"kind"`
	Route       string            `json:"route"`
	Name        string            `json:"name"`
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Description string            `json:"description,omitempty"`
	District    string            `json:"district,omitempty"`
	Location    *geo.Point        `json:"location,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Featured    bool              `json:"featured"`
	Active      bool              `json:"active"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   int64             `json:"createdAt"`
}

// RecentResponse is the body of GET /sessions/{session}/recent.
type RecentResponse struct {
	Items []string `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
