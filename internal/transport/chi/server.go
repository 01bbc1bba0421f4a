package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/transport/api"
	"github.com/kailas-cloud/localdex/internal/transport/wire"
	healthuc "github.com/kailas-cloud/localdex/internal/usecase/health"
	relateduc "github.com/kailas-cloud/localdex/internal/usecase/related"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
)

// SessionHeader carries the client session whose recent searches are recorded.
const SessionHeader = "X-Session-ID"

// maxEntityBody bounds POST /entities payloads.
const maxEntityBody = 1 << 20

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) searchuc.Response
}

type relatedUseCase interface {
	RelatedTo(ctx context.Context, raw string, limit int) (relateduc.Response, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, term string) []suggestion.Suggestion
}

type recentUseCase interface {
	Record(ctx context.Context, session, term string) error
	List(ctx context.Context, session string) ([]string, error)
	Clear(ctx context.Context, session string) error
}

type entityUseCase interface {
	Create(ctx context.Context, k kind.Kind, d entity.Draft) (entity.Record, error)
	Get(ctx context.Context, raw string) (entity.Record, error)
	Delete(ctx context.Context, raw string) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases behind the HTTP API.
type Services struct {
	Search   searchUseCase
	Related  relatedUseCase
	Suggest  suggestUseCase
	Recent   recentUseCase
	Entities entityUseCase
	Health   healthUseCase
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements api.ServerInterface.
type Server struct {
	search        searchUseCase
	related       relatedUseCase
	suggest       suggestUseCase
	recent        recentUseCase
	entities      entityUseCase
	health        healthUseCase
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultResults int
	hardResults    int
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(svc Services, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		search:         svc.Search,
		related:        svc.Related,
		suggest:        svc.Suggest,
		recent:         svc.Recent,
		entities:       svc.Entities,
		health:         svc.Health,
		logger:         log,
		defaultResults: request.DefaultMaxResults,
		hardResults:    request.HardMaxResults,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidEntity, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidReferenceID, http.StatusBadRequest, api.ErrorResponseCodeInvalidReferenceID),
		sentinelHandler(domain.ErrUnknownKind, http.StatusBadRequest, api.ErrorResponseCodeUnknownKind),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, api.ErrorResponseCodeInvalidSession),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, api.ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, api.ErrorResponseCodeAlreadyExists),
		sentinelHandler(domain.ErrSequenceExhausted, http.StatusConflict, api.ErrorResponseCodeSequenceExhausted),
	}
	return s
}

// WithSearchLimits sets the result budget used when limit is omitted and the
// cap applied to explicit limits. Values above request.HardMaxResults are
// clamped by the request itself.
func (s *Server) WithSearchLimits(defaultResults, hardResults int) *Server {
	if defaultResults > 0 {
		s.defaultResults = defaultResults
	}
	if hardResults > 0 {
		s.hardResults = hardResults
	}
	return s
}

// SearchUniversal handles GET /search/universal.
func (s *Server) SearchUniversal(w http.ResponseWriter, r *http.Request, params api.SearchUniversalParams) {
	loc, err := locationFromParams(params.Lat, params.Lng)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	req, err := request.New(params.Q, loc, s.searchLimit(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := s.search.Search(r.Context(), &req)
	s.recordRecent(r, req.Term())

	out := api.SearchResponse{
		Items:  wire.FromResults(resp.Results),
		Total:  len(resp.Results),
		Source: string(resp.Source),
	}
	for _, c := range resp.Collections {
		out.Collections = append(out.Collections, api.CollectionStatus{
			Kind:    c.Kind.Collection(),
			Matched: c.Matched,
			OK:      c.OK(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// SearchSuggestions handles GET /search/suggestions.
func (s *Server) SearchSuggestions(w http.ResponseWriter, r *http.Request, params api.SearchSuggestionsParams) {
	var term string
	if params.Q != nil {
		term = *params.Q
	}
	if len(term) > request.MaxTermLength {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed,
			fmt.Sprintf("q too long (max %d chars)", request.MaxTermLength))
		return
	}
	items := s.suggest.Suggest(r.Context(), term)
	writeJSON(w, http.StatusOK, api.SuggestionsResponse{Items: wire.FromSuggestions(items)})
}

// SearchRelated handles GET /search/related.
func (s *Server) SearchRelated(w http.ResponseWriter, r *http.Request, params api.SearchRelatedParams) {
	limit := derefInt(params.Limit)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed, "limit must be positive")
		return
	}
	resp, err := s.related.RelatedTo(r.Context(), params.ReferenceId, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.RelatedResponse{
		Items:  wire.FromResults(resp.Results),
		Source: resp.Source,
	})
}

// Resolve handles GET /resolve/{referenceId}. Malformed ids resolve to the
// not-found route instead of failing.
func (s *Server) Resolve(w http.ResponseWriter, _ *http.Request, referenceID string) {
	out := api.ResolveResponse{
		ReferenceID: referenceID,
		Route:       refid.RoutePath(referenceID),
	}
	if k, ok := refid.KindOf(referenceID); ok {
		out.Kind = k.String()
		out.Valid = true
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateEntity handles POST /entities/{kind}.
func (s *Server) CreateEntity(w http.ResponseWriter, r *http.Request, kindName string) {
	k, err := kind.Parse(kindName)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req api.EntityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEntityBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, err := s.entities.Create(r.Context(), k, draftFromRequest(&req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entityToResponse(&rec))
}

// GetEntity handles GET /entities/{referenceId}.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request, referenceID string) {
	rec, err := s.entities.Get(r.Context(), referenceID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entityToResponse(&rec))
}

// DeleteEntity handles DELETE /entities/{referenceId}.
func (s *Server) DeleteEntity(w http.ResponseWriter, r *http.Request, referenceID string) {
	if err := s.entities.Delete(r.Context(), referenceID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRecent handles GET /sessions/{session}/recent.
func (s *Server) ListRecent(w http.ResponseWriter, r *http.Request, session string) {
	items, err := s.recent.List(r.Context(), session)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, api.RecentResponse{Items: items})
}

// ClearRecent handles DELETE /sessions/{session}/recent.
func (s *Server) ClearRecent(w http.ResponseWriter, r *http.Request, session string) {
	if err := s.recent.Clear(r.Context(), session); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health. Degraded still answers 200 since the
// search endpoints keep serving from the surviving tier.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// recordRecent stores term in the caller's session buffer. Failures never
// affect the search response.
func (s *Server) recordRecent(r *http.Request, term string) {
	session := r.Header.Get(SessionHeader)
	if session == "" || s.recent == nil {
		return
	}
	if err := s.recent.Record(r.Context(), session, term); err != nil {
		logger.OrFallback(r.Context(), s.logger).Warn("record recent search failed",
			zap.String("session", session),
			zap.Error(err),
		)
	}
}

// ParamErrorHandler answers requests whose parameters failed to bind.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *api.InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, msg)
}

func (s *Server) searchLimit(p *int) int {
	limit := derefInt(p)
	if limit <= 0 {
		return s.defaultResults
	}
	return min(limit, s.hardResults)
}

func locationFromParams(lat, lng *float64) (*geo.Point, error) {
	switch {
	case lat == nil && lng == nil:
		return nil, nil
	case lat == nil || lng == nil:
		return nil, errors.New("lat and lng must be supplied together")
	}
	p, err := geo.NewPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Validation errors carry
// their detail; anything else is reduced to its sentinel text.
func safeDomainMessage(err error) string {
	for _, s := range []error{domain.ErrInvalidQuery, domain.ErrInvalidEntity} {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidReferenceID,
		domain.ErrUnknownKind,
		domain.ErrInvalidSession,
		domain.ErrSequenceExhausted,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
