// Package remote is the HTTP client for the external aggregated search backend.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/metrics"
	"github.com/kailas-cloud/localdex/internal/transport/wire"
)

const (
	backendName = "http"

	pathUniversal   = "/search/universal"
	pathSuggestions = "/search/suggestions"
	pathRelated     = "/search/related"
	pathHealth      = "/health"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Config holds the remote backend settings.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout caps a single HTTP exchange; callers usually pass a tighter context.
	Timeout time.Duration
	Logger  *zap.Logger
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the remote search backend over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a remote search client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote client: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("remote client: invalid base url: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{baseURL: base, apiKey: cfg.APIKey, http: hc, logger: log}, nil
}

// Universal returns the backend's pre-ranked results for term.
func (c *Client) Universal(ctx context.Context, term string, loc *geo.Point) ([]result.Result, error) {
	q := url.Values{"q": {term}}
	if loc != nil {
		q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	}
	items, err := getList[wire.Result](ctx, c, "universal", pathUniversal, q)
	if err != nil {
		return nil, err
	}
	out, err := wire.ToResults(items)
	if err != nil {
		return nil, fmt.Errorf("remote universal: %w", err)
	}
	return out, nil
}

// Suggestions returns type-ahead suggestions for term.
func (c *Client) Suggestions(ctx context.Context, term string) ([]suggestion.Suggestion, error) {
	items, err := getList[wire.Suggestion](ctx, c, "suggestions", pathSuggestions, url.Values{"q": {term}})
	if err != nil {
		return nil, err
	}
	return wire.ToSuggestions(items), nil
}

// Related returns items the backend considers related to id.
func (c *Client) Related(ctx context.Context, id refid.ID, limit int) ([]result.Result, error) {
	q := url.Values{"referenceId": {string(id)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	items, err := getList[wire.Result](ctx, c, "related", pathRelated, q)
	if err != nil {
		return nil, err
	}
	out, err := wire.ToResults(items)
	if err != nil {
		return nil, fmt.Errorf("remote related: %w", err)
	}
	return out, nil
}

// HealthCheck reports whether the backend answers its health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.get(ctx, "health", pathHealth, nil); err != nil {
		return fmt.Errorf("remote health: %w", err)
	}
	return nil
}

func getList[T any](ctx context.Context, c *Client, op, path string, q url.Values) ([]T, error) {
	body, err := c.get(ctx, op, path, q)
	if err != nil {
		return nil, err
	}
	items, err := wire.DecodeList[T](body)
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w", op, err)
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("remote %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RemoteDuration.WithLabelValues(backendName, op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("remote %s: %w: %w", op, domain.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("remote %s: read body: %w: %w", op, domain.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("remote backend returned non-2xx",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return nil, domain.NewRemoteStatus(path, resp.StatusCode)
	}
	return body, nil
}
