// Package elastic serves the remote search tier from Elasticsearch.
//
// Each entity kind lives in its own index named <prefix><collection>
// (for example localdex-products). Documents use the same field names as the
// local hash records; the indices are populated outside this service.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/metrics"
)

const (
	backendName = "elasticsearch"

	defaultUniversalSize = 50
	defaultRelatedSize   = 6
)

// fieldBoosts mirrors the local scorer's signal priority, strongest first.
var fieldBoosts = []struct {
	field string
	boost float64
	match match.Type
}{
	{"reference_id", 10, match.ReferenceID},
	{"name", 6, match.Name},
	{"brand", 3, match.Brand},
	{"category", 2, match.Category},
	{"tags", 2, match.Tag},
	{"district", 1, match.District},
	{"description", 0.5, match.Description},
}

// Config holds the Elasticsearch backend settings.
type Config struct {
	Addresses   []string
	APIKey      string
	IndexPrefix string
	// UniversalSize caps universal search hits per request.
	UniversalSize int
	Logger        *zap.Logger
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Backend implements the remote search contract on Elasticsearch.
type Backend struct {
	es      *elasticsearch.Client
	indices []string
	prefix  string
	size    int
	logger  *zap.Logger
}

// New creates an Elasticsearch backend covering every entity kind.
func New(cfg Config) (*Backend, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elastic: at least one address is required")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		APIKey:    cfg.APIKey,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: create client: %w", err)
	}

	indices := make([]string, 0, len(kind.All()))
	for _, k := range kind.All() {
		indices = append(indices, cfg.IndexPrefix+k.Collection())
	}
	size := cfg.UniversalSize
	if size <= 0 {
		size = defaultUniversalSize
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{es: es, indices: indices, prefix: cfg.IndexPrefix, size: size, logger: log}, nil
}

// Universal runs a boosted multi-field query over every index. Each field
// clause is named so the hit reports which signal matched.
func (b *Backend) Universal(ctx context.Context, term string, loc *geo.Point) ([]result.Result, error) {
	should := make([]any, 0, len(fieldBoosts))
	for _, fb := range fieldBoosts {
		should = append(should, obj{"match": obj{fb.field: obj{
			"query": term,
			"boost": fb.boost,
			"_name": string(fb.match),
		}}})
	}
	query := obj{
		"size": b.size,
		"query": obj{"bool": obj{
			"should":               should,
			"minimum_should_match": 1,
			"filter":               []any{activeFilter()},
		}},
	}

	hits, err := b.search(ctx, "universal", query, b.size)
	if err != nil {
		return nil, err
	}
	out := make([]result.Result, 0, len(hits))
	for i := range hits {
		r := b.toResult(&hits[i], hits[i].matchType())
		if loc != nil {
			r = r.WithDistanceFrom(*loc)
		}
		out = append(out, r)
	}
	return out, nil
}

// Suggestions returns entity names starting with term.
func (b *Backend) Suggestions(ctx context.Context, term string) ([]suggestion.Suggestion, error) {
	query := obj{
		"size": suggestion.MaxSuggestions * 2,
		"query": obj{"bool": obj{
			"must":   []any{obj{"match_phrase_prefix": obj{"name": obj{"query": term}}}},
			"filter": []any{activeFilter()},
		}},
		"_source": []string{"reference_id", "name"},
	}

	hits, err := b.search(ctx, "suggestions", query, suggestion.MaxSuggestions*2)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(hits))
	out := make([]suggestion.Suggestion, 0, suggestion.MaxSuggestions)
	for _, h := range hits {
		key := strings.ToLower(h.Source.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, suggestion.Suggestion{
			Text:        h.Source.Name,
			Type:        suggestion.Entity,
			ReferenceID: refid.ID(h.Source.ReferenceID),
			Route:       refid.RoutePath(h.Source.ReferenceID),
		})
		if len(out) == suggestion.MaxSuggestions {
			break
		}
	}
	return out, nil
}

// Related finds the origin document, then ranks documents sharing its
// category, brand or district. The origin itself is excluded.
func (b *Backend) Related(ctx context.Context, id refid.ID, limit int) ([]result.Result, error) {
	if limit <= 0 {
		limit = defaultRelatedSize
	}
	origin, err := b.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	var should []any
	for _, f := range []struct{ field, value string }{
		{"category", origin.Category},
		{"brand", origin.Brand},
		{"district", origin.District},
	} {
		if f.value == "" {
			continue
		}
		should = append(should, obj{"match_phrase": obj{f.field: f.value}})
	}
	if len(should) == 0 {
		return []result.Result{}, nil
	}

	query := obj{
		"size": limit,
		"query": obj{"bool": obj{
			"should":               should,
			"minimum_should_match": 1,
			"filter":               []any{activeFilter()},
			"must_not":             []any{obj{"term": obj{"reference_id": string(id)}}},
		}},
	}
	hits, err := b.search(ctx, "related", query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]result.Result, 0, len(hits))
	for i := range hits {
		r := b.toResult(&hits[i], match.Related)
		out = append(out, result.New(r.Projection(), result.RelatedScore, match.Related))
	}
	return out, nil
}

// HealthCheck pings the cluster.
func (b *Backend) HealthCheck(ctx context.Context) error {
	res, err := b.es.Ping(b.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elastic ping: %w: %w", domain.ErrRemoteUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return domain.NewRemoteStatus("ping", res.StatusCode)
	}
	return nil
}

func (b *Backend) lookup(ctx context.Context, id refid.ID) (*document, error) {
	query := obj{
		"size":  1,
		"query": obj{"term": obj{"reference_id": string(id)}},
	}
	hits, err := b.search(ctx, "lookup", query, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("elastic lookup %s: %w", id, domain.ErrNotFound)
	}
	return &hits[0].Source, nil
}

func (b *Backend) search(ctx context.Context, op string, query obj, size int) ([]hit, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("elastic %s: encode query: %w", op, err)
	}

	start := time.Now()
	res, err := b.es.Search(
		b.es.Search.WithContext(ctx),
		b.es.Search.WithIndex(b.indices...),
		b.es.Search.WithBody(&buf),
		b.es.Search.WithSize(size),
		b.es.Search.WithIgnoreUnavailable(true),
	)
	metrics.RemoteDuration.WithLabelValues(backendName, op).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("elastic %s: %w: %w", op, domain.ErrRemoteUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		b.logger.Debug("elasticsearch returned an error",
			zap.String("operation", op),
			zap.String("status", res.Status()),
			zap.ByteString("body", body),
		)
		return nil, domain.NewRemoteStatus(op, res.StatusCode)
	}
	return decodeHits(res)
}

func decodeHits(res *esapi.Response) ([]hit, error) {
	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("elastic: decode response: %w", err)
	}
	return parsed.Hits.Hits, nil
}

func (b *Backend) toResult(h *hit, mt match.Type) result.Result {
	src := &h.Source
	k, ok := refid.KindOf(src.ReferenceID)
	if !ok {
		k, _ = kind.Parse(strings.TrimPrefix(h.Index, b.prefix))
	}
	var loc *geo.Point
	if src.Location != nil {
		loc = &geo.Point{Lat: src.Location.Lat, Lng: src.Location.Lon}
	}
	return result.New(result.Projection{
		ReferenceID: refid.ID(src.ReferenceID),
		Kind:        k,
		Name:        src.Name,
		Category:    src.Category,
		Brand:       src.Brand,
		Tags:        src.Tags,
		District:    src.District,
		Location:    loc,
		Price:       src.Price,
		Featured:    src.Featured,
		ImageURL:    src.ImageURL,
	}, h.Score, mt)
}

func activeFilter() obj {
	return obj{"bool": obj{"must_not": []any{obj{"term": obj{"active": false}}}}}
}
