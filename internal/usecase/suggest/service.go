package suggest

import (
	"context"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
	"github.com/kailas-cloud/localdex/internal/tier"
)

var tracer = otel.Tracer("localdex/usecase/suggest")

// Config tunes the suggestion provider.
type Config struct {
	RemoteTimeout time.Duration
	CacheSize     int
	CacheTTL      time.Duration
	// Catalog replaces DefaultCatalog when non-empty.
	Catalog []string
}

// Service produces type-ahead suggestions.
type Service struct {
	byKind  map[kind.Kind]Gateway
	remote  RemoteSuggester
	cache   *lru.LRU[string, []suggestion.Suggestion]
	catalog []string
	cfg     Config
	logger  *zap.Logger
}

// New creates a suggestion service. remote may be nil.
func New(gateways []Gateway, remote RemoteSuggester, cfg Config, log *zap.Logger) *Service {
	byKind := make(map[kind.Kind]Gateway, len(gateways))
	for _, g := range gateways {
		byKind[g.Kind()] = g
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	catalog := DefaultCatalog
	if len(cfg.Catalog) > 0 {
		catalog = cfg.Catalog
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		byKind:  byKind,
		remote:  remote,
		cache:   lru.NewLRU[string, []suggestion.Suggestion](cfg.CacheSize, nil, cfg.CacheTTL),
		catalog: catalog,
		cfg:     cfg,
		logger:  log,
	}
}

// Suggest returns at most suggestion.MaxSuggestions entries for term. It never fails.
func (s *Service) Suggest(ctx context.Context, term string) []suggestion.Suggestion {
	ctx, span := tracer.Start(ctx, "Suggest")
	defer span.End()

	term = strings.TrimSpace(term)
	if term == "" {
		return []suggestion.Suggestion{}
	}

	if sg, ok := s.lookupReference(ctx, term); ok {
		span.SetAttributes(attribute.String("source", "reference"))
		metrics.SearchRequestsTotal.WithLabelValues("suggest", "reference").Inc()
		return []suggestion.Suggestion{sg}
	}

	key := strings.ToLower(term)
	if cached, ok := s.cache.Get(key); ok {
		metrics.SuggestCacheTotal.WithLabelValues("hit").Inc()
		metrics.SearchRequestsTotal.WithLabelValues("suggest", "remote").Inc()
		return cloneSuggestions(cached)
	}

	var primary tier.Func[[]suggestion.Suggestion]
	if s.remote != nil {
		metrics.SuggestCacheTotal.WithLabelValues("miss").Inc()
		primary = func(ctx context.Context) ([]suggestion.Suggestion, error) {
			out, err := s.remote.Suggestions(ctx, term)
			if err != nil {
				return nil, err
			}
			if len(out) > suggestion.MaxSuggestions {
				out = out[:suggestion.MaxSuggestions]
			}
			s.cache.Add(key, cloneSuggestions(out))
			return out, nil
		}
	}
	fallback := func(_ context.Context) ([]suggestion.Suggestion, error) {
		return suggestion.MatchCatalog(s.catalog, term), nil
	}

	out, src, _ := tier.Run(ctx, primary, fallback, tier.Options{
		Operation:      "suggest",
		PrimaryTimeout: s.cfg.RemoteTimeout,
		Logger:         s.logger,
	})
	source := "local"
	if src == tier.SourcePrimary {
		source = "remote"
	}
	span.SetAttributes(attribute.String("source", source), attribute.Int("suggestion_count", len(out)))
	metrics.SearchRequestsTotal.WithLabelValues("suggest", source).Inc()
	if out == nil {
		out = []suggestion.Suggestion{}
	}
	return out
}

func (s *Service) lookupReference(ctx context.Context, term string) (suggestion.Suggestion, bool) {
	id := refid.Normalize(term)
	k, ok := refid.KindOf(id)
	if !ok {
		return suggestion.Suggestion{}, false
	}
	g, ok := s.byKind[k]
	if !ok {
		return suggestion.Suggestion{}, false
	}
	rec, err := g.GetByReferenceID(ctx, refid.ID(id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.OrFallback(ctx, s.logger).Warn("reference lookup failed",
				zap.String("reference_id", id),
				zap.Error(err),
			)
		}
		return suggestion.Suggestion{}, false
	}
	return suggestion.ForReference(rec.ReferenceID(), rec.Name()), true
}

func cloneSuggestions(in []suggestion.Suggestion) []suggestion.Suggestion {
	out := make([]suggestion.Suggestion, len(in))
	copy(out, in)
	return out
}
