package related

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
	"github.com/kailas-cloud/localdex/internal/tier"
)

var tracer = otel.Tracer("localdex/usecase/related")

// Query fields, in union order.
const (
	fieldCategory = "category"
	fieldBrand    = "brand"
	fieldDistrict = "district"
)

// Config tunes the resolver.
type Config struct {
	RemoteTimeout  time.Duration
	GatewayTimeout time.Duration
	DefaultLimit   int
	MaxLimit       int
}

// Response carries related items and the tier that produced them
// ("remote" or "local").
type Response struct {
	Results []result.Result
	Source  string
}

// Service resolves items related to a known record.
type Service struct {
	byKind map[kind.Kind]Gateway
	remote RemoteSearcher
	cfg    Config
	logger *zap.Logger
}

// New creates a related-items service. remote may be nil.
func New(gateways []Gateway, remote RemoteSearcher, cfg Config, log *zap.Logger) *Service {
	byKind := make(map[kind.Kind]Gateway, len(gateways))
	for _, g := range gateways {
		byKind[g.Kind()] = g
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 6
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{byKind: byKind, remote: remote, cfg: cfg, logger: log}
}

// RelatedTo returns up to limit items related to the record behind raw.
// It fails only with domain.ErrInvalidReferenceID or domain.ErrNotFound.
func (s *Service) RelatedTo(ctx context.Context, raw string, limit int) (Response, error) {
	ctx, span := tracer.Start(ctx, "RelatedTo")
	defer span.End()
	start := time.Now()

	p, err := refid.Parse(raw)
	if err != nil {
		return Response{}, err
	}
	id := p.ID()
	limit = s.clampLimit(limit)
	span.SetAttributes(attribute.String("reference_id", string(id)), attribute.Int("limit", limit))

	g, ok := s.byKind[p.Kind]
	if !ok {
		return Response{}, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}

	// A store error on the origin leaves only the remote tier able to answer.
	origin, err := g.GetByReferenceID(ctx, id)
	var haveOrigin bool
	switch {
	case err == nil:
		haveOrigin = true
	case errors.Is(err, domain.ErrNotFound):
		return Response{}, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	default:
		logger.OrFallback(ctx, s.logger).Warn("origin lookup failed",
			zap.String("reference_id", string(id)),
			zap.Error(err),
		)
	}

	var primary tier.Func[[]result.Result]
	if s.remote != nil {
		primary = func(ctx context.Context) ([]result.Result, error) {
			return s.remote.Related(ctx, id, limit)
		}
	}
	fallback := func(ctx context.Context) ([]result.Result, error) {
		if !haveOrigin {
			return nil, nil
		}
		return s.relatedLocal(ctx, g, &origin, limit), nil
	}

	results, src, _ := tier.Run(ctx, primary, fallback, tier.Options{
		Operation:      "related",
		PrimaryTimeout: s.cfg.RemoteTimeout,
		Logger:         s.logger,
	})
	results = excludeOrigin(results, id)
	if len(results) > limit {
		results = results[:limit]
	}

	source := "local"
	if src == tier.SourcePrimary {
		source = "remote"
	}
	metrics.SearchRequestsTotal.WithLabelValues("related", source).Inc()
	metrics.SearchDuration.WithLabelValues("related").Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("result_count", len(results)))
	return Response{Results: results, Source: source}, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

type filter struct {
	field string
	value string
}

// filtersFor lists the filters that apply to origin, in union order.
func filtersFor(origin *entity.Record) []filter {
	var out []filter
	if v := origin.Category(); v != "" {
		out = append(out, filter{fieldCategory, v})
	}
	if v := origin.Brand(); v != "" && origin.Kind().HasBrand() {
		out = append(out, filter{fieldBrand, v})
	}
	if v := origin.District(); v != "" {
		out = append(out, filter{fieldDistrict, v})
	}
	return out
}

// relatedLocal runs each filter concurrently, then unions the slots in filter
// order keeping the first occurrence of every reference id.
func (s *Service) relatedLocal(ctx context.Context, g Gateway, origin *entity.Record, limit int) []result.Result {
	filters := filtersFor(origin)
	slots := make([][]entity.Record, len(filters))

	var eg errgroup.Group
	for i, f := range filters {
		eg.Go(func() error {
			fctx := ctx
			if s.cfg.GatewayTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, s.cfg.GatewayTimeout)
				defer cancel()
			}
			recs, err := g.QueryByField(fctx, f.field, f.value, limit, origin.ReferenceID())
			metrics.GatewayRequestsTotal.WithLabelValues(g.Kind().Collection(), metrics.Status(err)).Inc()
			if err != nil {
				logger.OrFallback(ctx, s.logger).Warn("related filter failed",
					zap.String("collection", g.Kind().Collection()),
					zap.String("field", f.field),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = recs
			return nil
		})
	}
	_ = eg.Wait()

	seen := map[refid.ID]struct{}{origin.ReferenceID(): {}}
	var out []result.Result
	for _, recs := range slots {
		for i := range recs {
			rec := &recs[i]
			if _, dup := seen[rec.ReferenceID()]; dup || !rec.Active() {
				continue
			}
			seen[rec.ReferenceID()] = struct{}{}
			out = append(out, result.FromRecord(rec, result.RelatedScore, match.Related))
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

func excludeOrigin(in []result.Result, id refid.ID) []result.Result {
	out := in[:0]
	for _, r := range in {
		if r.ReferenceID() != id {
			out = append(out, r)
		}
	}
	return out
}
