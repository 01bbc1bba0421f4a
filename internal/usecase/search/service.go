package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/score"
	"github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/metrics"
	"github.com/kailas-cloud/localdex/internal/tier"
)

var tracer = otel.Tracer("localdex/usecase/search")

// Source names the stage that answered a search.
type Source string

// Sources.
const (
	SourceReference Source = "reference"
	SourceRemote    Source = "remote"
	SourceLocal     Source = "local"
	SourceEmpty     Source = "empty"
)

// CollectionStatus reports how one gateway fared during local fan-out.
type CollectionStatus struct {
	Kind    kind.Kind
	Matched int
	Err     error
}

// OK reports whether the gateway answered.
func (c CollectionStatus) OK() bool { return c.Err == nil }

// Response is the outcome of a search. Collections is set only when the local
// tier ran, in enumeration order.
type Response struct {
	Results     []result.Result
	Source      Source
	Collections []CollectionStatus
}

// Config tunes the aggregator.
type Config struct {
	RemoteTimeout  time.Duration
	GatewayTimeout time.Duration
	MaxParallel    int
	ScanLimit      int
}

// Service aggregates search across the reference lookup, the remote backend
// and a local fan-out over every collection gateway.
type Service struct {
	gateways []Gateway
	byKind   map[kind.Kind]Gateway
	remote   RemoteSearcher
	cfg      Config
	logger   *zap.Logger
}

// New creates a search service. Gateways are reordered into kind enumeration
// order; remote may be nil for local-only operation.
func New(gateways []Gateway, remote RemoteSearcher, cfg Config, log *zap.Logger) *Service {
	byKind := make(map[kind.Kind]Gateway, len(gateways))
	for _, g := range gateways {
		byKind[g.Kind()] = g
	}
	ordered := make([]Gateway, 0, len(byKind))
	for _, k := range kind.All() {
		if g, ok := byKind[k]; ok {
			ordered = append(ordered, g)
		}
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = len(ordered)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gateways: ordered, byKind: byKind, remote: remote, cfg: cfg, logger: log}
}

// Search never fails: every collaborator error degrades to fewer or no results.
func (s *Service) Search(ctx context.Context, req *request.Request) Response {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	start := time.Now()

	resp := s.search(ctx, req)

	span.SetAttributes(
		attribute.String("source", string(resp.Source)),
		attribute.Int("result_count", len(resp.Results)),
	)
	span.SetStatus(codes.Ok, "search completed")
	metrics.SearchRequestsTotal.WithLabelValues("search", string(resp.Source)).Inc()
	metrics.SearchDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	return resp
}

func (s *Service) search(ctx context.Context, req *request.Request) Response {
	if res, ok := s.lookupReference(ctx, req); ok {
		return Response{Results: []result.Result{res}, Source: SourceReference}
	}

	var primary tier.Func[Response]
	if s.remote != nil {
		primary = func(ctx context.Context) (Response, error) {
			results, err := s.remote.Universal(ctx, req.Term(), req.Location())
			if err != nil {
				return Response{}, err
			}
			if len(results) > req.MaxResults() {
				results = results[:req.MaxResults()]
			}
			return Response{Results: results, Source: SourceRemote}, nil
		}
	}
	fallback := func(ctx context.Context) (Response, error) {
		return s.searchLocal(ctx, req), nil
	}

	resp, _, _ := tier.Run(ctx, primary, fallback, tier.Options{
		Operation:      "search",
		PrimaryTimeout: s.cfg.RemoteTimeout,
		Logger:         s.logger,
	})
	return resp
}

// lookupReference resolves a term that is itself a reference id. Misses and
// gateway errors return ok=false so the term is searched like any other.
func (s *Service) lookupReference(ctx context.Context, req *request.Request) (result.Result, bool) {
	id := refid.Normalize(req.Term())
	k, ok := refid.KindOf(id)
	if !ok {
		return result.Result{}, false
	}
	g, ok := s.byKind[k]
	if !ok {
		return result.Result{}, false
	}

	rec, err := g.GetByReferenceID(ctx, refid.ID(id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.OrFallback(ctx, s.logger).Warn("reference lookup failed",
				zap.String("reference_id", id),
				zap.Error(err),
			)
		}
		return result.Result{}, false
	}

	res := result.FromRecord(&rec, result.ReferenceLookupScore, match.ReferenceID)
	if loc := req.Location(); loc != nil {
		res = res.WithDistanceFrom(*loc)
	}
	return res, true
}

// searchLocal fans out one task per gateway. Each task writes only its own slot;
// slots are merged in enumeration order so ties keep encounter order.
func (s *Service) searchLocal(ctx context.Context, req *request.Request) Response {
	term := strings.ToLower(req.Term())
	slots := make([][]result.Result, len(s.gateways))
	statuses := make([]CollectionStatus, len(s.gateways))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallel)
	for i, gw := range s.gateways {
		g.Go(func() error {
			slots[i], statuses[i] = s.scanGateway(ctx, gw, term, req)
			return nil
		})
	}
	_ = g.Wait()

	var merged []result.Result
	failed := 0
	for i := range slots {
		merged = append(merged, slots[i]...)
		if !statuses[i].OK() {
			failed++
		}
	}
	if failed > 0 && failed == len(s.gateways) {
		logger.OrFallback(ctx, s.logger).Warn("all collection gateways failed",
			zap.Int("gateways", failed),
		)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score() > merged[j].Score()
	})
	if len(merged) > req.MaxResults() {
		merged = merged[:req.MaxResults()]
	}

	src := SourceLocal
	if len(merged) == 0 {
		src = SourceEmpty
	}
	return Response{Results: merged, Source: src, Collections: statuses}
}

func (s *Service) scanGateway(
	ctx context.Context, gw Gateway, term string, req *request.Request,
) ([]result.Result, CollectionStatus) {
	collection := gw.Kind().Collection()
	ctx, span := tracer.Start(ctx, "ScanCollection",
		trace.WithAttributes(attribute.String("collection", collection)),
	)
	defer span.End()

	if s.cfg.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GatewayTimeout)
		defer cancel()
	}

	start := time.Now()
	recs, err := gw.ScanAll(ctx, s.cfg.ScanLimit)
	metrics.GatewayDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	metrics.GatewayRequestsTotal.WithLabelValues(collection, metrics.Status(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		logger.OrFallback(ctx, s.logger).Warn("collection gateway failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
		return nil, CollectionStatus{Kind: gw.Kind(), Err: err}
	}

	var out []result.Result
	for i := range recs {
		rec := &recs[i]
		if !rec.Active() {
			continue
		}
		m := score.Score(rec, term)
		if !m.IsMatch() {
			continue
		}
		res := result.FromRecord(rec, m.Value, m.Type)
		if loc := req.Location(); loc != nil {
			res = res.WithDistanceFrom(*loc)
		}
		out = append(out, res)
	}
	span.SetAttributes(attribute.Int("matched", len(out)))
	return out, CollectionStatus{Kind: gw.Kind(), Matched: len(out)}
}
