package localdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/bootstrap"
	"github.com/kailas-cloud/localdex/internal/db"
	domentity "github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	entityrepo "github.com/kailas-cloud/localdex/internal/repository/entity"
	recentrepo "github.com/kailas-cloud/localdex/internal/repository/recent"
	sequencerepo "github.com/kailas-cloud/localdex/internal/repository/sequence"
	entityuc "github.com/kailas-cloud/localdex/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/localdex/internal/usecase/health"
	recentuc "github.com/kailas-cloud/localdex/internal/usecase/recent"
	relateduc "github.com/kailas-cloud/localdex/internal/usecase/related"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/localdex/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal use-case interfaces, replaced in tests.
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
	Create(ctx context.Context, k kind.Kind, d domentity.Draft) (domentity.Record, error)
	Get(ctx context.Context, raw string) (domentity.Record, error)
	Delete(ctx context.Context, raw string) error
	Reserve(ctx context.Context, k kind.Kind, district string) (refid.ID, error)
	Peek(ctx context.Context, k kind.Kind, district string) (entityuc.Allocation, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the localdex SDK entry point.
type Client struct {
	store    db.Store
	search   searchUseCase
	related  relatedUseCase
	suggest  suggestUseCase
	recent   recentUseCase
	entities entityUseCase
	health   healthUseCase
	obs      *observer
	limits   [2]int // default, max
}

// New creates a localdex Client, connects to the database and makes sure
// every collection index exists. The provided context bounds the startup.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	if len(opts) == 0 {
		return nil, errors.New("localdex: database address required (use WithValkey or WithRedis)")
	}
	cc, err := resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("localdex: %w", err)
	}

	store, err := bootstrap.OpenStore(cc.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("localdex: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("localdex: database not ready: %w", err)
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cc, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cc *clientConfig, obs *observer) (*Client, error) {
	cfg := &cc.cfg
	log := zap.NewNop()

	repos := entityrepo.NewAll(store)
	var (
		searchGateways  []searchuc.Gateway
		relatedGateways []relateduc.Gateway
		suggestGateways []suggestuc.Gateway
		entityRepos     []entityuc.Repository
	)
	for _, k := range kind.All() {
		repo := repos[k]
		if err := repo.EnsureIndex(ctx); err != nil {
			return nil, fmt.Errorf("localdex: ensure %s index: %w", repo.Collection(), err)
		}
		searchGateways = append(searchGateways, repo)
		relatedGateways = append(relatedGateways, repo)
		suggestGateways = append(suggestGateways, repo)
		entityRepos = append(entityRepos, repo)
	}

	backend, err := bootstrap.NewRemote(cfg.Remote, log)
	if err != nil {
		return nil, fmt.Errorf("localdex: %w", err)
	}
	var (
		remoteSearch  searchuc.RemoteSearcher
		remoteRelated relateduc.RemoteSearcher
		remoteSuggest suggestuc.RemoteSuggester
		remoteHealth  healthuc.RemoteChecker
	)
	if backend != nil {
		remoteSearch, remoteRelated, remoteSuggest, remoteHealth = backend, backend, backend, backend
	}

	return &Client{
		store: store,
		search: searchuc.New(searchGateways, remoteSearch, searchuc.Config{
			RemoteTimeout:  cfg.Remote.Timeout(),
			GatewayTimeout: cfg.Search.GatewayTimeout(),
			MaxParallel:    cfg.Search.MaxParallel,
			ScanLimit:      cfg.Search.ScanLimit,
		}, log),
		related: relateduc.New(relatedGateways, remoteRelated, relateduc.Config{
			RemoteTimeout:  cfg.Remote.Timeout(),
			GatewayTimeout: cfg.Search.GatewayTimeout(),
			DefaultLimit:   cfg.Related.DefaultLimit,
			MaxLimit:       cfg.Related.MaxLimit,
		}, log),
		suggest: suggestuc.New(suggestGateways, remoteSuggest, suggestuc.Config{
			RemoteTimeout: cfg.Remote.Timeout(),
			CacheSize:     cfg.Suggest.CacheSize,
			CacheTTL:      cfg.Suggest.CacheTTL(),
			Catalog:       cfg.Suggest.Catalog,
		}, log),
		recent:   recentuc.New(recentrepo.New(store, cfg.Recent.Capacity, cfg.Recent.TTL())),
		entities: entityuc.New(entityRepos, sequencerepo.New(store), log),
		health:   healthuc.New(store, remoteHealth),
		obs:      obs,
		limits:   [2]int{cfg.Search.MaxResults, cfg.Search.HardMaxResults},
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the database and the remote tier.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

// Search runs a universal search. Only an unusable query is an error; backend
// failures degrade to fewer or no results.
func (c *Client) Search(ctx context.Context, q SearchQuery) (_ SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "search", start, err, slog.String("term", q.Term)) }()

	req, err := request.New(q.Term, toPoint(q.Near), c.limit(q.Limit))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	resp := c.search.Search(ctx, &req)
	c.obs.answered("search", string(resp.Source))

	out := SearchResponse{Results: fromResults(resp.Results), Source: string(resp.Source)}
	for _, s := range resp.Collections {
		if !s.OK() {
			out.Unavailable = append(out.Unavailable, Kind(s.Kind.String()))
		}
	}
	return out, nil
}

// Suggest returns up to eight type-ahead entries for term. It never fails.
func (c *Client) Suggest(ctx context.Context, term string) []Suggestion {
	start := time.Now()
	items := c.suggest.Suggest(ctx, term)
	c.obs.observe(ctx, "suggest", start, nil, slog.Int("count", len(items)))

	out := make([]Suggestion, len(items))
	for i, s := range items {
		out[i] = Suggestion{
			Text:        s.Text,
			Type:        string(s.Type),
			ReferenceID: string(s.ReferenceID),
			Route:       s.Route,
		}
	}
	return out
}

// Related returns items related to the entity behind referenceID.
// limit <= 0 uses the default of six.
func (c *Client) Related(ctx context.Context, referenceID string, limit int) (_ RelatedResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "related", start, err, slog.String("reference_id", referenceID)) }()

	resp, err := c.related.RelatedTo(ctx, referenceID, limit)
	if err != nil {
		return RelatedResponse{}, fmt.Errorf("related: %w", err)
	}
	c.obs.answered("related", resp.Source)
	return RelatedResponse{Results: fromResults(resp.Results), Source: resp.Source}, nil
}

// Entities returns the entity management service.
func (c *Client) Entities() *EntityService {
	return &EntityService{svc: c.entities, obs: c.obs}
}

// Recent returns the recent-search buffer of one session.
func (c *Client) Recent(session string) *RecentService {
	return &RecentService{session: session, svc: c.recent, obs: c.obs}
}

func (c *Client) limit(requested int) int {
	def, hard := c.limits[0], c.limits[1]
	if def <= 0 {
		def = request.DefaultMaxResults
	}
	if hard <= 0 {
		hard = request.HardMaxResults
	}
	if requested <= 0 {
		return def
	}
	return min(requested, hard)
}

// Route returns the detail page path for a reference id, or "/not-found"
// when it is malformed.
func Route(referenceID string) string {
	return refid.RoutePath(referenceID)
}

// ValidReferenceID reports whether s is a well-formed reference id.
func ValidReferenceID(s string) bool {
	return refid.IsValid(s)
}
