package localdex

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/localdex/internal/config"
	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	healthuc "github.com/kailas-cloud/localdex/internal/usecase/health"
	relateduc "github.com/kailas-cloud/localdex/internal/usecase/related"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(context.Background(), WithRedis("localhost:6379", ""), WithRecent(50, time.Hour))
	if err == nil {
		t.Fatal("expected error for recent capacity out of range")
	}
}

func TestClientOptions(t *testing.T) {
	cc, err := resolve([]Option{
		WithValkey("localhost:6379", "secret"),
		WithRemoteHTTP("http://search.internal", "key"),
		WithRemoteTimeout(800 * time.Millisecond),
		WithSearchLimits(20, 100),
		WithRecent(6, 48*time.Hour),
		WithSuggestCatalog([]string{"tea", "coffee"}),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	c := cc.cfg
	if c.Database.Driver != config.DriverValkey || c.Database.Addrs[0] != "localhost:6379" || c.Database.Password != "secret" {
		t.Errorf("database = %+v", c.Database)
	}
	if c.Remote.Driver != config.RemoteHTTP || c.Remote.BaseURL != "http://search.internal" || c.Remote.APIKey != "key" {
		t.Errorf("remote = %+v", c.Remote)
	}
	if c.Remote.Timeout() != 800*time.Millisecond {
		t.Errorf("remote timeout = %v", c.Remote.Timeout())
	}
	if c.Search.MaxResults != 20 || c.Search.HardMaxResults != 100 {
		t.Errorf("search limits = %d/%d", c.Search.MaxResults, c.Search.HardMaxResults)
	}
	if c.Recent.Capacity != 6 || c.Recent.TTL() != 48*time.Hour {
		t.Errorf("recent = %+v", c.Recent)
	}
	if len(c.Suggest.Catalog) != 2 {
		t.Errorf("catalog = %v", c.Suggest.Catalog)
	}

	logger := slog.Default()
	reg := prometheus.NewRegistry()
	cc2, err := resolve([]Option{
		WithElasticsearch([]string{"http://es:9200"}, "", "ldx-"),
		WithRedis("localhost:6380", ""),
		WithLogger(logger),
		WithPrometheus(reg),
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cc2.cfg.Remote.Driver != config.RemoteElasticsearch || cc2.cfg.Remote.IndexPrefix != "ldx-" {
		t.Errorf("remote = %+v", cc2.cfg.Remote)
	}
	if cc2.logger != logger || cc2.metricsReg != reg {
		t.Error("expected logger and registerer to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestSearch(t *testing.T) {
	var gotLimit int
	var gotLoc *geo.Point
	svc := &mockSearchUC{searchFn: func(_ context.Context, req *request.Request) searchuc.Response {
		gotLimit = req.MaxResults()
		gotLoc = req.Location()
		loc := geo.Point{Lat: 24.07, Lng: 75.07}
		r := result.New(result.Projection{
			ReferenceID: "SHP-MAN-001",
			Kind:        kind.Shop,
			Name:        "Sharma Tea Stall",
			Location:    &loc,
		}, 13, match.Name)
		return searchuc.Response{
			Results: []result.Result{r},
			Source:  searchuc.SourceLocal,
			Collections: []searchuc.CollectionStatus{
				{Kind: kind.Shop, Matched: 1},
				{Kind: kind.Menu, Err: errors.New("index missing")},
			},
		}
	}}
	c := testClient(svc, nil, nil, nil)
	c.limits = [2]int{20, 40}

	resp, err := c.Search(context.Background(), SearchQuery{Term: "tea", Near: &Location{Lat: 24, Lng: 75}, Limit: 500})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotLimit != 40 {
		t.Errorf("limit = %d, want 40", gotLimit)
	}
	if gotLoc == nil || gotLoc.Lat != 24 {
		t.Errorf("location = %v", gotLoc)
	}
	if resp.Source != "local" || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	r := resp.Results[0]
	if r.ReferenceID != "SHP-MAN-001" || r.Kind != KindShop || r.Route != "/shop/SHP-MAN-001" {
		t.Errorf("result = %+v", r)
	}
	if r.Score != 13 || r.MatchType != "name" || r.Location == nil || r.Location.Lng != 75.07 {
		t.Errorf("result = %+v", r)
	}
	if len(resp.Unavailable) != 1 || resp.Unavailable[0] != KindMenu {
		t.Errorf("unavailable = %v", resp.Unavailable)
	}

	if _, err := c.Search(context.Background(), SearchQuery{Term: "tea"}); err != nil {
		t.Fatal(err)
	}
	if gotLimit != 20 {
		t.Errorf("default limit = %d, want 20", gotLimit)
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	c := testClient(&mockSearchUC{searchFn: func(context.Context, *request.Request) searchuc.Response {
		t.Error("search must not run for an invalid query")
		return searchuc.Response{}
	}}, nil, nil, nil)

	for _, q := range []SearchQuery{
		{Term: "   "},
		{Term: "tea", Near: &Location{Lat: 91, Lng: 0}},
	} {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("%+v: err = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestRelated(t *testing.T) {
	svc := &mockRelatedUC{relatedFn: func(_ context.Context, raw string, limit int) (relateduc.Response, error) {
		if raw == "PRD-MAN-999" {
			return relateduc.Response{}, domain.ErrNotFound
		}
		if limit != 3 {
			t.Errorf("limit = %d", limit)
		}
		r := result.New(result.Projection{ReferenceID: "PRD-MAN-002", Kind: kind.Product, Name: "Green Tea"},
			result.RelatedScore, match.Related)
		return relateduc.Response{Results: []result.Result{r}, Source: "local"}, nil
	}}
	c := testClient(nil, svc, nil, nil)

	resp, err := c.Related(context.Background(), "PRD-MAN-001", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].MatchType != "related" || resp.Results[0].Score != 5 {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := c.Related(context.Background(), "PRD-MAN-999", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSuggest(t *testing.T) {
	svc := &mockSuggestUC{suggestFn: func(_ context.Context, term string) []suggestion.Suggestion {
		return []suggestion.Suggestion{
			suggestion.ForReference("SHP-MAN-001", "Sharma Tea Stall"),
			{Text: "tea", Type: suggestion.Query},
		}
	}}
	c := testClient(nil, nil, svc, nil)

	got := c.Suggest(context.Background(), "SHP-MAN-001")
	if len(got) != 2 {
		t.Fatalf("got %d suggestions", len(got))
	}
	if got[0].Type != "reference" || got[0].Route != "/shop/SHP-MAN-001" || got[0].ReferenceID != "SHP-MAN-001" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Type != "query" || got[1].ReferenceID != "" {
		t.Errorf("second = %+v", got[1])
	}
}

func TestHealth(t *testing.T) {
	c := &Client{health: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "remote": healthuc.CheckError},
	}}}
	h := c.Health(context.Background())
	if h.Status != "degraded" || h.Checks["database"] != "ok" || h.Checks["remote"] != "error" {
		t.Errorf("health = %+v", h)
	}
}

func TestRouteAndValidReferenceID(t *testing.T) {
	if got := Route("OFC-BHO-003"); got != "/office/OFC-BHO-003" {
		t.Errorf("Route = %q", got)
	}
	if got := Route("nope"); got != "/not-found" {
		t.Errorf("Route = %q", got)
	}
	if !ValidReferenceID("MNU-IND-007") || ValidReferenceID("MNU-IN-007") {
		t.Error("ValidReferenceID mismatch")
	}
}
