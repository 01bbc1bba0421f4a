package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/search/match"
	"github.com/kailas-cloud/localdex/internal/domain/search/result"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	"github.com/kailas-cloud/localdex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// fakeCluster answers _search requests via fn and records decoded bodies.
type fakeCluster struct {
	t      *testing.T
	fn     func(body map[string]any) (int, string)
	mu     sync.Mutex
	bodies []map[string]any
	paths  []string
}

func (f *fakeCluster) requests() ([]map[string]any, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies, f.paths
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead || r.URL.Path == "/" {
		_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		f.t.Errorf("decode request body: %v", err)
	}
	f.mu.Lock()
	f.bodies = append(f.bodies, body)
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()
	status, resp := f.fn(body)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func newBackend(t *testing.T, fn func(body map[string]any) (int, string)) (*Backend, *fakeCluster) {
	t.Helper()
	fc := &fakeCluster{t: t, fn: fn}
	srv := httptest.NewServer(fc)
	t.Cleanup(srv.Close)
	b, err := New(Config{Addresses: []string{srv.URL}, IndexPrefix: "localdex-"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b, fc
}

func hitsJSON(hits ...string) string {
	return `{"hits":{"hits":[` + strings.Join(hits, ",") + `]}}`
}

func TestNew_RequiresAddress(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without addresses")
	}
}

func TestUniversal(t *testing.T) {
	b, fc := newBackend(t, func(_ map[string]any) (int, string) {
		return http.StatusOK, hitsJSON(
			`{"_index":"localdex-products","_score":7.5,"matched_queries":["category","name"],
			  "_source":{"reference_id":"PRD-MAN-024","name":"Masala Tea","location":{"lat":24.08,"lon":75.07}}}`,
			`{"_index":"localdex-shops","_score":1.2,"matched_queries":["description"],
			  "_source":{"reference_id":"legacy-7","name":"Chai Point"}}`,
		)
	})

	got, err := b.Universal(context.Background(), "tea", &geo.Point{Lat: 24.07, Lng: 75.07})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].MatchType() != match.Name || got[0].Score() != 7.5 {
		t.Errorf("first = %v/%v", got[0].MatchType(), got[0].Score())
	}
	if got[0].Projection().DistanceMeters == nil {
		t.Error("expected distance on hit with location")
	}
	if got[1].Projection().Kind != kind.Shop {
		t.Errorf("kind from index = %v, want shop", got[1].Projection().Kind)
	}
	if got[1].MatchType() != match.Description {
		t.Errorf("second match = %v", got[1].MatchType())
	}

	bodies, paths := fc.requests()
	if !strings.Contains(paths[0], "localdex-products") || !strings.HasSuffix(paths[0], "/_search") {
		t.Errorf("path = %s", paths[0])
	}
	should := bodies[0]["query"].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	if len(should) != len(fieldBoosts) {
		t.Errorf("should clauses = %d, want %d", len(should), len(fieldBoosts))
	}
}

func TestUniversal_ClusterError(t *testing.T) {
	b, _ := newBackend(t, func(_ map[string]any) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	_, err := b.Universal(context.Background(), "tea", nil)
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
}

func TestSuggestions_DedupAndCap(t *testing.T) {
	var hits []string
	for i := 0; i < 12; i++ {
		name := "Tea " + string(rune('A'+i))
		hits = append(hits, `{"_source":{"reference_id":"PRD-MAN-00`+string(rune('1'+i%9))+`","name":"`+name+`"}}`)
	}
	hits = append([]string{`{"_source":{"reference_id":"PRD-MAN-001","name":"tea a"}}`}, hits...)

	b, fc := newBackend(t, func(_ map[string]any) (int, string) {
		return http.StatusOK, hitsJSON(hits...)
	})

	got, err := b.Suggestions(context.Background(), "tea")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != suggestion.MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), suggestion.MaxSuggestions)
	}
	if got[0].Text != "tea a" || got[1].Text != "Tea B" {
		t.Errorf("dedup failed: %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].Type != suggestion.Entity || got[0].Route != "/product/PRD-MAN-001" {
		t.Errorf("first = %+v", got[0])
	}
	bodies, _ := fc.requests()
	must := bodies[0]["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	if _, ok := must[0].(map[string]any)["match_phrase_prefix"]; !ok {
		t.Errorf("expected match_phrase_prefix, got %v", must[0])
	}
}

func TestRelated(t *testing.T) {
	b, fc := newBackend(t, func(body map[string]any) (int, string) {
		q := body["query"].(map[string]any)
		if _, isLookup := q["term"]; isLookup {
			return http.StatusOK, hitsJSON(
				`{"_source":{"reference_id":"PRD-MAN-024","name":"Masala Tea","category":"beverages","district":"Mandsaur"}}`)
		}
		return http.StatusOK, hitsJSON(
			`{"_index":"localdex-products","_score":3,"_source":{"reference_id":"PRD-MAN-030","name":"Ginger Tea","category":"beverages"}}`)
	})

	got, err := b.Related(context.Background(), "PRD-MAN-024", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ReferenceID() != "PRD-MAN-030" {
		t.Fatalf("got %+v", got)
	}
	if got[0].Score() != result.RelatedScore || got[0].MatchType() != match.Related {
		t.Errorf("score/match = %v/%v", got[0].Score(), got[0].MatchType())
	}

	bodies, _ := fc.requests()
	if len(bodies) != 2 {
		t.Fatalf("requests = %d, want 2", len(bodies))
	}
	boolQ := bodies[1]["query"].(map[string]any)["bool"].(map[string]any)
	if should := boolQ["should"].([]any); len(should) != 2 {
		t.Errorf("should clauses = %d, want 2 (no brand)", len(should))
	}
	if _, ok := boolQ["must_not"]; !ok {
		t.Error("origin must be excluded via must_not")
	}
	if size := bodies[1]["size"].(float64); size != 4 {
		t.Errorf("size = %v, want 4", size)
	}
}

func TestRelated_UnknownOrigin(t *testing.T) {
	b, _ := newBackend(t, func(_ map[string]any) (int, string) {
		return http.StatusOK, hitsJSON()
	})

	_, err := b.Related(context.Background(), "PRD-MAN-999", 4)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHealthCheck(t *testing.T) {
	b, _ := newBackend(t, func(_ map[string]any) (int, string) {
		return http.StatusOK, hitsJSON()
	})
	if err := b.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
