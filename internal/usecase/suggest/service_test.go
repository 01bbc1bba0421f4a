package suggest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
)

// --- Mocks ---

type mockGateway struct {
	kind kind.Kind
	rec  *entity.Record
	err  error
}

func (m *mockGateway) Kind() kind.Kind { return m.kind }

func (m *mockGateway) GetByReferenceID(_ context.Context, id refid.ID) (entity.Record, error) {
	if m.err != nil {
		return entity.Record{}, m.err
	}
	if m.rec != nil && m.rec.ReferenceID() == id {
		return *m.rec, nil
	}
	return entity.Record{}, domain.ErrNotFound
}

type mockRemote struct {
	suggestionsFn func(ctx context.Context, term string) ([]suggestion.Suggestion, error)
	calls         atomic.Int32
}

func (m *mockRemote) Suggestions(ctx context.Context, term string) ([]suggestion.Suggestion, error) {
	m.calls.Add(1)
	if m.suggestionsFn != nil {
		return m.suggestionsFn(ctx, term)
	}
	return nil, domain.ErrRemoteUnavailable
}

func menuItem(t *testing.T) *entity.Record {
	t.Helper()
	r, err := entity.New("localdex:menu:1", "MNU-IND-002", kind.Menu, entity.Draft{Name: "Poha Jalebi"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	return &r
}

func texts(in []suggestion.Suggestion) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Text
	}
	return out
}

// --- Tests ---

func TestSuggest_EmptyTerm(t *testing.T) {
	remote := &mockRemote{}
	svc := New(nil, remote, Config{}, nil)
	for _, term := range []string{"", "   "} {
		got := svc.Suggest(context.Background(), term)
		if got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty non-nil list", term, got)
		}
	}
	if remote.calls.Load() != 0 {
		t.Error("remote must not be called for empty terms")
	}
}

func TestSuggest_ReferenceID(t *testing.T) {
	g := &mockGateway{kind: kind.Menu, rec: menuItem(t)}
	remote := &mockRemote{}
	svc := New([]Gateway{g}, remote, Config{}, nil)

	got := svc.Suggest(context.Background(), "mnu-ind-002")
	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %v", got)
	}
	want := suggestion.Suggestion{
		Text: "Poha Jalebi", Type: suggestion.Reference, ReferenceID: "MNU-IND-002", Route: "/menu/MNU-IND-002",
	}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
	if remote.calls.Load() != 0 {
		t.Error("remote must be bypassed")
	}
}

func TestSuggest_UnresolvedReferenceUsesCatalog(t *testing.T) {
	g := &mockGateway{kind: kind.Menu, err: errors.New("down")}
	svc := New([]Gateway{g}, nil, Config{Catalog: []string{"MNU-IND-002 thali", "other"}}, nil)

	got := svc.Suggest(context.Background(), "MNU-IND-002")
	if len(got) != 1 || got[0].Type != suggestion.Query {
		t.Errorf("got %+v", got)
	}
}

func TestSuggest_RemoteCached(t *testing.T) {
	remote := &mockRemote{suggestionsFn: func(_ context.Context, term string) ([]suggestion.Suggestion, error) {
		out := make([]suggestion.Suggestion, 10)
		for i := range out {
			out[i] = suggestion.Suggestion{Text: term, Type: suggestion.Entity}
		}
		return out, nil
	}}
	svc := New(nil, remote, Config{CacheSize: 4, CacheTTL: time.Minute}, nil)

	first := svc.Suggest(context.Background(), "Chai")
	second := svc.Suggest(context.Background(), "  chai ")

	if len(first) != suggestion.MaxSuggestions || len(second) != suggestion.MaxSuggestions {
		t.Errorf("expected capped lists, got %d and %d", len(first), len(second))
	}
	if remote.calls.Load() != 1 {
		t.Errorf("expected one remote call, got %d", remote.calls.Load())
	}

	second[0].Text = "mutated"
	if third := svc.Suggest(context.Background(), "chai"); third[0].Text == "mutated" {
		t.Error("cached entries must not alias returned slices")
	}
}

func TestSuggest_RemoteFailureNotCached(t *testing.T) {
	remote := &mockRemote{}
	svc := New(nil, remote, Config{}, nil)

	got := svc.Suggest(context.Background(), "store")
	if len(got) == 0 {
		t.Fatal("expected catalog fallback")
	}
	for _, s := range got {
		if s.Type != suggestion.Query {
			t.Errorf("fallback entry %+v is not a query suggestion", s)
		}
	}
	svc.Suggest(context.Background(), "store")
	if remote.calls.Load() != 2 {
		t.Errorf("failures must not be cached: %d calls", remote.calls.Load())
	}
}

func TestSuggest_CatalogRanking(t *testing.T) {
	svc := New(nil, nil, Config{Catalog: []string{
		"hardware store",
		"store room",
		"grocery store near me",
		"stores",
		"bakery",
	}}, nil)

	got := texts(svc.Suggest(context.Background(), "store"))
	want := []string{"stores", "store room", "hardware store", "grocery store near me"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSuggest_DefaultCatalogCap(t *testing.T) {
	svc := New(nil, nil, Config{}, nil)
	if got := svc.Suggest(context.Background(), "s"); len(got) > suggestion.MaxSuggestions {
		t.Errorf("catalog results not capped: %d", len(got))
	}
}
