package entity

import (
	"context"
	"testing"

	"github.com/kailas-cloud/localdex/internal/db"
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	getFn         func(ctx context.Context, key string) ([]byte, error)
	setFn         func(ctx context.Context, key string, value []byte) error
	delFn         func(ctx context.Context, key string) error
	existsFn      func(ctx context.Context, key string) (bool, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchListFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, k kind.Kind) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, k), ms
}

func testRecord(t *testing.T) entity.Record {
	t.Helper()
	price := 42.5
	rec, err := entity.New(
		"localdex:products:0b7c", "PRD-MAN-024", kind.Product,
		entity.Draft{
			Name:       "Masala Chai",
			Category:   "beverages",
			Brand:      "Tata",
			Tags:       []string{"tea", "hot"},
			District:   "Mandsaur",
			Location:   &geo.Point{Lat: 24.07, Lng: 75.07},
			Price:      &price,
			Featured:   true,
			Attributes: map[string]string{"stock": "12"},
		},
		1700000000,
	)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	return rec
}

func hashFor(ref refid.ID, name string, createdAt string) map[string]string {
	return map[string]string{
		fieldReferenceID: string(ref),
		fieldName:        name,
		fieldCreatedAt:   createdAt,
	}
}
