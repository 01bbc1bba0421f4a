package localdex

import (
	"context"

	domentity "github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
	"github.com/kailas-cloud/localdex/internal/domain/search/request"
	"github.com/kailas-cloud/localdex/internal/domain/search/suggestion"
	entityuc "github.com/kailas-cloud/localdex/internal/usecase/entity"
	healthuc "github.com/kailas-cloud/localdex/internal/usecase/health"
	relateduc "github.com/kailas-cloud/localdex/internal/usecase/related"
	searchuc "github.com/kailas-cloud/localdex/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) searchuc.Response
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) searchuc.Response {
	return m.searchFn(ctx, req)
}

// --- relatedUseCase mock ---

type mockRelatedUC struct {
	relatedFn func(ctx context.Context, raw string, limit int) (relateduc.Response, error)
}

func (m *mockRelatedUC) RelatedTo(ctx context.Context, raw string, limit int) (relateduc.Response, error) {
	return m.relatedFn(ctx, raw, limit)
}

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, term string) []suggestion.Suggestion
}

func (m *mockSuggestUC) Suggest(ctx context.Context, term string) []suggestion.Suggestion {
	return m.suggestFn(ctx, term)
}

// --- recentUseCase mock ---

type mockRecentUC struct {
	recordFn func(ctx context.Context, session, term string) error
	listFn   func(ctx context.Context, session string) ([]string, error)
	clearFn  func(ctx context.Context, session string) error
}

func (m *mockRecentUC) Record(ctx context.Context, session, term string) error {
	return m.recordFn(ctx, session, term)
}

func (m *mockRecentUC) List(ctx context.Context, session string) ([]string, error) {
	return m.listFn(ctx, session)
}

func (m *mockRecentUC) Clear(ctx context.Context, session string) error {
	return m.clearFn(ctx, session)
}

// --- entityUseCase mock ---

type mockEntityUC struct {
	createFn  func(ctx context.Context, k kind.Kind, d domentity.Draft) (domentity.Record, error)
	getFn     func(ctx context.Context, raw string) (domentity.Record, error)
	deleteFn  func(ctx context.Context, raw string) error
	reserveFn func(ctx context.Context, k kind.Kind, district string) (refid.ID, error)
	peekFn    func(ctx context.Context, k kind.Kind, district string) (entityuc.Allocation, error)
}

func (m *mockEntityUC) Create(ctx context.Context, k kind.Kind, d domentity.Draft) (domentity.Record, error) {
	return m.createFn(ctx, k, d)
}

func (m *mockEntityUC) Get(ctx context.Context, raw string) (domentity.Record, error) {
	return m.getFn(ctx, raw)
}

func (m *mockEntityUC) Delete(ctx context.Context, raw string) error {
	return m.deleteFn(ctx, raw)
}

func (m *mockEntityUC) Reserve(ctx context.Context, k kind.Kind, district string) (refid.ID, error) {
	return m.reserveFn(ctx, k, district)
}

func (m *mockEntityUC) Peek(ctx context.Context, k kind.Kind, district string) (entityuc.Allocation, error) {
	return m.peekFn(ctx, k, district)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// testClient builds a Client around the given use cases. Nil fields stay nil.
func testClient(
	searchSvc searchUseCase,
	relatedSvc relatedUseCase,
	suggestSvc suggestUseCase,
	entitySvc entityUseCase,
) *Client {
	return &Client{
		search:   searchSvc,
		related:  relatedSvc,
		suggest:  suggestSvc,
		entities: entitySvc,
	}
}
