package entity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/localdex/internal/db"
	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// store is the consumer interface for entity collections (ISP).
//
//nolint:interfacebloat // gateway needs hash, pointer and index operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// queryFields are the TAG fields QueryByField accepts.
var queryFields = map[string]struct{}{
	fieldCategory:    {},
	fieldBrand:       {},
	fieldDistrict:    {},
	fieldTags:        {},
	fieldReferenceID: {},
}

// Repo is the gateway to one entity collection.
type Repo struct {
	store      store
	kind       kind.Kind
	collection string
}

// New creates a repository for the collection holding kind k.
func New(s store, k kind.Kind) *Repo {
	return &Repo{store: s, kind: k, collection: k.Collection()}
}

// NewAll creates one repository per kind, keyed by kind.
func NewAll(s store) map[kind.Kind]*Repo {
	out := make(map[kind.Kind]*Repo, len(kind.All()))
	for _, k := range kind.All() {
		out[k] = New(s, k)
	}
	return out
}

// Kind returns the kind served by this repository.
func (r *Repo) Kind() kind.Kind { return r.kind }

// Collection returns the collection name.
func (r *Repo) Collection() string { return r.collection }

// NewKey builds the hash key for a record id in this collection.
func (r *Repo) NewKey(id string) string { return recordKey(r.collection, id) }

// EnsureIndex creates the collection's FT index if it is missing.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := indexName(r.collection)
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}
	def, err := buildIndex(r.collection)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// GetByReferenceID resolves a reference id through its pointer key.
func (r *Repo) GetByReferenceID(ctx context.Context, id refid.ID) (entity.Record, error) {
	if k, ok := refid.KindOf(string(id)); !ok || k != r.kind {
		return entity.Record{}, domain.ErrNotFound
	}

	key, err := r.resolveKey(ctx, id)
	if err != nil {
		return entity.Record{}, err
	}

	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return entity.Record{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return entity.Record{}, domain.ErrNotFound
	}
	return hashToRecord(key, r.kind, m)
}

// QueryByField returns records whose TAG field contains value, minus any excluded ids.
func (r *Repo) QueryByField(
	ctx context.Context, field, value string, limit int, exclude ...refid.ID,
) ([]entity.Record, error) {
	if _, ok := queryFields[field]; !ok {
		return nil, fmt.Errorf("%w: unsupported query field %q", domain.ErrInvalidQuery, field)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: empty value for %q", domain.ErrInvalidQuery, field)
	}

	q := &db.ListQuery{
		Index:  indexName(r.collection),
		Prefix: collectionPrefix(r.collection),
		Must:   []db.TagClause{{Field: field, Value: value}},
		SortBy: fieldCreatedAt,
		Limit:  limit,
	}
	for _, id := range exclude {
		q.MustNot = append(q.MustNot, db.TagClause{Field: fieldReferenceID, Value: string(id)})
	}
	return r.list(ctx, q)
}

// ScanAll returns up to limit records of the collection.
func (r *Repo) ScanAll(ctx context.Context, limit int) ([]entity.Record, error) {
	return r.list(ctx, &db.ListQuery{
		Index:  indexName(r.collection),
		Prefix: collectionPrefix(r.collection),
		SortBy: fieldCreatedAt,
		Limit:  limit,
	})
}

// Put stores a new record and its reference pointer.
func (r *Repo) Put(ctx context.Context, rec *entity.Record) error {
	if rec.Kind() != r.kind {
		return fmt.Errorf("%w: %s record in %s collection", domain.ErrInvalidEntity, rec.Kind(), r.collection)
	}

	ptr := refKey(rec.ReferenceID())
	exists, err := r.store.Exists(ctx, ptr)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", ptr, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", rec.ReferenceID(), domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, rec.Key(), recordToHash(rec)); err != nil {
		return fmt.Errorf("hset %s: %w", rec.Key(), err)
	}
	if err := r.store.Set(ctx, ptr, []byte(rec.Key())); err != nil {
		// Roll back the hash so no unreachable record is left behind.
		_ = r.store.Del(ctx, rec.Key())
		return fmt.Errorf("set %s: %w", ptr, err)
	}
	return nil
}

// Delete removes a record and its reference pointer.
func (r *Repo) Delete(ctx context.Context, id refid.ID) error {
	if k, ok := refid.KindOf(string(id)); !ok || k != r.kind {
		return domain.ErrNotFound
	}

	key, err := r.resolveKey(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.Del(ctx, refKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", refKey(id), err)
	}
	return nil
}

func (r *Repo) resolveKey(ctx context.Context, id refid.ID) (string, error) {
	raw, err := r.store.Get(ctx, refKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", refKey(id), err)
	}
	return string(raw), nil
}

// list runs q and returns records ordered by created_at, then key.
// Entries that fail to decode are skipped.
func (r *Repo) list(ctx context.Context, q *db.ListQuery) ([]entity.Record, error) {
	res, err := r.store.SearchList(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search list %s: %w", r.collection, err)
	}
	if res == nil || len(res.Entries) == 0 {
		return nil, nil
	}

	out := make([]entity.Record, 0, len(res.Entries))
	for _, e := range res.Entries {
		rec, err := hashToRecord(e.Key, r.kind, e.Fields)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt() != out[j].CreatedAt() {
			return out[i].CreatedAt() < out[j].CreatedAt()
		}
		return out[i].Key() < out[j].Key()
	})
	return out, nil
}
