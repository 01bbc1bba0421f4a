package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// Record limits.
const (
	MaxNameLength = 200
	MaxTags       = 32
	MaxTagLength  = 64
)

// Draft is the creation input for a record. Active nil means active.
type Draft struct {
	Name        string
	Category    string
	Brand       string
	Tags        []string
	Description string
	District    string
	Location    *geo.Point
	Price       *float64
	Featured    bool
	Active      *bool
	ImageURL    string
	Attributes  map[string]string
}

// Record is an indexed local-commerce entity (immutable value object).
type Record struct {
	key         string
	referenceID refid.ID
	kind        kind.Kind
	name        string
	category    string
	brand       string
	tags        []string
	description string
	district    string
	location    *geo.Point
	price       *float64
	featured    bool
	active      bool
	imageURL    string
	attributes  map[string]string
	createdAt   int64
}

// New validates a draft and builds a Record.
// Brand is dropped for kinds without a brand field.
func New(key string, id refid.ID, k kind.Kind, d Draft, createdAt int64) (Record, error) {
	if key == "" {
		return Record{}, invalid("store key is required")
	}
	if !k.IsValid() {
		return Record{}, fmt.Errorf("%w: %v", domain.ErrUnknownKind, k)
	}
	p, ok := refid.Decode(string(id))
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", domain.ErrInvalidReferenceID, id)
	}
	if p.Kind != k {
		return Record{}, invalid(fmt.Sprintf("reference id %s does not belong to kind %s", id, k))
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Record{}, invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Record{}, invalid(fmt.Sprintf("name too long (max %d)", MaxNameLength))
	}

	tags, err := normalizeTags(d.Tags)
	if err != nil {
		return Record{}, err
	}
	if d.Location != nil && !geo.ValidateCoordinates(d.Location.Lat, d.Location.Lng) {
		return Record{}, invalid("location out of range")
	}
	if d.Price != nil && *d.Price < 0 {
		return Record{}, invalid("price must be non-negative")
	}

	brand := strings.TrimSpace(d.Brand)
	if !k.HasBrand() {
		brand = ""
	}
	active := true
	if d.Active != nil {
		active = *d.Active
	}

	return Record{
		key:         key,
		referenceID: id,
		kind:        k,
		name:        name,
		category:    strings.TrimSpace(d.Category),
		brand:       brand,
		tags:        tags,
		description: d.Description,
		district:    strings.TrimSpace(d.District),
		location:    clonePoint(d.Location),
		price:       cloneFloat(d.Price),
		featured:    d.Featured,
		active:      active,
		imageURL:    d.ImageURL,
		attributes:  cloneStringMap(d.Attributes),
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(key string, id refid.ID, k kind.Kind, d Draft, createdAt int64) Record {
	active := true
	if d.Active != nil {
		active = *d.Active
	}
	return Record{
		key: key, referenceID: id, kind: k,
		name: d.Name, category: d.Category, brand: d.Brand, tags: d.Tags,
		description: d.Description, district: d.District,
		location: d.Location, price: d.Price,
		featured: d.Featured, active: active,
		imageURL: d.ImageURL, attributes: d.Attributes,
		createdAt: createdAt,
	}
}

// Key returns the store key.
func (r *Record) Key() string { return r.key }

// ReferenceID returns the user-facing reference id.
func (r *Record) ReferenceID() refid.ID { return r.referenceID }

// Kind returns the entity kind.
func (r *Record) Kind() kind.Kind { return r.kind }

// Name returns the display name.
func (r *Record) Name() string { return r.name }

// Category returns the category, possibly empty.
func (r *Record) Category() string { return r.category }

// Brand returns the brand; always empty for kinds without one.
func (r *Record) Brand() string { return r.brand }

// Tags returns the tag list.
func (r *Record) Tags() []string { return r.tags }

// Description returns the free-text description.
func (r *Record) Description() string { return r.description }

// District returns the district name.
func (r *Record) District() string { return r.district }

// Location returns the coordinates, nil when unknown.
func (r *Record) Location() *geo.Point { return r.location }

// Price returns the price, nil when not applicable.
func (r *Record) Price() *float64 { return r.price }

// Featured reports whether the record is promoted.
func (r *Record) Featured() bool { return r.featured }

// Active reports whether the record is listed.
func (r *Record) Active() bool { return r.active }

// ImageURL returns the image reference.
func (r *Record) ImageURL() string { return r.imageURL }

// Attributes returns kind-specific opaque fields (hours, stock, highlights...).
func (r *Record) Attributes() map[string]string { return r.attributes }

// CreatedAt returns the creation time in unix millis.
func (r *Record) CreatedAt() int64 { return r.createdAt }

// Draft returns the mutable field set of the record.
func (r *Record) Draft() Draft {
	active := r.active
	return Draft{
		Name: r.name, Category: r.category, Brand: r.brand,
		Tags: append([]string(nil), r.tags...), Description: r.description,
		District: r.district, Location: clonePoint(r.location), Price: cloneFloat(r.price),
		Featured: r.featured, Active: &active, ImageURL: r.imageURL,
		Attributes: cloneStringMap(r.attributes),
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidEntity, msg)
}

func normalizeTags(in []string) ([]string, error) {
	if len(in) > MaxTags {
		return nil, invalid(fmt.Sprintf("too many tags (max %d)", MaxTags))
	}
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagLength {
			return nil, invalid(fmt.Sprintf("tag %q too long (max %d)", t, MaxTagLength))
		}
		lk := strings.ToLower(t)
		if _, dup := seen[lk]; dup {
			continue
		}
		seen[lk] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func clonePoint(p *geo.Point) *geo.Point {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
