package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain/entity"
	"github.com/kailas-cloud/localdex/internal/domain/geo"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

// Hash field names. The TAG-indexed ones double as query fields.
const (
	fieldReferenceID = "reference_id"
	fieldName        = "name"
	fieldCategory    = "category"
	fieldBrand       = "brand"
	fieldTags        = "tags"
	fieldDescription = "description"
	fieldDistrict    = "district"
	fieldLat         = "lat"
	fieldLng         = "lng"
	fieldPrice       = "price"
	fieldFeatured    = "featured"
	fieldActive      = "active"
	fieldImageURL    = "image_url"
	fieldCreatedAt   = "created_at"

	attrPrefix = "attr:"
)

// recordToHash flattens a record into HSET fields. Empty optional fields are omitted.
func recordToHash(rec *entity.Record) map[string]string {
	m := make(map[string]string, 14+len(rec.Attributes()))
	m[fieldReferenceID] = string(rec.ReferenceID())
	m[fieldName] = rec.Name()
	m[fieldFeatured] = strconv.FormatBool(rec.Featured())
	m[fieldActive] = strconv.FormatBool(rec.Active())
	m[fieldCreatedAt] = strconv.FormatInt(rec.CreatedAt(), 10)

	setIf(m, fieldCategory, rec.Category())
	setIf(m, fieldBrand, rec.Brand())
	setIf(m, fieldDescription, rec.Description())
	setIf(m, fieldDistrict, rec.District())
	setIf(m, fieldImageURL, rec.ImageURL())
	if tags := rec.Tags(); len(tags) > 0 {
		m[fieldTags] = strings.Join(tags, ",")
	}
	if loc := rec.Location(); loc != nil {
		m[fieldLat] = strconv.FormatFloat(loc.Lat, 'f', -1, 64)
		m[fieldLng] = strconv.FormatFloat(loc.Lng, 'f', -1, 64)
	}
	if p := rec.Price(); p != nil {
		m[fieldPrice] = strconv.FormatFloat(*p, 'f', -1, 64)
	}
	for k, v := range rec.Attributes() {
		m[attrPrefix+k] = v
	}
	return m
}

func setIf(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}

// hashToRecord rebuilds a record from its hash. Unparseable numerics are dropped;
// a missing or malformed reference id is an error.
func hashToRecord(key string, k kind.Kind, m map[string]string) (entity.Record, error) {
	raw := m[fieldReferenceID]
	p, ok := refid.Decode(raw)
	if !ok || p.Kind != k {
		return entity.Record{}, fmt.Errorf("record %s: bad reference id %q", key, raw)
	}

	d := entity.Draft{
		Name:        m[fieldName],
		Category:    m[fieldCategory],
		Brand:       m[fieldBrand],
		Description: m[fieldDescription],
		District:    m[fieldDistrict],
		ImageURL:    m[fieldImageURL],
		Featured:    m[fieldFeatured] == "true",
	}
	if tags := m[fieldTags]; tags != "" {
		d.Tags = strings.Split(tags, ",")
	}
	active := m[fieldActive] != "false"
	d.Active = &active

	lat, latErr := strconv.ParseFloat(m[fieldLat], 64)
	lng, lngErr := strconv.ParseFloat(m[fieldLng], 64)
	if latErr == nil && lngErr == nil {
		d.Location = &geo.Point{Lat: lat, Lng: lng}
	}
	if price, err := strconv.ParseFloat(m[fieldPrice], 64); err == nil {
		d.Price = &price
	}
	for f, v := range m {
		if name, found := strings.CutPrefix(f, attrPrefix); found {
			if d.Attributes == nil {
				d.Attributes = make(map[string]string)
			}
			d.Attributes[name] = v
		}
	}

	createdAt, _ := strconv.ParseInt(m[fieldCreatedAt], 10, 64)
	return entity.Reconstruct(key, refid.ID(raw), k, d, createdAt), nil
}
