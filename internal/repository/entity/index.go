package entity

import "github.com/kailas-cloud/localdex/internal/db"

// buildIndex returns the FT index covering one collection's hashes.
func buildIndex(collection string) (*db.IndexDefinition, error) {
	return db.NewIndex(indexName(collection)).
		Prefix(collectionPrefix(collection)).
		Tag(fieldReferenceID).
		Tag(fieldCategory).
		Tag(fieldBrand).
		Tag(fieldDistrict).
		TagWithOpts(fieldTags, db.DefaultTagSeparator, false).
		Tag(fieldFeatured).
		Tag(fieldActive).
		Numeric(fieldPrice).
		SortableNumeric(fieldCreatedAt).
		Build()
}
