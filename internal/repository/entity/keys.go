package entity

import (
	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/refid"
)

func collectionPrefix(collection string) string {
	return domain.KeyPrefix + collection + ":"
}

func recordKey(collection, id string) string {
	return collectionPrefix(collection) + id
}

func indexName(collection string) string {
	return domain.KeyPrefix + collection + ":idx"
}

// refKey points a reference id at the hash key of its record.
func refKey(id refid.ID) string {
	return domain.KeyPrefix + "ref:" + string(id)
}
