package elastic

import "github.com/kailas-cloud/localdex/internal/domain/search/match"

type obj = map[string]any

type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	Index          string   `json:"_index"`
	Score          float64  `json:"_score"`
	Source         document `json:"_source"`
	MatchedQueries []string `json:"matched_queries"`
}

// matchType picks the strongest named clause that matched.
func (h *hit) matchType() match.Type {
	matched := make(map[string]struct{}, len(h.MatchedQueries))
	for _, q := range h.MatchedQueries {
		matched[q] = struct{}{}
	}
	for _, fb := range fieldBoosts {
		if _, ok := matched[string(fb.match)]; ok {
			return fb.match
		}
	}
	return match.Description
}

type document struct {
	ReferenceID string    `json:"reference_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Tags        []string  `json:"tags"`
	District    string    `json:"district"`
	Location    *geoPoint `json:"location"`
	Price       *float64  `json:"price"`
	Featured    bool      `json:"featured"`
	ImageURL    string    `json:"image_url"`
}

// geoPoint is the Elasticsearch geo_point object form.
type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
