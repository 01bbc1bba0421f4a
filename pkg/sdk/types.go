package localdex

// Kind is one of the five entity kinds.
type Kind string

// Entity kinds.
const (
	KindShop    Kind = "shop"
	KindProduct Kind = "product"
	KindMenu    Kind = "menu"
	KindService Kind = "service"
	KindOffice  Kind = "office"
)

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64
	Lng float64
}

// SearchQuery is a universal search request.
type SearchQuery struct {
	Term string
	// Near enables distance annotation and ordering when set.
	Near *Location
	// Limit caps the result count; zero uses the client default.
	Limit int
}

// Result is a single search hit.
type Result struct {
	ReferenceID    string
	Kind           Kind
	Name           string
	Category       string
	Brand          string
	Tags           []string
	District       string
	Location       *Location
	Price          *float64
	Featured       bool
	ImageURL       string
	Route          string
	DistanceMeters *float64
	Score          float64
	MatchType      string
}

// SearchResponse is the outcome of a universal search.
type SearchResponse struct {
	Results []Result
	// Source is reference, remote, local or empty.
	Source string
	// Unavailable lists collections that failed during the local fan-out.
	Unavailable []Kind
}

// Suggestion is a single type-ahead entry.
type Suggestion struct {
	Text        string
	Type        string // reference, query or entity
	ReferenceID string
	Route       string
}

// RelatedResponse carries items related to one entity.
type RelatedResponse struct {
	Results []Result
	Source  string
}

// EntityDraft is the caller-supplied part of a new entity.
type EntityDraft struct {
	Name        string
	Category    string
	Brand       string
	Tags        []string
	Description string
	District    string
	Location    *Location
	Price       *float64
	Featured    bool
	// Active defaults to true when nil.
	Active     *bool
	ImageURL   string
	Attributes map[string]string
}

// Entity is a stored local-commerce record.
type Entity struct {
	ReferenceID string
	Kind        Kind
	Route       string
	Name        string
	Category    string
	Brand       string
	Tags        []string
	Description string
	District    string
	Location    *Location
	Price       *float64
	Featured    bool
	Active      bool
	ImageURL    string
	Attributes  map[string]string
	CreatedAt   int64 // unix millis
}

// Allocation describes one reference id partition.
type Allocation struct {
	Partition string
	Issued    int64
	// Next is empty once the partition is exhausted.
	Next string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
