package match

// Type names the field that produced the strongest signal for a hit.
type Type string

// Match type constants, strongest scorer signal first.
const (
	ReferenceID Type = "reference_id"
	Name        Type = "name"
	Brand       Type = "brand"
	Category    Type = "category"
	Tag         Type = "tag"
	District    Type = "district"
	// Description is only produced by remote backends.
	Description Type = "description"
	// Related marks neighbours returned by the related-item resolver.
	Related Type = "related"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case ReferenceID, Name, Brand, Category, Tag, District, Description, Related:
		return true
	}
	return false
}
