package kind

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/localdex/internal/domain"
)

// Kind is the closed set of entity kinds localdex indexes.
type Kind int

// Entity kinds in fan-out enumeration order.
const (
	Shop Kind = iota + 1
	Product
	Menu
	Service
	Office
)

var all = []Kind{Shop, Product, Menu, Service, Office}

// All returns every kind in the fixed enumeration order
// (shops, products, menu, services, offices).
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k >= Shop && k <= Office
}

// Prefix returns the 3-letter reference id prefix.
func (k Kind) Prefix() string {
	switch k {
	case Shop:
		return "SHP"
	case Product:
		return "PRD"
	case Menu:
		return "MNU"
	case Service:
		return "SRV"
	case Office:
		return "OFC"
	}
	return ""
}

// Segment returns the route path segment for the kind.
func (k Kind) Segment() string {
	switch k {
	case Shop:
		return "shop"
	case Product:
		return "product"
	case Menu:
		return "menu"
	case Service:
		return "service"
	case Office:
		return "office"
	}
	return ""
}

// Collection returns the store collection name.
func (k Kind) Collection() string {
	switch k {
	case Shop:
		return "shops"
	case Product:
		return "products"
	case Menu:
		return "menu"
	case Service:
		return "services"
	case Office:
		return "offices"
	}
	return ""
}

// HasBrand reports whether records of this kind carry a brand field.
func (k Kind) HasBrand() bool {
	switch k {
	case Product, Menu:
		return true
	case Shop, Service, Office:
		return false
	}
	return false
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s := k.Segment(); s != "" {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FromPrefix maps a reference id prefix back to its kind.
func FromPrefix(prefix string) (Kind, bool) {
	for _, k := range all {
		if k.Prefix() == prefix {
			return k, true
		}
	}
	return 0, false
}

// Parse accepts a route segment, a collection name or a prefix (case-insensitive).
func Parse(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range all {
		if n == k.Segment() || n == k.Collection() || n == strings.ToLower(k.Prefix()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownKind, name)
}

// Prefixes returns the closed prefix set in enumeration order.
func Prefixes() []string {
	out := make([]string, len(all))
	for i, k := range all {
		out[i] = k.Prefix()
	}
	return out
}
