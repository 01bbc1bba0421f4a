package refid

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/localdex/internal/domain"
	"github.com/kailas-cloud/localdex/internal/domain/kind"
)

func TestEncode_Examples(t *testing.T) {
	tests := []struct {
		name     string
		k        kind.Kind
		district string
		count    int
		want     ID
	}{
		{"product mandsaur", kind.Product, "Mandsaur", 23, "PRD-MAN-024"},
		{"short district padded", kind.Shop, "Ab", 0, "SHP-ABX-001"},
		{"empty district", kind.Office, "", 4, "OFC-XXX-005"},
		{"non letters stripped", kind.Service, "N. 9 Delhi", 10, "SRV-NDE-011"},
		{"menu upper bound", kind.Menu, "indore", 998, "MNU-IND-999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.k, tt.district, tt.count)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	if _, err := Encode(kind.Kind(0), "Mandsaur", 0); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("invalid kind: got %v", err)
	}
	if _, err := Encode(kind.Product, "Mandsaur", -1); err == nil {
		t.Error("expected error for negative count")
	}
	if _, err := Encode(kind.Product, "Mandsaur", 999); !errors.Is(err, domain.ErrSequenceExhausted) {
		t.Errorf("exhausted partition: got %v", err)
	}
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	districts := []string{"Mandsaur", "Ab", "", "ujjain", "42 Bhopal", "Ratlam-East"}
	counts := []int{0, 1, 9, 99, 500, 998}

	for _, k := range kind.All() {
		for _, d := range districts {
			for _, n := range counts {
				id, err := Encode(k, d, n)
				if err != nil {
					t.Fatalf("Encode(%v, %q, %d): %v", k, d, n, err)
				}
				p, ok := Decode(string(id))
				if !ok {
					t.Fatalf("Decode(%q) failed", id)
				}
				if p.Kind != k || p.DistrictCode != DistrictCode(d) || p.Sequence != n+1 {
					t.Errorf("Decode(%q) = %+v, want {%v %s %d}", id, p, k, DistrictCode(d), n+1)
				}
				if p.ID() != id {
					t.Errorf("Parts.ID() = %q, want %q", p.ID(), id)
				}
			}
		}
	}
}

func TestIsValid_Rejects(t *testing.T) {
	invalid := []string{
		"",
		"prd-man-024",
		"PRD-man-024",
		"Prd-MAN-024",
		"PRD-MA-024",
		"PRD-MANX-024",
		"PRD-MAN-24",
		"PRD-MAN-0024",
		"PRD-MAN-02A",
		"PRD-MAN-0 4",
		"XYZ-MAN-024",
		"PRDMAN024",
		"PRD_MAN_024",
		" PRD-MAN-024",
		"PRD-MAN-024 ",
		"PRD-M4N-024",
		"PRD-MAN-٠٢٤",
	}
	for _, raw := range invalid {
		if IsValid(raw) {
			t.Errorf("IsValid(%q) = true, want false", raw)
		}
		if _, ok := KindOf(raw); ok {
			t.Errorf("KindOf(%q) ok = true, want false", raw)
		}
	}
}

func TestIsValid_Accepts(t *testing.T) {
	valid := []string{"PRD-MAN-024", "SHP-ABX-001", "MNU-IND-999", "SRV-XXX-000", "OFC-BHO-100"}
	for _, raw := range valid {
		if !IsValid(raw) {
			t.Errorf("IsValid(%q) = false, want true", raw)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := map[string]kind.Kind{
		"SHP-MAN-001": kind.Shop,
		"PRD-MAN-001": kind.Product,
		"MNU-MAN-001": kind.Menu,
		"SRV-MAN-001": kind.Service,
		"OFC-MAN-001": kind.Office,
	}
	for raw, want := range tests {
		got, ok := KindOf(raw)
		if !ok || got != want {
			t.Errorf("KindOf(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}
}

func TestRoutePath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"PRD-MAN-024", "/product/PRD-MAN-024"},
		{"SHP-ABX-001", "/shop/SHP-ABX-001"},
		{"MNU-IND-002", "/menu/MNU-IND-002"},
		{"SRV-UJJ-010", "/service/SRV-UJJ-010"},
		{"OFC-BHO-003", "/office/OFC-BHO-003"},
		{"prd-man-024", NotFoundPath},
		{"", NotFoundPath},
		{"garbage", NotFoundPath},
	}
	for _, tt := range tests {
		if got := RoutePath(tt.raw); got != tt.want {
			t.Errorf("RoutePath(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDistrictCode(t *testing.T) {
	tests := map[string]string{
		"Mandsaur":  "MAN",
		"ab":        "ABX",
		"a":         "AXX",
		"":          "XXX",
		"12-34":     "XXX",
		"N.Delhi":   "NDE",
		"ÅLand":     "LAN",
		"  ujjain ": "UJJ",
	}
	for in, want := range tests {
		if got := DistrictCode(in); got != want {
			t.Errorf("DistrictCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("  prd-man-024 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind != kind.Product || p.Sequence != 24 {
		t.Errorf("Parse() = %+v", p)
	}

	if _, err := Parse("nope"); !errors.Is(err, domain.ErrInvalidReferenceID) {
		t.Errorf("Parse(nope) err = %v, want ErrInvalidReferenceID", err)
	}
}

func TestPartition(t *testing.T) {
	if got := Partition(kind.Product, "Mandsaur"); got != "PRD-MAN" {
		t.Errorf("Partition() = %q", got)
	}
}
