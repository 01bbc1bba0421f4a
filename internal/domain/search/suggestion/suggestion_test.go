package suggestion

import (
	"fmt"
	"testing"
)

func texts(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, x := range s {
		out[i] = x.Text
	}
	return out
}

func TestMatchCatalog_Ranking(t *testing.T) {
	catalog := []string{
		"masala chai near me",
		"chai",
		"best chai stalls",
		"chai and samosa",
		"tea shops",
		"cutting chai",
		"samosa corner",
	}
	got := texts(MatchCatalog(catalog, "Chai"))
	want := []string{"chai", "chai and samosa", "cutting chai", "best chai stalls", "masala chai near me"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMatchCatalog_WordOverlap(t *testing.T) {
	catalog := []string{"samosa corner", "tea shops", "kachori samosa"}
	got := texts(MatchCatalog(catalog, "hot samosa"))
	want := []string{"samosa corner", "kachori samosa"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMatchCatalog_TieKeepsCatalogOrder(t *testing.T) {
	got := texts(MatchCatalog([]string{"chai b", "chai a"}, "chai"))
	if got[0] != "chai b" || got[1] != "chai a" {
		t.Errorf("got %v", got)
	}
}

func TestMatchCatalog_Cap(t *testing.T) {
	catalog := make([]string, 20)
	for i := range catalog {
		catalog[i] = fmt.Sprintf("pharmacy %02d", i)
	}
	got := MatchCatalog(catalog, "pharm")
	if len(got) != MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), MaxSuggestions)
	}
	for _, s := range got {
		if s.Type != Query {
			t.Errorf("type = %q", s.Type)
		}
	}
}

func TestMatchCatalog_EmptyTerm(t *testing.T) {
	if got := MatchCatalog([]string{"chai"}, "   "); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestForReference(t *testing.T) {
	s := ForReference("SRV-UJJ-010", "Bike Repair")
	if s.Type != Reference || s.Route != "/service/SRV-UJJ-010" || s.Text != "Bike Repair" {
		t.Errorf("got %+v", s)
	}
}
