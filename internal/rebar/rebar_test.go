package rebar

import (
	"reflect"
	"testing"

	"github.com/lfarruda/ifctakeoff/internal/bim"
)

func TestBuildEncodings(t *testing.T) {
	tests := []struct {
		name     string
		bar      bim.Rebar
		owner    string
		want     []float64
	}{
		{
			name:  "escaped diameter code",
			bar:   bim.Rebar{Name: "4 P1 %%C12.5 c/15"},
			owner: "P1",
			want:  []float64{12.5, 12.5, 12.5, 12.5},
		},
		{
			name:  "diameter glyph",
			bar:   bim.Rebar{Name: "2 P2 ø8.0"},
			owner: "P2",
			want:  []float64{8, 8},
		},
		{
			name:  "glyph with comma decimal",
			bar:   bim.Rebar{Name: "P2 Ø12,5"},
			owner: "P2",
			want:  []float64{12.5},
		},
		{
			name:  "trailing decimal after owner",
			bar:   bim.Rebar{Name: "2 P4 10.00"},
			owner: "P4",
			want:  []float64{10, 10},
		},
		{
			name:  "physical attribute fallback",
			bar:   bim.Rebar{Name: "3 P5", NominalDiameter: 0.016},
			owner: "P5",
			want:  []float64{16, 16, 16},
		},
		{
			name:  "owner anywhere in text",
			bar:   bim.Rebar{Name: "Armadura longitudinal P9 ø10.0"},
			owner: "P9",
			want:  []float64{10},
		},
		{
			name:  "quantity with x separator",
			bar:   bim.Rebar{Name: "4x P7 ø16"},
			owner: "P7",
			want:  []float64{16, 16, 16, 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := Build([]bim.Rebar{tt.bar})
			got, ok := ix.Lookup(tt.owner)
			if !ok {
				t.Fatalf("owner %q not indexed (dropped=%d)", tt.owner, ix.Dropped())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %v, want %v", tt.owner, got, tt.want)
			}
		})
	}
}

func TestAnchoredStrategyWinsOverAnywhere(t *testing.T) {
	// "C50" sits right after the leading integer; "P3" later in the
	// text must not steal ownership.
	ix := Build([]bim.Rebar{{Name: "2 C50 ver P3 ø10"}})
	if _, ok := ix.Lookup("P3"); ok {
		t.Error("anywhere-in-string match took precedence over anchored match")
	}
	if got, ok := ix.Lookup("C50"); !ok || len(got) != 2 {
		t.Errorf("Lookup(C50) = %v, %v; want 2 entries", got, ok)
	}
}

func TestBuildDropsBars(t *testing.T) {
	tests := []struct {
		name string
		bar  bim.Rebar
	}{
		{"no owner token", bim.Rebar{Name: "estribo 5.0 c/15", NominalDiameter: 0.005}},
		{"empty name", bim.Rebar{}},
		{"owner but no diameter", bim.Rebar{Name: "2 P4"}},
		{"negative attribute", bim.Rebar{Name: "P4", NominalDiameter: -0.01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := Build([]bim.Rebar{tt.bar})
			if ix.Dropped() != 1 {
				t.Errorf("Dropped() = %d, want 1", ix.Dropped())
			}
			if ix.Indexed() != 0 {
				t.Errorf("Indexed() = %d, want 0", ix.Indexed())
			}
		})
	}
}

func TestRebuildReplacesIndex(t *testing.T) {
	ix := Build([]bim.Rebar{{Name: "2 P1 ø10"}})
	if _, ok := ix.Lookup("P1"); !ok {
		t.Fatal("P1 not indexed in first build")
	}

	ix = Build([]bim.Rebar{{Name: "4 P2 ø12.5"}})
	if _, ok := ix.Lookup("P1"); ok {
		t.Error("P1 still present after rebuild with a new bar set")
	}
	if _, ok := ix.Lookup("P2"); !ok {
		t.Error("P2 missing after rebuild")
	}
}

func TestLookupUnknownOwner(t *testing.T) {
	ix := Build(nil)
	if got, ok := ix.Lookup("P1"); ok || got != nil {
		t.Errorf("Lookup on empty index = %v, %v; want nil, false", got, ok)
	}
}

func TestFormatSpec(t *testing.T) {
	tests := []struct {
		name      string
		diameters []float64
		want      string
	}{
		{"single group", []float64{10, 10}, "2 ø10.0"},
		{"descending groups", []float64{10, 12.5, 12.5, 10, 12.5, 12.5}, "4 ø12.5 + 2 ø10.0"},
		{"one bar", []float64{8}, "1 ø8.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSpec(tt.diameters); got != tt.want {
				t.Errorf("FormatSpec(%v) = %q, want %q", tt.diameters, got, tt.want)
			}
		})
	}
}

func TestScheduleScenario(t *testing.T) {
	// One schedule line, no physical attribute: index[P4] gains two
	// 10 mm entries and renders as "2 ø10.0".
	ix := Build([]bim.Rebar{{Name: "2 P4 10.00"}})
	diams, ok := ix.Lookup("P4")
	if !ok {
		t.Fatal("P4 not indexed")
	}
	if got := FormatSpec(diams); got != "2 ø10.0" {
		t.Errorf("FormatSpec = %q, want %q", got, "2 ø10.0")
	}
}

func TestOwnersSorted(t *testing.T) {
	ix := Build([]bim.Rebar{
		{Name: "2 P10 ø10"},
		{Name: "2 P2 ø10"},
	})
	got := ix.Owners()
	if !reflect.DeepEqual(got, []string{"P10", "P2"}) {
		t.Errorf("Owners() = %v, want lexicographic [P10 P2]", got)
	}
}
