package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog failed validation: %v", err)
	}
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if diff := cmp.Diff(Default(), cat); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLOverride(t *testing.T) {
	content := []byte(`
materials:
  - id: abs
    name: ABS
    density_g_per_cm3: 1.05
    cost_per_kg: 2.75
colors:
  - id: natural
    name: Natural
    premium_fraction: 0
machines:
  - id: small
    name: Small press
    clamp_force_tons: 40
    hourly_rate: 28
    max_mold_width_mm: 300
    max_mold_height_mm: 300
cost_rules:
  mold_base_multiplier: 2.5
  cavity_spacing_factor: 1.2
  cycle_time_base_sec: 22
  cycle_time_per_mm_sec: 1.5
  min_cycle_time_sec: 15
  scrap_rate: 0.04
`)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Catalog{
		Materials: []Material{{ID: "abs", Name: "ABS", DensityGPerCm3: 1.05, CostPerKg: 2.75}},
		Colors:    []Color{{ID: "natural", Name: "Natural", PremiumFraction: 0}},
		Machines:  []Machine{{ID: "small", Name: "Small press", ClampForceTons: 40, HourlyRate: 28, MaxMoldWidthMm: 300, MaxMoldHeightMm: 300}},
		Rules: CostRules{
			MoldBaseMultiplier:  2.5,
			CavitySpacingFactor: 1.2,
			CycleTimeBaseSec:    22,
			CycleTimePerMmSec:   1.5,
			MinCycleTimeSec:     15,
			ScrapRate:           0.04,
		},
	}
	if diff := cmp.Diff(want, cat); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidCatalogRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("materials: []\n"), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for empty materials")
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(*Catalog){
		"zero density":       func(c *Catalog) { c.Materials[0].DensityGPerCm3 = 0 },
		"negative cost":      func(c *Catalog) { c.Materials[0].CostPerKg = -1 },
		"premium over one":   func(c *Catalog) { c.Colors[0].PremiumFraction = 1.0 },
		"zero clamp force":   func(c *Catalog) { c.Machines[0].ClampForceTons = 0 },
		"no machines":        func(c *Catalog) { c.Machines = nil },
		"scrap rate too big": func(c *Catalog) { c.Rules.ScrapRate = 1.0 },
	}
	for name, mutate := range cases {
		cat := Default()
		mutate(&cat)
		if err := cat.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLookupsByID(t *testing.T) {
	cat := Default()

	if m, ok := cat.MaterialByID("pp"); !ok || m.Name != "Polypropylene" {
		t.Fatalf("MaterialByID(pp) = %+v, %v", m, ok)
	}
	if _, ok := cat.MaterialByID("unobtainium"); ok {
		t.Fatal("unexpected material hit")
	}
	if c, ok := cat.ColorByID("black"); !ok || c.PremiumFraction != 0.02 {
		t.Fatalf("ColorByID(black) = %+v, %v", c, ok)
	}
	if _, ok := cat.ColorByID("plaid"); ok {
		t.Fatal("unexpected color hit")
	}
}
