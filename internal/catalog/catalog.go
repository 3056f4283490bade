// Package catalog holds the immutable material, color, and machine catalogs
// plus the cost-rule constants consumed by the quote engine. Catalogs are
// loaded once at startup and injected where needed; nothing mutates them for
// the lifetime of the process.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Material is one moldable resin.
type Material struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	DensityGPerCm3 float64 `yaml:"density_g_per_cm3" json:"density_g_per_cm3"`
	CostPerKg      float64 `yaml:"cost_per_kg" json:"cost_per_kg"`
	Description    string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Color is a colorant option applied as a fraction of raw material cost.
type Color struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	PremiumFraction float64 `yaml:"premium_fraction" json:"premium_fraction"`
}

// Machine is one injection-molding press. Catalog order is significant: it
// is the deterministic tie-break during machine selection.
type Machine struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	ClampForceTons  float64 `yaml:"clamp_force_tons" json:"clamp_force_tons"`
	HourlyRate      float64 `yaml:"hourly_rate" json:"hourly_rate"`
	MaxMoldWidthMm  float64 `yaml:"max_mold_width_mm" json:"max_mold_width_mm"`
	MaxMoldHeightMm float64 `yaml:"max_mold_height_mm" json:"max_mold_height_mm"`
}

// CostRules are the process constants of the cost model.
type CostRules struct {
	MoldBaseMultiplier  float64 `yaml:"mold_base_multiplier" json:"mold_base_multiplier"`
	CavitySpacingFactor float64 `yaml:"cavity_spacing_factor" json:"cavity_spacing_factor"`
	CycleTimeBaseSec    float64 `yaml:"cycle_time_base_sec" json:"cycle_time_base_sec"`
	CycleTimePerMmSec   float64 `yaml:"cycle_time_per_mm_sec" json:"cycle_time_per_mm_sec"`
	MinCycleTimeSec     float64 `yaml:"min_cycle_time_sec" json:"min_cycle_time_sec"`
	ScrapRate           float64 `yaml:"scrap_rate" json:"scrap_rate"`
}

// Catalog groups everything the quote engine selects from.
type Catalog struct {
	Materials []Material `yaml:"materials" json:"materials"`
	Colors    []Color    `yaml:"colors" json:"colors"`
	Machines  []Machine  `yaml:"machines" json:"machines"`
	Rules     CostRules  `yaml:"cost_rules" json:"cost_rules"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Materials: []Material{
			{ID: "abs", Name: "ABS", DensityGPerCm3: 1.05, CostPerKg: 2.50, Description: "General purpose, good impact resistance"},
			{ID: "pp", Name: "Polypropylene", DensityGPerCm3: 0.905, CostPerKg: 1.80, Description: "Chemical resistant, living hinges"},
			{ID: "hdpe", Name: "HDPE", DensityGPerCm3: 0.95, CostPerKg: 1.60, Description: "Low cost, moisture resistant"},
			{ID: "pc", Name: "Polycarbonate", DensityGPerCm3: 1.20, CostPerKg: 3.20, Description: "High strength, optical clarity"},
			{ID: "pa66", Name: "Nylon PA66", DensityGPerCm3: 1.14, CostPerKg: 3.80, Description: "Wear resistant, high temperature"},
		},
		Colors: []Color{
			{ID: "natural", Name: "Natural", PremiumFraction: 0},
			{ID: "black", Name: "Black", PremiumFraction: 0.02},
			{ID: "white", Name: "White", PremiumFraction: 0.03},
			{ID: "custom", Name: "Custom match", PremiumFraction: 0.08},
		},
		Machines: []Machine{
			{ID: "m58", Name: "58t press", ClampForceTons: 58, HourlyRate: 35, MaxMoldWidthMm: 350, MaxMoldHeightMm: 350},
			{ID: "m128", Name: "128t press", ClampForceTons: 128, HourlyRate: 45, MaxMoldWidthMm: 450, MaxMoldHeightMm: 450},
			{ID: "m250", Name: "250t press", ClampForceTons: 250, HourlyRate: 60, MaxMoldWidthMm: 650, MaxMoldHeightMm: 650},
			{ID: "m450", Name: "450t press", ClampForceTons: 450, HourlyRate: 85, MaxMoldWidthMm: 900, MaxMoldHeightMm: 900},
			{ID: "m800", Name: "800t press", ClampForceTons: 800, HourlyRate: 120, MaxMoldWidthMm: 1200, MaxMoldHeightMm: 1200},
		},
		Rules: CostRules{
			MoldBaseMultiplier:  2.5,
			CavitySpacingFactor: 1.2,
			CycleTimeBaseSec:    25,
			CycleTimePerMmSec:   1.5,
			MinCycleTimeSec:     15,
			ScrapRate:           0.05,
		},
	}
}

// Load reads a catalog from a YAML file and validates it. An empty path
// returns the built-in default.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("validate catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects catalogs the quote engine cannot price against.
func (c Catalog) Validate() error {
	if len(c.Materials) == 0 {
		return fmt.Errorf("catalog has no materials")
	}
	if len(c.Colors) == 0 {
		return fmt.Errorf("catalog has no colors")
	}
	if len(c.Machines) == 0 {
		return fmt.Errorf("catalog has no machines")
	}
	for _, m := range c.Materials {
		if m.ID == "" || m.DensityGPerCm3 <= 0 || m.CostPerKg <= 0 {
			return fmt.Errorf("material %q needs an id, positive density, and positive cost", m.ID)
		}
	}
	for _, col := range c.Colors {
		if col.ID == "" || col.PremiumFraction < 0 || col.PremiumFraction >= 1 {
			return fmt.Errorf("color %q needs an id and a premium fraction in [0,1)", col.ID)
		}
	}
	for _, m := range c.Machines {
		if m.ID == "" || m.ClampForceTons <= 0 || m.HourlyRate <= 0 || m.MaxMoldWidthMm <= 0 || m.MaxMoldHeightMm <= 0 {
			return fmt.Errorf("machine %q needs an id and positive capacity values", m.ID)
		}
	}
	if c.Rules.MoldBaseMultiplier <= 0 || c.Rules.MinCycleTimeSec <= 0 {
		return fmt.Errorf("cost rules need positive mold multiplier and minimum cycle time")
	}
	if c.Rules.ScrapRate < 0 || c.Rules.ScrapRate >= 1 {
		return fmt.Errorf("scrap rate must be in [0,1)")
	}
	return nil
}

// MaterialByID looks up a material by its catalog ID.
func (c Catalog) MaterialByID(id string) (Material, bool) {
	for _, m := range c.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// ColorByID looks up a color by its catalog ID.
func (c Catalog) ColorByID(id string) (Color, bool) {
	for _, col := range c.Colors {
		if col.ID == id {
			return col, true
		}
	}
	return Color{}, false
}
