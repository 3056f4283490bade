// Package quote computes deterministic injection-molding cost quotes from a
// geometry estimate and catalog selections. Calculate is a pure function:
// every quantity is recomputed end-to-end on each call, with no cached
// intermediate state.
package quote

import (
	"github.com/shmcrekt/legendary-barnacle/internal/catalog"
	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
)

// Selection represents the catalog choices for one quote.
type Selection struct {
	Material    catalog.Material
	Color       catalog.Color
	CavityCount int
}

// Result contains all intermediate and line-item values of the quote
// calculation. Derived, never persisted as state: it is recomputed fresh on
// every input change.
type Result struct {
	MaterialWeightG    float64         `json:"material_weight_g"`
	RawMaterialCost    float64         `json:"raw_material_cost"`
	ColorCost          float64         `json:"color_cost"`
	MoldWidthMm        float64         `json:"mold_width_mm"`
	MoldHeightMm       float64         `json:"mold_height_mm"`
	Machine            catalog.Machine `json:"machine"`
	MachineCapped      bool            `json:"machine_capped"`
	CycleTimeSec       float64         `json:"cycle_time_sec"`
	PartsPerHour       float64         `json:"parts_per_hour"`
	MachineCostPerPart float64         `json:"machine_cost_per_part"`
	TotalCostPerPart   float64         `json:"total_cost_per_part"`
}

// Calculate prices one part. The estimate's floors (volume at least 0.1 cm³,
// dimensions at least 1mm) make division by zero impossible here.
func Calculate(est geometry.Estimate, sel Selection, rules catalog.CostRules, machines []catalog.Machine) Result {
	cavities := sel.CavityCount
	if cavities < 1 {
		cavities = 1
	}

	materialWeightG := est.VolumeCm3 * sel.Material.DensityGPerCm3
	rawMaterialCost := materialWeightG * sel.Material.CostPerKg / 1000.0
	colorCost := rawMaterialCost * sel.Color.PremiumFraction

	moldWidth := est.WidthMm * rules.MoldBaseMultiplier
	if cavities > 1 {
		moldWidth *= rules.CavitySpacingFactor
	}
	moldHeight := est.HeightMm * rules.MoldBaseMultiplier

	machine, capped := selectMachine(machines, moldWidth, moldHeight)

	cycleTime := rules.CycleTimeBaseSec + est.WallThicknessMm*rules.CycleTimePerMmSec
	if cycleTime < rules.MinCycleTimeSec {
		cycleTime = rules.MinCycleTimeSec
	}

	partsPerHour := (3600.0 / cycleTime) * float64(cavities)
	machineCostPerPart := machine.HourlyRate / partsPerHour
	totalCostPerPart := (rawMaterialCost + colorCost + machineCostPerPart) * (1.0 + rules.ScrapRate)

	return Result{
		MaterialWeightG:    materialWeightG,
		RawMaterialCost:    rawMaterialCost,
		ColorCost:          colorCost,
		MoldWidthMm:        moldWidth,
		MoldHeightMm:       moldHeight,
		Machine:            machine,
		MachineCapped:      capped,
		CycleTimeSec:       cycleTime,
		PartsPerHour:       partsPerHour,
		MachineCostPerPart: machineCostPerPart,
		TotalCostPerPart:   totalCostPerPart,
	}
}

// selectMachine picks the cheapest adequate press: among machines whose mold
// envelope fits, the one with the lowest clamp force, with catalog order as
// the deterministic tie-break. If no machine fits, the largest-capacity
// machine is returned as a capped fallback so an oversized mold never fails
// the quote.
func selectMachine(machines []catalog.Machine, moldWidthMm, moldHeightMm float64) (catalog.Machine, bool) {
	var best catalog.Machine
	found := false
	for _, m := range machines {
		if m.MaxMoldWidthMm < moldWidthMm || m.MaxMoldHeightMm < moldHeightMm {
			continue
		}
		if !found || m.ClampForceTons < best.ClampForceTons {
			best = m
			found = true
		}
	}
	if found {
		return best, false
	}

	var largest catalog.Machine
	for i, m := range machines {
		if i == 0 || m.ClampForceTons > largest.ClampForceTons {
			largest = m
		}
	}
	return largest, true
}
