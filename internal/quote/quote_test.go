package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shmcrekt/legendary-barnacle/internal/catalog"
	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
)

func defaultCatalog() catalog.Catalog {
	return catalog.Default()
}

func TestCalculate_ReferenceScenario(t *testing.T) {
	cat := defaultCatalog()
	pp, ok := cat.MaterialByID("pp")
	require.True(t, ok)
	natural, ok := cat.ColorByID("natural")
	require.True(t, ok)

	est := geometry.Estimate{
		VolumeCm3:       50,
		LengthMm:        100,
		WidthMm:         80,
		HeightMm:        60,
		WallThicknessMm: 2.5,
		Tier:            geometry.TierHigh,
	}

	result := Calculate(est, Selection{Material: pp, Color: natural, CavityCount: 1}, cat.Rules, cat.Machines)

	assert.InDelta(t, 45.25, result.MaterialWeightG, 1e-9)
	assert.InDelta(t, 45.25*1.80/1000.0, result.RawMaterialCost, 1e-9)
	assert.InDelta(t, 0.0, result.ColorCost, 1e-12)

	assert.InDelta(t, 200.0, result.MoldWidthMm, 1e-9, "80 x 2.5, no cavity spacing at 1 cavity")
	assert.InDelta(t, 150.0, result.MoldHeightMm, 1e-9)
	assert.Equal(t, "m58", result.Machine.ID, "smallest press whose envelope fits 200x150")
	assert.False(t, result.MachineCapped)

	assert.InDelta(t, 28.75, result.CycleTimeSec, 1e-9, "25 + 2.5x1.5, above the 15s floor")
	assert.InDelta(t, 3600.0/28.75, result.PartsPerHour, 1e-9)

	machineCost := 35.0 / (3600.0 / 28.75)
	assert.InDelta(t, machineCost, result.MachineCostPerPart, 1e-9)
	assert.InDelta(t, (0.08145+machineCost)*1.05, result.TotalCostPerPart, 1e-9)
}

func TestCalculate_CycleTimeFloor(t *testing.T) {
	cat := defaultCatalog()
	rules := cat.Rules
	rules.CycleTimeBaseSec = 5
	rules.CycleTimePerMmSec = 1

	est := geometry.Estimate{VolumeCm3: 1, LengthMm: 10, WidthMm: 10, HeightMm: 10, WallThicknessMm: 1}
	result := Calculate(est, Selection{Material: cat.Materials[0], Color: cat.Colors[0], CavityCount: 1}, rules, cat.Machines)

	assert.InDelta(t, rules.MinCycleTimeSec, result.CycleTimeSec, 1e-9)
}

func TestCalculate_ColorPremium(t *testing.T) {
	cat := defaultCatalog()
	custom, ok := cat.ColorByID("custom")
	require.True(t, ok)

	est := geometry.Estimate{VolumeCm3: 100, LengthMm: 50, WidthMm: 50, HeightMm: 50, WallThicknessMm: 2}
	result := Calculate(est, Selection{Material: cat.Materials[0], Color: custom, CavityCount: 1}, cat.Rules, cat.Machines)

	assert.InDelta(t, result.RawMaterialCost*0.08, result.ColorCost, 1e-12)
}

func TestCalculate_CavityCountMonotonicity(t *testing.T) {
	cat := defaultCatalog()
	// Small part: the mold fits the smallest press at every cavity count,
	// so machine cost per part strictly decreases.
	est := geometry.Estimate{VolumeCm3: 5, LengthMm: 40, WidthMm: 30, HeightMm: 20, WallThicknessMm: 1.5}
	sel := Selection{Material: cat.Materials[0], Color: cat.Colors[0]}

	var prev float64
	for cavities := 1; cavities <= 6; cavities++ {
		sel.CavityCount = cavities
		result := Calculate(est, sel, cat.Rules, cat.Machines)
		require.Equal(t, "m58", result.Machine.ID)
		if cavities > 1 {
			assert.Less(t, result.MachineCostPerPart, prev,
				"machine cost per part must strictly decrease at %d cavities", cavities)
		}
		prev = result.MachineCostPerPart
	}
}

func TestCalculate_MachineStepAtEnvelopeBoundary(t *testing.T) {
	cat := defaultCatalog()
	// Width 130mm: mold width 325 fits the 58t press at one cavity, but
	// cavity spacing pushes it to 390 at two cavities, exactly past the
	// 350mm envelope.
	est := geometry.Estimate{VolumeCm3: 20, LengthMm: 140, WidthMm: 130, HeightMm: 40, WallThicknessMm: 2}
	sel := Selection{Material: cat.Materials[0], Color: cat.Colors[0]}

	sel.CavityCount = 1
	one := Calculate(est, sel, cat.Rules, cat.Machines)
	require.Equal(t, "m58", one.Machine.ID)

	sel.CavityCount = 2
	two := Calculate(est, sel, cat.Rules, cat.Machines)
	require.Equal(t, "m128", two.Machine.ID, "envelope violation forces the next press")

	// The step to a pricier machine keeps the two-cavity cost above the
	// halving a same-machine doubling would give.
	assert.Greater(t, two.MachineCostPerPart, one.MachineCostPerPart/2)
	assert.Less(t, two.MachineCostPerPart, one.MachineCostPerPart,
		"doubling cavities still wins overall here")
}

func TestCalculate_OversizedMoldUsesLargestMachineCapped(t *testing.T) {
	cat := defaultCatalog()
	est := geometry.Estimate{VolumeCm3: 5000, LengthMm: 700, WidthMm: 600, HeightMm: 400, WallThicknessMm: 3}
	result := Calculate(est, Selection{Material: cat.Materials[0], Color: cat.Colors[0], CavityCount: 1}, cat.Rules, cat.Machines)

	assert.Equal(t, "m800", result.Machine.ID, "never fail the quote for an oversized mold")
	assert.True(t, result.MachineCapped)
}

func TestSelectMachine_CatalogOrderBreaksTies(t *testing.T) {
	machines := []catalog.Machine{
		{ID: "first", ClampForceTons: 100, HourlyRate: 40, MaxMoldWidthMm: 500, MaxMoldHeightMm: 500},
		{ID: "second", ClampForceTons: 100, HourlyRate: 38, MaxMoldWidthMm: 500, MaxMoldHeightMm: 500},
	}
	machine, capped := selectMachine(machines, 100, 100)
	assert.Equal(t, "first", machine.ID, "equal clamp force resolves by catalog order")
	assert.False(t, capped)
}

func TestCalculate_NonPositiveCavityCountClampsToOne(t *testing.T) {
	cat := defaultCatalog()
	est := geometry.Estimate{VolumeCm3: 5, LengthMm: 40, WidthMm: 30, HeightMm: 20, WallThicknessMm: 1.5}

	zero := Calculate(est, Selection{Material: cat.Materials[0], Color: cat.Colors[0], CavityCount: 0}, cat.Rules, cat.Machines)
	one := Calculate(est, Selection{Material: cat.Materials[0], Color: cat.Colors[0], CavityCount: 1}, cat.Rules, cat.Machines)
	assert.Equal(t, one, zero)
}
