package selector

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"sceap/internal/calc/electrical"
	"sceap/internal/catalog"
)

func TestSelectDefaultTable(t *testing.T) {
	sel := Select(10, nil, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.True(t, sel.Found)
	assert.Equal(t, 1.5, sel.SizeMM2)
	assert.Equal(t, 1, sel.Runs)
	assert.Equal(t, "3 x 1.5", sel.Configuration)
	assert.Equal(t, "default_table", sel.AmpacitySource)
}

func TestSelectDefaultTableParallelsLargest(t *testing.T) {
	sel := Select(1000, nil, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.True(t, sel.Found)
	assert.Equal(t, 240.0, sel.SizeMM2)
	assert.Equal(t, 2, sel.Runs)
	assert.Equal(t, "3 x 240 (runs=2)", sel.Configuration)
}

func TestSelectPrefersFewerRuns(t *testing.T) {
	cat := catalog.Catalog{
		{SizeMM2: 50, Cores: 3, AmpacityAir: 100},
		{SizeMM2: 95, Cores: 3, AmpacityAir: 200},
	}
	sel := Select(150, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.True(t, sel.Found)
	assert.Equal(t, 95.0, sel.SizeMM2, "one run of 95 beats two runs of 50")
	assert.Equal(t, 1, sel.Runs)
}

func TestSelectPrefersSmallerSizeAtEqualRuns(t *testing.T) {
	cat := catalog.Catalog{
		{SizeMM2: 95, Cores: 3, AmpacityAir: 200},
		{SizeMM2: 70, Cores: 3, AmpacityAir: 160},
	}
	sel := Select(150, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.Equal(t, 70.0, sel.SizeMM2)
	assert.Equal(t, 1, sel.Runs)
	assert.Equal(t, "3C x 70 mm²", sel.Configuration)
}

func TestSelectResistanceTieBreak(t *testing.T) {
	r1, r2 := 0.0004, 0.00035
	cat := catalog.Catalog{
		{SizeMM2: 50, Cores: 3, AmpacityAir: 170, ResistancePerM: r1},
		{SizeMM2: 50, Cores: 3, AmpacityAir: 170, ResistancePerM: r2},
	}
	sel := Select(150, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.Equal(t, r2, sel.ResistancePerM)

	// a stated resistance beats an entry that has none
	cat = catalog.Catalog{
		{SizeMM2: 50, Cores: 3, AmpacityAir: 170},
		{SizeMM2: 50, Cores: 3, AmpacityAir: 170, ResistancePerM: r1},
	}
	sel = Select(150, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.Equal(t, r1, sel.ResistancePerM)
}

func TestSelectOrderIndependence(t *testing.T) {
	a := catalog.Entry{SizeMM2: 70, Cores: 3, AmpacityAir: 160}
	b := catalog.Entry{SizeMM2: 95, Cores: 3, AmpacityAir: 200}
	first := Select(150, catalog.Catalog{a, b}, electrical.StandardIEC, 1.0, 1.0, 1.0)
	second := Select(150, catalog.Catalog{b, a}, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.Equal(t, first, second)
}

func TestSelectMaxParallelDisqualifies(t *testing.T) {
	cat := catalog.Catalog{
		{SizeMM2: 50, Cores: 3, AmpacityAir: 100, MaxParallel: 1},
		{SizeMM2: 50, Cores: 3, AmpacityAir: 100, MaxParallel: 3},
	}
	sel := Select(250, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.True(t, sel.Found)
	assert.Equal(t, 3, sel.Runs)
}

func TestSelectOversizeFallback(t *testing.T) {
	cat := catalog.Catalog{
		{SizeMM2: 50, Cores: 3, AmpacityAir: 100, MaxParallel: 1},
	}
	sel := Select(5000, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.False(t, sel.Found)
	assert.Equal(t, 300.0, sel.SizeMM2)
	assert.Equal(t, 0, sel.Runs)
	assert.Equal(t, "3 x 300", sel.Configuration)
}

func TestSelectSkipsUnresolvableEntries(t *testing.T) {
	cat := catalog.Catalog{
		{Formation: "junk row"},
		{SizeMM2: 50, Cores: 3, AmpacityAir: 170},
	}
	sel := Select(150, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
	assert.True(t, sel.Found)
	assert.Equal(t, 50.0, sel.SizeMM2)
}

func TestSelectAgainstShippedCatalog(t *testing.T) {
	sel := Select(81.36, catalog.Default(), electrical.StandardIEC, 0.8, 0.95, 1.0)
	assert.True(t, sel.Found)
	assert.GreaterOrEqual(t, sel.AmpacityCorrected*float64(sel.Runs), 81.36)
	assert.Greater(t, sel.ResistancePerM, 0.0)
}

func TestSelectProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("default table always covers the demand", prop.ForAll(
		func(derated float64) bool {
			sel := Select(derated, nil, electrical.StandardIEC, 1.0, 1.0, 1.0)
			return sel.Found && sel.Runs >= 1 &&
				sel.AmpacityCorrected*float64(sel.Runs) >= derated
		},
		gen.Float64Range(0.1, 10000),
	))

	properties.Property("chosen runs never exceed a declared parallel limit", prop.ForAll(
		func(derated float64, maxParallel int) bool {
			cat := catalog.Catalog{
				{SizeMM2: 50, Cores: 3, AmpacityAir: 100, MaxParallel: maxParallel},
			}
			sel := Select(derated, cat, electrical.StandardIEC, 1.0, 1.0, 1.0)
			return !sel.Found || sel.Runs <= maxParallel
		},
		gen.Float64Range(1, 2000),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
