package electrical

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestFullLoadCurrent(t *testing.T) {
	tests := []struct {
		name       string
		loadKW     float64
		voltage    float64
		pf         float64
		efficiency float64
		phase      Phase
		want       float64
	}{
		{
			name:   "typical motor feeder",
			loadKW: 50, voltage: 415, pf: 0.9, efficiency: 0.95,
			phase: PhaseThree,
			want:  81.36,
		},
		{
			name:   "unity power factor and efficiency",
			loadKW: 100, voltage: 415, pf: 1.0, efficiency: 1.0,
			phase: PhaseThree,
			want:  100000.0 / (math.Sqrt(3) * 415),
		},
		{
			name:   "single phase lighting circuit",
			loadKW: 5, voltage: 230, pf: 0.95, efficiency: 1.0,
			phase: PhaseSingle,
			want:  5000.0 / (230 * 0.95),
		},
		{
			name:   "zero voltage placeholder row",
			loadKW: 50, voltage: 0, pf: 0.9, efficiency: 0.95,
			phase: PhaseThree,
			want:  0,
		},
		{
			name:   "zero power factor placeholder row",
			loadKW: 50, voltage: 415, pf: 0, efficiency: 0.95,
			phase: PhaseThree,
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FullLoadCurrent(tt.loadKW, tt.voltage, tt.pf, tt.efficiency, tt.phase)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestFullLoadCurrentPhaseRatio(t *testing.T) {
	three := FullLoadCurrent(30, 400, 0.85, 0.92, PhaseThree)
	single := FullLoadCurrent(30, 400, 0.85, 0.92, PhaseSingle)
	assert.InDelta(t, three*math.Sqrt(3), single, 1e-9)
}

func TestGroupingFactor(t *testing.T) {
	tests := []struct {
		name       string
		runs       int
		feederType string
		phase      Phase
		want       float64
	}{
		{"three phase single run", 1, "C", PhaseThree, 0.8},
		{"three phase two runs", 2, "C", PhaseThree, 0.72},
		{"three phase three runs", 3, "C", PhaseThree, 0.68},
		{"three phase four runs", 4, "C", PhaseThree, 0.64},
		{"many runs same as four", 8, "C", PhaseThree, 0.64},
		{"single phase single run", 1, "C", PhaseSingle, 0.9},
		{"feeder reduces five percent", 1, "feeder", PhaseThree, 0.76},
		{"feeder with two runs", 2, "F", PhaseThree, 0.68},
		{"zero runs treated as one", 0, "C", PhaseThree, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupingFactor(tt.runs, tt.feederType, tt.phase)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTempFactor(t *testing.T) {
	temp := func(v float64) *float64 { return &v }
	tests := []struct {
		name    string
		ambient *float64
		want    float64
	}{
		{"unknown ambient defaults", nil, 0.95},
		{"below baseline no credit", temp(25), 1.0},
		{"at baseline", temp(30), 1.0},
		{"within first band", temp(35), 1.0},
		{"one full step", temp(40), 0.95},
		{"two full steps", temp(50), 0.903},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TempFactor(tt.ambient), 1e-9)
		})
	}
}

func TestApplyStandard(t *testing.T) {
	g, tf := ApplyStandard(StandardIEC, 0.8, 0.95)
	assert.Equal(t, 0.8, g)
	assert.Equal(t, 0.95, tf)

	g, tf = ApplyStandard(StandardIS, 0.8, 0.95)
	assert.InDelta(t, 0.76, g, 1e-9)
	assert.InDelta(t, 0.903, tf, 1e-9)

	// floors bind when the base factors are already low
	g, tf = ApplyStandard(StandardIS, 0.5, 0.86)
	assert.InDelta(t, 0.55, g, 1e-9)
	assert.InDelta(t, 0.85, tf, 1e-9)
}

func TestApplyDerating(t *testing.T) {
	got := ApplyDerating(80, 0.8, 0.95, 1.0)
	assert.InDelta(t, 80/(0.8*0.95), got, 1e-9)
	// harsher conditions always demand a bigger conductor rating
	assert.Greater(t, ApplyDerating(80, 0.64, 0.9, 1.0), got)
}

func TestParsePhase(t *testing.T) {
	assert.Equal(t, PhaseSingle, ParsePhase("single"))
	assert.Equal(t, PhaseSingle, ParsePhase("1ph"))
	assert.Equal(t, PhaseThree, ParsePhase("three"))
	assert.Equal(t, PhaseThree, ParsePhase("3"))
	assert.Equal(t, PhaseThree, ParsePhase(""))
}

func TestParseStandard(t *testing.T) {
	assert.Equal(t, StandardIS, ParseStandard("is"))
	assert.Equal(t, StandardIS, ParseStandard("IS 1554"))
	assert.Equal(t, StandardIEC, ParseStandard("iec"))
	assert.Equal(t, StandardIEC, ParseStandard(""))
	assert.Equal(t, "IS 1554", StandardIS.Ref())
	assert.Equal(t, "IEC 60287", StandardIEC.Ref())
}

func TestDeratingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("FLC scales linearly with load", prop.ForAll(
		func(loadKW float64) bool {
			one := FullLoadCurrent(loadKW, 415, 0.9, 0.95, PhaseThree)
			two := FullLoadCurrent(2*loadKW, 415, 0.9, 0.95, PhaseThree)
			return math.Abs(two-2*one) < 1e-6
		},
		gen.Float64Range(0.1, 5000),
	))

	properties.Property("grouping factor never increases with runs", prop.ForAll(
		func(runs int) bool {
			return GroupingFactor(runs+1, "C", PhaseThree) <= GroupingFactor(runs, "C", PhaseThree)
		},
		gen.IntRange(1, 10),
	))

	properties.Property("grouping factor stays within bounds", prop.ForAll(
		func(runs int, feeder string) bool {
			gf := GroupingFactor(runs, feeder, PhaseThree)
			return gf >= 0.5 && gf <= 0.9
		},
		gen.IntRange(0, 20),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
