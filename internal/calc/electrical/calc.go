package electrical

import (
	"math"
	"strings"
)

type Phase string

const (
	PhaseSingle Phase = "single"
	PhaseThree  Phase = "three"
)

// ParsePhase accepts the phase spellings seen in load lists ("single", "1",
// "1p", "three", "3", "3ph"). Anything unrecognised is three-phase.
func ParsePhase(s string) Phase {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "single" || strings.HasPrefix(v, "1") {
		return PhaseSingle
	}
	return PhaseThree
}

type Standard string

const (
	StandardIEC Standard = "IEC"
	StandardIS  Standard = "IS"
)

func ParseStandard(s string) Standard {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "is") {
		return StandardIS
	}
	return StandardIEC
}

// Ref returns the standard document the sizing rules approximate.
func (s Standard) Ref() string {
	if s == StandardIS {
		return "IS 1554"
	}
	return "IEC 60287"
}

// FullLoadCurrent computes I = P/(√3·V·PF·η) for three-phase loads and
// I = P/(V·PF·η) for single-phase. Zero voltage or power factor yields 0,
// not an error: exploratory load lists carry placeholder rows.
func FullLoadCurrent(loadKW, voltage, pf, efficiency float64, phase Phase) float64 {
	if voltage == 0 || pf == 0 {
		return 0
	}
	if phase == PhaseSingle {
		return (loadKW * 1000.0) / (voltage * pf * efficiency)
	}
	return (loadKW * 1000.0) / (math.Sqrt(3) * voltage * pf * efficiency)
}

// GroupingFactor is a simplified proxy for the cable-grouping derating
// tables: base 0.8 (0.9 single-phase), stepped down with parallel runs and
// reduced another 5% for feeder circuits. Floored at 0.5.
func GroupingFactor(runs int, feederType string, phase Phase) float64 {
	gf := 0.8
	if phase == PhaseSingle {
		gf = 0.9
	}
	switch {
	case runs <= 1:
		// full factor
	case runs == 2:
		gf *= 0.9
	case runs == 3:
		gf *= 0.85
	default:
		gf *= 0.8
	}
	if ft := strings.ToLower(strings.TrimSpace(feederType)); strings.HasPrefix(ft, "f") {
		gf *= 0.95
	}
	return math.Max(0.5, round(gf, 2))
}

// TempFactor approximates ambient-temperature derating: 5% per full 10°C
// above a 30°C baseline, no credit below it. A nil ambient means the site
// temperature is unknown and the customary 0.95 default applies.
func TempFactor(ambientTemp *float64) float64 {
	if ambientTemp == nil {
		return 0.95
	}
	steps := int((*ambientTemp - 30.0) / 10.0)
	f := 1.0
	for i := 0; i < steps; i++ {
		f *= 0.95
	}
	return round(f, 3)
}

// ApplyDerating converts a load current into the current the conductor must
// be rated for under the given conditions. All factors must be > 0; callers
// supply 1.0 for an unknown installation factor.
func ApplyDerating(current, grouping, temp, installation float64) float64 {
	return current / (grouping * temp * installation)
}

// ApplyStandard adjusts the derived factors for the stricter IS variant:
// grouping scaled 0.95 with a 0.55 floor, temperature scaled 0.95 with a
// 0.85 floor. IEC factors pass through unchanged, keeping the base
// derivations standard-agnostic.
func ApplyStandard(std Standard, grouping, temp float64) (float64, float64) {
	if std != StandardIS {
		return grouping, temp
	}
	g := math.Max(0.55, grouping*0.95)
	t := round(math.Max(0.85, temp*0.95), 3)
	return g, t
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
