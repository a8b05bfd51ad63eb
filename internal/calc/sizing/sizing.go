// Package sizing is the cable sizing and selection engine: a pure,
// synchronous pipeline from load specification plus conductor catalog to a
// validated cable configuration with full diagnostics.
package sizing

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"sceap/internal/calc/electrical"
	"sceap/internal/calc/impedance"
	"sceap/internal/calc/selector"
	"sceap/internal/calc/vdrop"
	"sceap/internal/catalog"
)

var validate = validator.New()

// formulas identifies the expressions behind each figure in a Result, kept
// verbatim in every result for audit traceability.
func formulas() map[string]string {
	return map[string]string{
		"flc":                 "I = P / (√3 × V × PF × η)",
		"derated":             "I_d = I / (grouping_factor × temp_factor × installation_factor)",
		"runs":                "runs = ceil(I_d / ampacity_corrected_of_one_conductor)",
		"vd":                  "Vd% = (√3 × I_per_run × L × √(R^2 + X^2)) / V × 100",
		"adiabatic":           "I_adiabatic = K × sqrt(S / t)",
		"ampacity_correction": "I_corr = I_base × grouping_factor × temp_factor × installation_factor",
	}
}

// Evaluate sizes one cable. It never fails: degenerate inputs resolve to
// zero figures and an unsatisfiable demand resolves to the oversize
// placeholder with acceptance false. Deterministic for identical inputs.
func Evaluate(in Input, cat catalog.Catalog, std electrical.Standard) Result {
	phase := electrical.ParsePhase(in.PhaseType)
	if in.PhaseType == "" {
		phase = electrical.PhaseThree
		if in.Cores == 1 {
			phase = electrical.PhaseSingle
		}
	}

	loadKW := in.LoadKW
	if loadKW == 0 && in.LoadKVA > 0 {
		loadKW = in.LoadKVA * in.PF
	}

	runs := in.Runs
	if runs < 1 {
		runs = 1
	}

	flc := electrical.FullLoadCurrent(loadKW, in.Voltage, in.PF, in.Efficiency, phase)
	grouping := electrical.GroupingFactor(runs, in.FeederType, phase)
	temp := electrical.TempFactor(in.AmbientTemp)
	grouping, temp = electrical.ApplyStandard(std, grouping, temp)
	const installation = 1.0
	derated := electrical.ApplyDerating(flc, grouping, temp, installation)

	sel := selector.Select(derated, cat, std, grouping, temp, installation)

	useRuns := sel.Runs
	if useRuns < 1 {
		useRuns = runs
	}
	resist := sel.ResistancePerM
	if resist == 0 {
		resist = impedance.ResistancePerMeter(sel.SizeMM2)
	}
	drop := vdrop.Drop(flc, in.LengthM, in.Voltage, useRuns, resist, sel.ReactancePerM)
	limit := vdrop.Limit(std, in.Voltage)
	vdPass := drop <= limit
	scPass := vdrop.ShortCircuitOK(sel.SizeMM2, in.ProspectiveSC)

	base := sel.AmpacityBase
	corrected := sel.AmpacityCorrected
	margin := round2(corrected - derated)
	var marginPct *float64
	if corrected != 0 {
		p := round2((corrected - derated) / corrected * 100)
		marginPct = &p
	}
	accepted := margin >= 0 && vdPass && scPass

	cores := sel.Cores
	if cores == 0 {
		cores = in.Cores
	}
	if cores == 0 {
		cores = 3
	}

	return Result{
		ID:                in.CableNumber,
		CableNumber:       in.CableNumber,
		Description:       in.Description,
		FLC:               round2(flc),
		DeratedCurrent:    round2(derated),
		SelectedSizeMM2:   sel.SizeMM2,
		VoltageDropPct:    round2(drop),
		SCCheck:           scPass,
		GroupingFactor:    grouping,
		TempFactor:        temp,
		Status:            "pending",
		Cores:             cores,
		ODMM:              estimateOD(cores, sel.SizeMM2),
		BreakerType:       in.BreakerType,
		FeederType:        in.FeederType,
		Quantity:          in.Quantity,
		AmpacityBase:      &base,
		AmpacityCorrected: &corrected,
		AmpacityMargin:    &margin,
		AmpacityMarginPct: marginPct,
		AmpacitySource:    sel.AmpacitySource,
		VDLimit:           limit,
		VDPass:            vdPass,
		Accepted:          accepted,
		ResistancePerM:    resist,
		ReactancePerM:     sel.ReactancePerM,
		ProspectiveSC:     in.ProspectiveSC,
		Standard:          string(std),
		StandardRef:       std.Ref(),
		RecommendedCores:  sel.Cores,
		RecommendedRuns:   sel.Runs,
		Configuration:     sel.Configuration,
		Formulas:          formulas(),
	}
}

// EvaluateBatch sizes a load list in order. Rows failing validation are
// reported by cable number and skipped; the rest of the batch continues.
// The catalog snapshot is shared read-only across all evaluations.
func EvaluateBatch(items []Input, cat catalog.Catalog, std electrical.Standard) BatchOutcome {
	out := BatchOutcome{Results: make([]Result, 0, len(items))}
	for i, in := range items {
		if err := validate.Struct(in); err != nil {
			id := in.CableNumber
			if id == "" {
				id = fmt.Sprintf("row %d", i+1)
			}
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		out.Results = append(out.Results, Evaluate(in, cat, std))
	}
	return out
}

// estimateOD approximates the cable outer diameter from core count and
// cross-section.
func estimateOD(cores int, csa float64) float64 {
	return math.Round(math.Sqrt(float64(cores)*csa)*1.5*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
