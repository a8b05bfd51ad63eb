// Package selector searches a conductor catalog for the smallest
// configuration (size × parallel runs) that can carry a derated current.
package selector

import (
	"fmt"
	"math"

	"sceap/internal/calc/ampacity"
	"sceap/internal/calc/electrical"
	"sceap/internal/calc/impedance"
	"sceap/internal/catalog"
)

// Selection is the chosen cable configuration. Runs == 0 together with
// Found == false marks the oversize fallback: the catalog could not satisfy
// the demand and 300 mm² is reported as a conservative placeholder.
type Selection struct {
	Configuration     string
	SizeMM2           float64
	Cores             int
	Runs              int
	AmpacityBase      float64
	AmpacityCorrected float64
	ResistancePerM    float64
	ReactancePerM     *float64
	AmpacitySource    string
	Found             bool
}

type option struct {
	entry      catalog.Entry
	resolution ampacity.Resolution
	runs       int
	size       float64
}

// better reports whether a should replace b. The objective is lexicographic:
// fewer runs, then smaller size, then lower resistance (entries without a
// stated resistance sort after those with one), then earlier catalog
// position via the stable scan order.
func better(a, b option) bool {
	if a.runs != b.runs {
		return a.runs < b.runs
	}
	if a.size != b.size {
		return a.size < b.size
	}
	ar, br := a.entry.ResistancePerM, b.entry.ResistancePerM
	switch {
	case ar > 0 && br > 0:
		return ar < br
	case ar > 0:
		return true
	default:
		return false
	}
}

// Select scans the catalog for the best configuration meeting the derated
// current. With no catalog the fixed default table is walked instead and
// demand beyond its largest rating is met by paralleling the largest size;
// selection against the default table never fails.
func Select(derated float64, cat catalog.Catalog, std electrical.Standard, grouping, temp, installation float64) Selection {
	if len(cat) == 0 {
		return selectDefault(derated)
	}

	var best *option
	for _, e := range cat {
		if e.SizeMM2 <= 0 {
			continue
		}
		res := ampacity.Resolve(e, std, grouping, temp, installation)
		if !res.OK || res.Corrected <= 0 {
			continue
		}
		runs := int(math.Ceil(derated / res.Corrected))
		if runs < 1 {
			runs = 1
		}
		// A declared parallel limit disqualifies the option outright;
		// it is never silently capped.
		if e.MaxParallel > 0 && runs > e.MaxParallel {
			continue
		}
		opt := option{entry: e, resolution: res, runs: runs, size: e.SizeMM2}
		if best == nil || better(opt, *best) {
			o := opt
			best = &o
		}
	}

	if best == nil {
		return Selection{
			Configuration: "3 x 300",
			SizeMM2:       300,
			Cores:         3,
			Runs:          0,
			Found:         false,
		}
	}

	e := best.entry
	cores := e.Cores
	if cores == 0 {
		cores = 3
	}
	resist := e.ResistancePerM
	if resist == 0 {
		resist = impedance.ResistancePerMeter(e.SizeMM2)
	}
	label := fmt.Sprintf("%dC x %g mm²", cores, e.SizeMM2)
	if best.runs > 1 {
		label = fmt.Sprintf("%dC x %g mm² (runs=%d)", cores, e.SizeMM2, best.runs)
	}
	return Selection{
		Configuration:     label,
		SizeMM2:           e.SizeMM2,
		Cores:             cores,
		Runs:              best.runs,
		AmpacityBase:      best.resolution.Base,
		AmpacityCorrected: best.resolution.Corrected,
		ResistancePerM:    resist,
		ReactancePerM:     e.ReactancePerM,
		AmpacitySource:    best.resolution.Source,
		Found:             true,
	}
}

func selectDefault(derated float64) Selection {
	table := ampacity.DefaultTable()
	for _, r := range table {
		if derated <= r.Amps {
			return Selection{
				Configuration:     fmt.Sprintf("3 x %g", r.SizeMM2),
				SizeMM2:           r.SizeMM2,
				Cores:             3,
				Runs:              1,
				AmpacityBase:      r.Amps,
				AmpacityCorrected: r.Amps,
				ResistancePerM:    impedance.ResistancePerMeter(r.SizeMM2),
				AmpacitySource:    "default_table",
				Found:             true,
			}
		}
	}
	largest := table[len(table)-1]
	runs := int(math.Ceil(derated / largest.Amps))
	return Selection{
		Configuration:     fmt.Sprintf("3 x %g (runs=%d)", largest.SizeMM2, runs),
		SizeMM2:           largest.SizeMM2,
		Cores:             3,
		Runs:              runs,
		AmpacityBase:      largest.Amps,
		AmpacityCorrected: largest.Amps,
		ResistancePerM:    impedance.ResistancePerMeter(largest.SizeMM2),
		AmpacitySource:    "default_table",
		Found:             true,
	}
}
