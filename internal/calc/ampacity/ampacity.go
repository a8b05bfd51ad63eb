// Package ampacity resolves the base and derated current rating of a
// catalog entry, recording which field the base rating came from so that
// results stay auditable.
package ampacity

import (
	"sceap/internal/calc/electrical"
	"sceap/internal/catalog"
)

// Rating pairs a standard conductor size with its typical continuous
// current rating. The list is ascending and is the default used when a
// catalog entry states no rating of its own.
type Rating struct {
	SizeMM2 float64
	Amps    float64
}

var defaultRatings = []Rating{
	{1.5, 10}, {2.5, 16}, {4, 25}, {6, 35}, {10, 50},
	{16, 63}, {25, 80}, {35, 100}, {50, 125}, {70, 160},
	{95, 200}, {120, 250}, {150, 315}, {185, 400}, {240, 500},
}

// DefaultTable returns the built-in size/rating pairs in ascending order.
func DefaultTable() []Rating {
	out := make([]Rating, len(defaultRatings))
	copy(out, defaultRatings)
	return out
}

// DefaultRating maps a size to the rating of the smallest standard size ≥
// it, clamped to the largest row.
func DefaultRating(sizeMM2 float64) float64 {
	for _, r := range defaultRatings {
		if sizeMM2 <= r.SizeMM2 {
			return r.Amps
		}
	}
	return defaultRatings[len(defaultRatings)-1].Amps
}

// Resolution is the outcome of resolving one entry. OK is false when no
// base ampacity could be found anywhere; the selector treats such entries
// as non-candidates rather than failures.
type Resolution struct {
	Base      float64
	Corrected float64
	Source    string
	OK        bool
}

// Resolve picks a base ampacity for the entry (air rating preferred, then
// ground, then the generic field, then the default table keyed by size) and
// corrects it by the derating factors. The IS variant applies a further
// 0.95 on the corrected value.
func Resolve(e catalog.Entry, std electrical.Standard, grouping, temp, installation float64) Resolution {
	var res Resolution
	switch {
	case e.AmpacityAir > 0:
		res = Resolution{Base: e.AmpacityAir, Source: "ampacity_air", OK: true}
	case e.AmpacityGround > 0:
		res = Resolution{Base: e.AmpacityGround, Source: "ampacity_ground", OK: true}
	case e.Ampacity > 0:
		res = Resolution{Base: e.Ampacity, Source: "ampacity", OK: true}
	case e.SizeMM2 > 0:
		res = Resolution{Base: DefaultRating(e.SizeMM2), Source: "default_table", OK: true}
	default:
		return Resolution{Source: "none"}
	}

	res.Corrected = res.Base * grouping * temp * installation
	if std == electrical.StandardIS {
		res.Corrected *= 0.95
		res.Source += "->is_adjusted"
	}
	return res
}
