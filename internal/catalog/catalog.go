package catalog

import "context"

// Entry is one row of a manufacturer catalog. At least one of the ampacity
// fields should be present; entries carrying only a size still work through
// the default rating table. A zero resistance means "not stated" and the
// fixed lookup table is used instead. Reactance is a pointer because its
// absence switches the voltage-drop calculation to resistance-only mode.
type Entry struct {
	SizeMM2           float64  `json:"size_mm2"`
	Cores             int      `json:"cores,omitempty"`
	Formation         string   `json:"formation,omitempty"`
	AmpacityAir       float64  `json:"ampacity_air,omitempty"`
	AmpacityGround    float64  `json:"ampacity_ground,omitempty"`
	Ampacity          float64  `json:"ampacity,omitempty"`
	ResistancePerM    float64  `json:"resistance_per_m,omitempty"`
	ReactancePerM     *float64 `json:"reactance_per_m,omitempty"`
	CableDiaMM        float64  `json:"cable_dia_mm,omitempty"`
	MaxParallel       int      `json:"paralleled_count,omitempty"`
	Pairs             int      `json:"pairs,omitempty"`
	ConductorMaterial string   `json:"conductor_material,omitempty"`
	Insulation        string   `json:"insulation,omitempty"`
	Sheath            string   `json:"sheath,omitempty"`
	GroupingK2        float64  `json:"grouping_k2,omitempty"`
}

// Catalog is an ordered-by-size list of entries. Ordering matters: it is the
// final tie-break key during selection.
type Catalog []Entry

// Provider hands out read-only catalog snapshots by name. The sizing engine
// depends only on this interface, never on a storage mechanism.
type Provider interface {
	Get(ctx context.Context, name string) (Catalog, error)
}

// DefaultName is the catalog seeded at startup.
const DefaultName = "default"

func f(v float64) *float64 { return &v }

// Default returns the built-in IEC-like catalog: 3C entries for the 15
// standard sizes plus two single-core rows used for paralleled runs.
func Default() Catalog {
	return Catalog{
		{SizeMM2: 1.5, Cores: 3, Formation: "3C", AmpacityAir: 10, AmpacityGround: 12, ResistancePerM: 0.0121, ReactancePerM: f(0.00011), CableDiaMM: 4.5},
		{SizeMM2: 2.5, Cores: 3, Formation: "3C", AmpacityAir: 16, AmpacityGround: 18, ResistancePerM: 0.00741, ReactancePerM: f(0.00009), CableDiaMM: 5.0},
		{SizeMM2: 4, Cores: 3, Formation: "3C", AmpacityAir: 25, AmpacityGround: 27, ResistancePerM: 0.00461, ReactancePerM: f(0.00008), CableDiaMM: 6.0},
		{SizeMM2: 6, Cores: 3, Formation: "3C", AmpacityAir: 35, AmpacityGround: 37, ResistancePerM: 0.00308, ReactancePerM: f(0.000075), CableDiaMM: 7.0},
		{SizeMM2: 10, Cores: 3, Formation: "3C", AmpacityAir: 50, AmpacityGround: 55, ResistancePerM: 0.00183, ReactancePerM: f(0.000065), CableDiaMM: 9.0},
		{SizeMM2: 16, Cores: 3, Formation: "3C", AmpacityAir: 63, AmpacityGround: 67, ResistancePerM: 0.00115, ReactancePerM: f(0.000058), CableDiaMM: 10.5},
		{SizeMM2: 25, Cores: 3, Formation: "3C", AmpacityAir: 80, AmpacityGround: 85, ResistancePerM: 0.000727, ReactancePerM: f(0.000052), CableDiaMM: 12.0},
		{SizeMM2: 35, Cores: 3, Formation: "3C", AmpacityAir: 100, AmpacityGround: 104, ResistancePerM: 0.000524, ReactancePerM: f(0.000047), CableDiaMM: 14.0},
		{SizeMM2: 50, Cores: 3, Formation: "3C", AmpacityAir: 125, AmpacityGround: 130, ResistancePerM: 0.000387, ReactancePerM: f(0.000042), CableDiaMM: 16.0},
		{SizeMM2: 70, Cores: 3, Formation: "3C", AmpacityAir: 160, AmpacityGround: 165, ResistancePerM: 0.000268, ReactancePerM: f(0.000038), CableDiaMM: 18.0},
		{SizeMM2: 95, Cores: 3, Formation: "3C", AmpacityAir: 200, AmpacityGround: 205, ResistancePerM: 0.000193, ReactancePerM: f(0.000035), CableDiaMM: 21.0},
		{SizeMM2: 120, Cores: 3, Formation: "3C", AmpacityAir: 250, AmpacityGround: 255, ResistancePerM: 0.000153, ReactancePerM: f(0.000033), CableDiaMM: 23.0},
		{SizeMM2: 150, Cores: 3, Formation: "3C", AmpacityAir: 315, AmpacityGround: 320, ResistancePerM: 0.000124, ReactancePerM: f(0.00003), CableDiaMM: 27.0},
		{SizeMM2: 185, Cores: 3, Formation: "3C", AmpacityAir: 350, AmpacityGround: 355, ResistancePerM: 0.000101, ReactancePerM: f(0.000028), CableDiaMM: 30.0},
		{SizeMM2: 240, Cores: 3, Formation: "3C", AmpacityAir: 400, AmpacityGround: 405, ResistancePerM: 0.000075, ReactancePerM: f(0.000025), CableDiaMM: 34.0},
		{SizeMM2: 185, Cores: 1, Formation: "1C", AmpacityAir: 271, AmpacityGround: 305, ResistancePerM: 0.00021, ReactancePerM: f(0.000072), CableDiaMM: 36.0},
		{SizeMM2: 240, Cores: 1, Formation: "1C", AmpacityAir: 448, AmpacityGround: 385, ResistancePerM: 0.00018, ReactancePerM: f(0.0000719), CableDiaMM: 44.0},
	}
}
