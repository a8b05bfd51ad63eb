// Package impedance holds the fallback per-length resistance table for
// copper conductors at 20°C, used when a catalog entry carries no
// resistance figure of its own.
package impedance

// Tabulated resistance in ohm/km for the standard conductor sizes,
// ascending by cross-section.
var table = []struct {
	sizeMM2  float64
	ohmPerKM float64
}{
	{1.5, 12.1},
	{2.5, 7.41},
	{4, 4.61},
	{6, 3.08},
	{10, 1.83},
	{16, 1.15},
	{25, 0.727},
	{35, 0.524},
	{50, 0.387},
	{70, 0.268},
	{95, 0.193},
	{120, 0.153},
	{150, 0.124},
	{185, 0.101},
	{240, 0.075},
}

// ResistancePerMeter returns the tabulated resistance (ohm/m) for the
// smallest standard size ≥ the requested size. Requests beyond 240 mm²
// are clamped to the last row rather than extrapolated.
func ResistancePerMeter(sizeMM2 float64) float64 {
	for _, row := range table {
		if sizeMM2 <= row.sizeMM2 {
			return row.ohmPerKM / 1000.0
		}
	}
	return table[len(table)-1].ohmPerKM / 1000.0
}
