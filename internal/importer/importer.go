// Package importer maps spreadsheets onto strongly typed inputs. Column
// headers are matched through ordered alias lists so the engine itself
// never sees raw untyped rows.
package importer

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sceap/internal/calc/sizing"
	"sceap/internal/catalog"
)

// normalizeHeader canonicalises a column title: lower-cased, trimmed,
// spaces and dashes to underscores, dots dropped.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, ".", "")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// resolver finds a cell by the first matching alias of a logical field.
type resolver struct {
	idx map[string]int
}

func newResolver(header []string) resolver {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return resolver{idx: idx}
}

func (r resolver) has(aliases ...string) bool {
	for _, a := range aliases {
		if _, ok := r.idx[a]; ok {
			return true
		}
	}
	return false
}

func (r resolver) cell(row []string, aliases ...string) string {
	for _, a := range aliases {
		i, ok := r.idx[a]
		if !ok || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

func (r resolver) float(row []string, def float64, aliases ...string) (float64, error) {
	v := r.cell(row, aliases...)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", aliases[0], v)
	}
	return f, nil
}

func (r resolver) floatPtr(row []string, aliases ...string) (*float64, error) {
	v := r.cell(row, aliases...)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", aliases[0], v)
	}
	return &f, nil
}

func (r resolver) int(row []string, def int, aliases ...string) (int, error) {
	f, err := r.float(row, float64(def), aliases...)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func firstSheetRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rows, nil
}

// ParseCables reads a load-list workbook. Row-level problems are collected
// as messages and never abort the remaining rows; only an unreadable file
// or a missing key column ends the import.
func ParseCables(src io.Reader) ([]sizing.Input, []string) {
	var errs []string
	rows, err := firstSheetRows(src)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if len(rows) < 1 {
		return nil, []string{"empty sheet"}
	}
	res := newResolver(rows[0])
	if !res.has("cable_number", "cable_no", "cable") {
		return nil, []string{"Missing key column: cable_number/cable_no/cable"}
	}
	if !res.has("load_kw", "kw", "load") {
		errs = append(errs, "Warning: load_kw/kw/load column missing or unmapped; assuming 0 kW for rows.")
	}

	var cables []sizing.Input
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		in, err := parseCableRow(res, row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		cables = append(cables, in)
	}
	return cables, errs
}

func parseCableRow(res resolver, row []string) (sizing.Input, error) {
	var in sizing.Input
	var err error

	in.CableNumber = res.cell(row, "cable_number", "cable_no", "cable")
	in.Description = res.cell(row, "description", "desc")
	if in.LoadKW, err = res.float(row, 0, "load_kw", "kw", "load"); err != nil {
		return in, err
	}
	if in.LoadKVA, err = res.float(row, 0, "load_kva", "kva"); err != nil {
		return in, err
	}
	if in.Voltage, err = res.float(row, 415, "voltage", "v"); err != nil {
		return in, err
	}
	if in.PF, err = res.float(row, 0.9, "pf"); err != nil {
		return in, err
	}
	if in.Efficiency, err = res.float(row, 0.95, "efficiency"); err != nil {
		return in, err
	}
	if in.LengthM, err = res.float(row, 0, "length"); err != nil {
		return in, err
	}
	if in.Runs, err = res.int(row, 1, "runs"); err != nil {
		return in, err
	}
	in.CableType = res.cell(row, "cable_type")
	if in.CableType == "" {
		in.CableType = "C"
	}
	in.FromEquipment = res.cell(row, "from_equipment", "from")
	in.ToEquipment = res.cell(row, "to_equipment", "to")
	in.BreakerType = res.cell(row, "breaker_type", "breaker")
	in.FeederType = res.cell(row, "feeder_type")
	if in.Cores, err = res.int(row, 3, "cores"); err != nil {
		return in, err
	}
	if in.Quantity, err = res.int(row, 1, "quantity"); err != nil {
		return in, err
	}
	if in.VoltageVariation, err = res.floatPtr(row, "voltage_variation"); err != nil {
		return in, err
	}
	in.PowerSupply = res.cell(row, "power_supply")
	in.Installation = res.cell(row, "installation")
	if in.ProspectiveSC, err = res.floatPtr(row, "prospective_sc", "prospective_sc_ka"); err != nil {
		return in, err
	}
	in.PhaseType = res.cell(row, "phase", "phase_type")
	if in.AmbientTemp, err = res.floatPtr(row, "ambient_temp", "ambient_temperature"); err != nil {
		return in, err
	}
	return in, nil
}

// ParseCatalog reads a catalog workbook, normalising resistance and
// reactance from ohm/km to ohm/m and sorting entries by size then air
// rating, the order the selector expects.
func ParseCatalog(src io.Reader) (catalog.Catalog, []string) {
	var errs []string
	rows, err := firstSheetRows(src)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if len(rows) < 1 {
		return nil, []string{"empty sheet"}
	}
	res := newResolver(rows[0])

	var cat catalog.Catalog
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		e, err := parseCatalogRow(res, row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		cat = append(cat, e)
	}

	sort.SliceStable(cat, func(a, b int) bool {
		if cat[a].SizeMM2 != cat[b].SizeMM2 {
			return cat[a].SizeMM2 < cat[b].SizeMM2
		}
		return cat[a].AmpacityAir < cat[b].AmpacityAir
	})
	return cat, errs
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseCatalogRow(res resolver, row []string) (catalog.Entry, error) {
	var e catalog.Entry
	var err error

	if e.SizeMM2, err = res.float(row, 0, "size_mm2", "size"); err != nil {
		return e, err
	}
	if e.Cores, err = res.int(row, 0, "cores", "no_of_cores"); err != nil {
		return e, err
	}
	if e.AmpacityAir, err = res.float(row, 0, "ampacity_air", "air", "current_rating_of_the_cable"); err != nil {
		return e, err
	}
	if e.AmpacityGround, err = res.float(row, 0, "ampacity_ground", "ground"); err != nil {
		return e, err
	}
	if e.Ampacity, err = res.float(row, 0, "ampacity"); err != nil {
		return e, err
	}
	resKM, err := res.floatPtr(row, "resistance_90deg_ohm_per_km", "resistance_90deg_ohmperkm", "resistance_ohm_per_km", "resistance")
	if err != nil {
		return e, err
	}
	if resKM != nil {
		e.ResistancePerM = *resKM / 1000.0
	}
	reactKM, err := res.floatPtr(row, "reactance_ohm_per_km", "reactance")
	if err != nil {
		return e, err
	}
	if reactKM != nil {
		x := *reactKM / 1000.0
		e.ReactancePerM = &x
	}
	if e.CableDiaMM, err = res.float(row, 0, "cable_dia_mm", "cable_dia"); err != nil {
		return e, err
	}
	if e.GroupingK2, err = res.float(row, 0, "grouping_k2"); err != nil {
		return e, err
	}
	if e.Pairs, err = res.int(row, 0, "pairs", "no_of_pairs"); err != nil {
		return e, err
	}
	if e.MaxParallel, err = res.int(row, 0, "paralleled", "paralleled_count", "parallels"); err != nil {
		return e, err
	}
	e.ConductorMaterial = res.cell(row, "conductor_material", "material")
	xlpe := res.cell(row, "xlpe")
	e.Insulation = res.cell(row, "insulation")
	if e.Insulation == "" {
		e.Insulation = xlpe
	}
	e.Sheath = res.cell(row, "sheath", "armour")
	e.Formation = res.cell(row, "formation")
	return e, nil
}
