package importer

import "github.com/xuri/excelize/v2"

const sheet = "Sheet1"

// CatalogTemplate builds the XLSX skeleton for catalog uploads, headers
// plus two example rows.
func CatalogTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"size_mm2", "ampacity", "cores", "ampacity_air", "ampacity_ground", "resistance_ohm_per_km", "reactance_ohm_per_km", "cable_dia_mm", "xlpe", "pairs", "paralleled_count", "conductor_material", "insulation", "sheath", "formation"},
		{10, 55, 3, 55, 60, 1.83, 0.08, 20, "XLPE", nil, nil, "Cu", "XLPE", "PVC", "3C"},
		{16, 70, 3, 70, 75, 1.15, 0.07, 22, "XLPE", nil, nil, "Cu", "XLPE", "PVC", "3C"},
	}
	if err := writeRows(f, rows); err != nil {
		return nil, err
	}
	return f, nil
}

// CableTemplate builds the XLSX skeleton for load-list imports.
func CableTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"cable_number", "description", "load_kw", "load_kva", "voltage", "pf", "efficiency",
			"length", "cable_type", "from_equipment", "to_equipment", "breaker_type",
			"feeder_type", "quantity", "voltage_variation", "power_supply", "installation",
			"prospective_sc", "phase_type", "ambient_temp"},
		{"C-001", "Sample Motor", 55, 60, 415, 0.9, 0.95, 120, "C", "E1", "E2", "MCC", "FDR", 1, nil, "3ph", "tray", nil, "three", 30},
	}
	if err := writeRows(f, rows); err != nil {
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
