package sizing

// Input is one load to size a cable for. Optional engineering fields are
// pointers so that "not stated" is distinguishable from zero; a zero
// voltage or power factor is a deliberate degenerate input, not an error.
type Input struct {
	CableNumber      string   `json:"cable_number" validate:"required"`
	Description      string   `json:"description"`
	LoadKW           float64  `json:"load_kw" validate:"gte=0"`
	LoadKVA          float64  `json:"load_kva" validate:"gte=0"`
	Voltage          float64  `json:"voltage" validate:"gte=0"`
	PF               float64  `json:"pf" validate:"gte=0,lte=1"`
	Efficiency       float64  `json:"efficiency" validate:"gte=0,lte=1"`
	LengthM          float64  `json:"length" validate:"gte=0"`
	Runs             int      `json:"runs" validate:"gte=0"`
	CableType        string   `json:"cable_type"`
	FromEquipment    string   `json:"from_equipment"`
	ToEquipment      string   `json:"to_equipment"`
	BreakerType      string   `json:"breaker_type,omitempty"`
	FeederType       string   `json:"feeder_type,omitempty"`
	Cores            int      `json:"cores,omitempty"`
	Quantity         int      `json:"quantity,omitempty"`
	VoltageVariation *float64 `json:"voltage_variation,omitempty"`
	PowerSupply      string   `json:"power_supply,omitempty"`
	Installation     string   `json:"installation,omitempty"`
	ProspectiveSC    *float64 `json:"prospective_sc,omitempty"`
	PhaseType        string   `json:"phase_type,omitempty"`
	AmbientTemp      *float64 `json:"ambient_temp,omitempty"`
}

// Result carries every intermediate and final diagnostic of one sizing
// evaluation. It is created once per evaluation and not mutated afterwards;
// only Status may later be overwritten by the approval workflow. Ampacity
// diagnostics are pointers: a nil value means the figure could not be
// resolved, which by itself forces Accepted to false.
type Result struct {
	ID                string            `json:"id"`
	CableNumber       string            `json:"cable_number"`
	Description       string            `json:"description"`
	FLC               float64           `json:"flc"`
	DeratedCurrent    float64           `json:"derated_current"`
	SelectedSizeMM2   float64           `json:"selected_size"`
	VoltageDropPct    float64           `json:"voltage_drop"`
	SCCheck           bool              `json:"sc_check"`
	GroupingFactor    float64           `json:"grouping_factor"`
	TempFactor        float64           `json:"temp_factor"`
	Status            string            `json:"status"`
	Cores             int               `json:"cores"`
	ODMM              float64           `json:"od"`
	BreakerType       string            `json:"breaker_type,omitempty"`
	FeederType        string            `json:"feeder_type,omitempty"`
	Quantity          int               `json:"quantity,omitempty"`
	AmpacityBase      *float64          `json:"ampacity_base,omitempty"`
	AmpacityCorrected *float64          `json:"ampacity_corrected,omitempty"`
	AmpacityMargin    *float64          `json:"ampacity_margin,omitempty"`
	AmpacityMarginPct *float64          `json:"ampacity_margin_pct,omitempty"`
	AmpacitySource    string            `json:"ampacity_source,omitempty"`
	VDLimit           float64           `json:"vd_limit"`
	VDPass            bool              `json:"vd_pass"`
	Accepted          bool              `json:"accepted"`
	ResistancePerM    float64           `json:"resistance_per_m,omitempty"`
	ReactancePerM     *float64          `json:"reactance_per_m,omitempty"`
	ProspectiveSC     *float64          `json:"prospective_sc,omitempty"`
	Standard          string            `json:"standard"`
	StandardRef       string            `json:"standard_ref"`
	RecommendedCores  int               `json:"recommended_cores,omitempty"`
	RecommendedRuns   int               `json:"recommended_runs,omitempty"`
	Configuration     string            `json:"configuration"`
	Formulas          map[string]string `json:"formulas"`
}

// BatchOutcome is the result of evaluating a load list: one Result per
// well-formed input in order, plus one message per rejected row. A bad row
// never aborts the rest of the batch.
type BatchOutcome struct {
	Results []Result `json:"results"`
	Errors  []string `json:"errors,omitempty"`
}
