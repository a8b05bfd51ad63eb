package sizing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sceap/internal/calc/ampacity"
	"sceap/internal/calc/electrical"
	"sceap/internal/catalog"
	"sceap/internal/metrics"
)

type Handler struct {
	Catalogs        catalog.Provider
	Log             *slog.Logger
	DefaultStandard string
}

// fetchCatalog resolves the catalog named in the query. An empty name means
// "use the built-in default table"; a lookup failure degrades to the same,
// logged, so the engine always receives either a catalog or that signal.
func (h *Handler) fetchCatalog(r *http.Request) catalog.Catalog {
	name := r.URL.Query().Get("catalog_name")
	if name == "" {
		return nil
	}
	cat, err := h.Catalogs.Get(r.Context(), name)
	if err != nil {
		h.Log.Warn("catalog unavailable, using default table", "catalog", name, "err", err)
		return nil
	}
	return cat
}

func (h *Handler) standard(r *http.Request) electrical.Standard {
	s := r.URL.Query().Get("standard")
	if s == "" {
		s = h.DefaultStandard
	}
	return electrical.ParseStandard(s)
}

func (h *Handler) Single(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	std := h.standard(r)
	res := Evaluate(input, h.fetchCatalog(r), std)
	metrics.RecordEvaluation(string(std), res.Accepted)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var items []Input
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	std := h.standard(r)
	out := EvaluateBatch(items, h.fetchCatalog(r), std)
	for _, res := range out.Results {
		metrics.RecordEvaluation(string(std), res.Accepted)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Standards lists the supported sizing standards.
func (h *Handler) Standards(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]map[string]string{
		"IEC": {"standard_number": "IEC 60287", "title": "Calculation of continuous current rating"},
		"IS":  {"standard_number": "IS 1554", "title": "Cross-linked polyethylene insulated cables"},
	})
}

// Sizes lists the default size/rating table.
func (h *Handler) Sizes(w http.ResponseWriter, r *http.Request) {
	std := h.standard(r)
	type row struct {
		Amps float64 `json:"amps"`
		Size float64 `json:"size"`
	}
	rows := make([]row, 0)
	for _, rt := range ampacity.DefaultTable() {
		rows = append(rows, row{Amps: rt.Amps, Size: rt.SizeMM2})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"standard": string(std), "sizes": rows})
}
