package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"sceap/internal/calc/electrical"
	"sceap/internal/calc/sizing"
	"sceap/internal/catalog"
	"sceap/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Store           *catalog.Store
	Log             *slog.Logger
	DefaultStandard string
}

type cableImportResponse struct {
	Success        bool            `json:"success"`
	CablesImported int             `json:"cables_imported"`
	Errors         []string        `json:"errors"`
	Results        []sizing.Result `json:"results"`
	Inputs         []sizing.Input  `json:"inputs,omitempty"`
}

// CableImport accepts a load-list workbook, sizes every well-formed row and
// reports per-row errors alongside the results.
func (h *Handler) CableImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	cables, errs := ParseCables(file)
	std := electrical.ParseStandard(firstNonEmpty(r.URL.Query().Get("standard"), h.DefaultStandard))

	var cat catalog.Catalog
	if name := r.URL.Query().Get("catalog_name"); name != "" {
		cat, err = h.Store.Get(r.Context(), name)
		if err != nil {
			h.Log.Warn("catalog unavailable, using default table", "catalog", name, "err", err)
			cat = nil
		}
	}

	out := sizing.EvaluateBatch(cables, cat, std)
	errs = append(errs, out.Errors...)
	metrics.ImportRowsTotal.WithLabelValues("cable", "ok").Add(float64(len(out.Results)))
	metrics.ImportRowsTotal.WithLabelValues("cable", "error").Add(float64(len(errs)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cableImportResponse{
		Success:        len(errs) == 0,
		CablesImported: len(out.Results),
		Errors:         errs,
		Results:        out.Results,
		Inputs:         cables,
	})
}

// CatalogUpload stores an uploaded catalog workbook under a name,
// generated from the upload time when not supplied.
func (h *Handler) CatalogUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	cat, errs := ParseCatalog(file)
	w.Header().Set("Content-Type", "application/json")
	if len(errs) > 0 {
		metrics.ImportRowsTotal.WithLabelValues("catalog", "error").Add(float64(len(errs)))
		json.NewEncoder(w).Encode(map[string]any{
			"success":           false,
			"errors":            errs,
			"template_download": "/api/v1/catalog/template",
		})
		return
	}

	name := firstNonEmpty(r.URL.Query().Get("name"), r.FormValue("name"))
	if name == "" {
		name = fmt.Sprintf("catalog-%s", time.Now().UTC().Format("20060102150405"))
	}
	if err := h.Store.Put(r.Context(), name, cat); err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	metrics.ImportRowsTotal.WithLabelValues("catalog", "ok").Add(float64(len(cat)))
	json.NewEncoder(w).Encode(map[string]any{"success": true, "name": name})
}

func (h *Handler) CatalogList(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.Names(r.Context())
	if err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"catalogs": names})
}

func (h *Handler) CatalogGet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cat, err := h.Store.Get(r.Context(), name)
	if err != nil {
		http.Error(w, "Catalog not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"name": name, "catalog": cat})
}

func (h *Handler) CatalogTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := CatalogTemplate()
	if err != nil {
		http.Error(w, "Template generation error", http.StatusInternalServerError)
		return
	}
	serveWorkbook(w, f, "catalog-template.xlsx")
}

func (h *Handler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	f, err := CableTemplate()
	if err != nil {
		http.Error(w, "Template generation error", http.StatusInternalServerError)
		return
	}
	serveWorkbook(w, f, "import-template.xlsx")
}

func serveWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		http.Error(w, "Template generation error", http.StatusInternalServerError)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
