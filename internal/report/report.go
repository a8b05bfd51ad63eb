// Package report renders cable schedule PDFs from sizing results.
package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"

	"sceap/internal/calc/sizing"
)

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Results []sizing.Result `json:"results"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Cable Sizing Report"
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if len(input.Results) > 0 {
		writeTable(pdf, input.Results)
		pdf.Ln(8)
		writeFormulas(pdf, input.Results[0])
	}

	if input.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"cable_report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

var columns = []struct {
	title string
	width float64
}{
	{"Cable No.", 35},
	{"Configuration", 45},
	{"FLC (A)", 25},
	{"Derated (A)", 28},
	{"Vd (%)", 22},
	{"Vd Limit (%)", 28},
	{"SC", 15},
	{"Verdict", 25},
}

func writeTable(pdf *gofpdf.Fpdf, results []sizing.Result) {
	pdf.SetFont("Helvetica", "B", 9)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, res := range results {
		verdict := "REJECTED"
		sc := "FAIL"
		if res.Accepted {
			verdict = "ACCEPTED"
		}
		if res.SCCheck {
			sc = "OK"
		}
		cells := []string{
			res.CableNumber,
			res.Configuration,
			fmt.Sprintf("%.2f", res.FLC),
			fmt.Sprintf("%.2f", res.DeratedCurrent),
			fmt.Sprintf("%.2f", res.VoltageDropPct),
			fmt.Sprintf("%.1f", res.VDLimit),
			sc,
			verdict,
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeFormulas(pdf *gofpdf.Fpdf, res sizing.Result) {
	if len(res.Formulas) == 0 {
		return
	}
	keys := make([]string, 0, len(res.Formulas))
	for key := range res.Formulas {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Formulas")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, key := range keys {
		pdf.MultiCell(0, 5, fmt.Sprintf("%s: %s", key, res.Formulas[key]), "", "L", false)
	}
}
