// Package project manages project records and the sizing results attached
// to them, including the approval workflow that overwrites a stored
// result's status field.
package project

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sceap/internal/calc/sizing"
	"sceap/internal/repo"
)

type Handler struct {
	Repo repo.Repository
	Log  *slog.Logger
}

type setupRequest struct {
	ProjectName      string    `json:"project_name"`
	PlantType        string    `json:"plant_type"`
	Standard         string    `json:"standard"`
	VoltageLevels    []float64 `json:"voltage_levels"`
	ServiceCondition string    `json:"service_condition"`
}

func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.ProjectName == "" {
		http.Error(w, "Project name required", http.StatusBadRequest)
		return
	}

	p := repo.Project{
		ProjectID:        "PROJ-" + uuid.NewString(),
		Name:             req.ProjectName,
		PlantType:        req.PlantType,
		Standard:         req.Standard,
		VoltageLevels:    req.VoltageLevels,
		ServiceCondition: req.ServiceCondition,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.Repo.CreateProject(r.Context(), p); err != nil {
		h.Log.Error("create project", "project", p.ProjectID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"project_id": p.ProjectID,
		"created_at": p.CreatedAt.Format(time.RFC3339),
		"status":     "initialized",
		"project":    p,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Repo.ListProjects(r.Context())
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []repo.Project{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

// SaveBulk stores a batch of sizing results under a project.
func (h *Handler) SaveBulk(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id required", http.StatusBadRequest)
		return
	}
	var results []sizing.Result
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	saved := 0
	for _, res := range results {
		payload, err := json.Marshal(res)
		if err != nil {
			h.Log.Error("encode result", "cable", res.CableNumber, "err", err)
			continue
		}
		if err := h.Repo.SaveResult(r.Context(), projectID, res.ID, res.CableNumber, payload); err != nil {
			h.Log.Error("save result", "cable", res.CableNumber, "err", err)
			continue
		}
		saved++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"saved": saved})
}

func (h *Handler) Cables(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["project_id"]
	results, err := h.Repo.ListResults(r.Context(), projectID)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []json.RawMessage{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Approve flips the stored approval status of one result.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, cableID := vars["project_id"], vars["cable_id"]
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "approved"
	}

	if err := h.Repo.SetResultStatus(r.Context(), projectID, cableID, status); err != nil {
		h.Log.Error("set result status", "project", projectID, "cable", cableID, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status, "cable_id": cableID})
}

// Upsert creates or replaces one stored result. The URL names the cable;
// the body may omit it but must not contradict it.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, cableNumber := vars["project_id"], vars["cable_number"]
	var res sizing.Result
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if res.CableNumber != "" && res.CableNumber != cableNumber {
		http.Error(w, "Cable number in body does not match URL", http.StatusBadRequest)
		return
	}
	res.CableNumber = cableNumber
	if res.ID == "" {
		res.ID = cableNumber
	}
	payload, err := json.Marshal(res)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Repo.UpsertResult(r.Context(), projectID, res.ID, res.CableNumber, payload)
	if err != nil {
		h.Log.Error("upsert result", "project", projectID, "cable", res.CableNumber, "err", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	key := "updated"
	if created {
		key = "created"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{key: res.CableNumber})
}
