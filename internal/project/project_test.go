package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceap/internal/calc/sizing"
	"sceap/internal/repo"
)

type fakeRepo struct {
	projects []repo.Project
	results  map[string]map[string]json.RawMessage // project -> result id -> payload
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{results: map[string]map[string]json.RawMessage{}}
}

func (f *fakeRepo) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	return 1, nil
}

func (f *fakeRepo) GetByLogin(ctx context.Context, login string) (int, string, error) {
	return 0, "", fmt.Errorf("no such user")
}

func (f *fakeRepo) CreateProject(ctx context.Context, p repo.Project) error {
	f.projects = append(f.projects, p)
	return nil
}

func (f *fakeRepo) ListProjects(ctx context.Context) ([]repo.Project, error) {
	return f.projects, nil
}

func (f *fakeRepo) SaveResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) error {
	if f.results[projectID] == nil {
		f.results[projectID] = map[string]json.RawMessage{}
	}
	f.results[projectID][resultID] = payload
	return nil
}

func (f *fakeRepo) UpsertResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) (bool, error) {
	_, existed := f.results[projectID][resultID]
	return !existed, f.SaveResult(ctx, projectID, resultID, cableNumber, payload)
}

func (f *fakeRepo) ListResults(ctx context.Context, projectID string) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for _, p := range f.results[projectID] {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) SetResultStatus(ctx context.Context, projectID, resultID, status string) error {
	payload, ok := f.results[projectID][resultID]
	if !ok {
		return fmt.Errorf("result %q not found", resultID)
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return err
	}
	m["status"] = status
	updated, err := json.Marshal(m)
	if err != nil {
		return err
	}
	f.results[projectID][resultID] = updated
	return nil
}

func testProjectHandler() (*Handler, *fakeRepo) {
	fr := newFakeRepo()
	return &Handler{Repo: fr, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}, fr
}

func TestSetup(t *testing.T) {
	h, fr := testProjectHandler()
	body, _ := json.Marshal(map[string]any{
		"project_name":   "Refinery Unit 3",
		"plant_type":     "refinery",
		"standard":       "iec",
		"voltage_levels": []float64{415, 11000},
	})

	rec := httptest.NewRecorder()
	h.Setup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/project/setup", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		ProjectID string `json:"project_id"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Contains(t, out.ProjectID, "PROJ-")
	assert.Equal(t, "initialized", out.Status)
	require.Len(t, fr.projects, 1)
	assert.Equal(t, "Refinery Unit 3", fr.projects[0].Name)
}

func TestSetupRequiresName(t *testing.T) {
	h, _ := testProjectHandler()
	rec := httptest.NewRecorder()
	h.Setup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/project/setup", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveBulkAndCables(t *testing.T) {
	h, _ := testProjectHandler()
	results := []sizing.Result{
		{ID: "C-001", CableNumber: "C-001", Status: "pending"},
		{ID: "C-002", CableNumber: "C-002", Status: "pending"},
	}
	body, _ := json.Marshal(results)

	rec := httptest.NewRecorder()
	h.SaveBulk(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cable/save_bulk?project_id=PROJ-1", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var saved map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, 2, saved["saved"])

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/project/{project_id}/cables", h.Cables).Methods("GET")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/project/PROJ-1/cables", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored []sizing.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stored))
	assert.Len(t, stored, 2)
}

func TestSaveBulkRequiresProject(t *testing.T) {
	h, _ := testProjectHandler()
	rec := httptest.NewRecorder()
	h.SaveBulk(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cable/save_bulk", bytes.NewReader([]byte(`[]`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprove(t *testing.T) {
	h, fr := testProjectHandler()
	payload, _ := json.Marshal(sizing.Result{ID: "C-001", CableNumber: "C-001", Status: "pending"})
	require.NoError(t, fr.SaveResult(context.Background(), "PROJ-1", "C-001", "C-001", payload))

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/project/{project_id}/cable/{cable_id}/approve", h.Approve).Methods("POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/project/PROJ-1/cable/C-001/approve?status=rejected", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(fr.results["PROJ-1"]["C-001"], &m))
	assert.Equal(t, "rejected", m["status"])

	// default status is approved
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/project/PROJ-1/cable/C-001/approve", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(fr.results["PROJ-1"]["C-001"], &m))
	assert.Equal(t, "approved", m["status"])
}

func TestUpsert(t *testing.T) {
	h, _ := testProjectHandler()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/project/{project_id}/cable/{cable_number}", h.Upsert).Methods("PUT")

	body, _ := json.Marshal(sizing.Result{ID: "C-001", CableNumber: "C-001"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/project/PROJ-1/cable/C-001", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "C-001", out["created"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/project/PROJ-1/cable/C-001", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	out = map[string]string{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, "C-001", out["updated"])
}

func TestUpsertKeyedByURL(t *testing.T) {
	h, fr := testProjectHandler()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/project/{project_id}/cable/{cable_number}", h.Upsert).Methods("PUT")

	// body without a cable number stores under the URL's cable
	body, _ := json.Marshal(sizing.Result{Status: "pending"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/project/PROJ-1/cable/C-007", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, fr.results["PROJ-1"], "C-007")

	var stored sizing.Result
	require.NoError(t, json.Unmarshal(fr.results["PROJ-1"]["C-007"], &stored))
	assert.Equal(t, "C-007", stored.CableNumber)
	assert.Equal(t, "C-007", stored.ID)

	// body disagreeing with the URL is rejected, nothing written
	body, _ = json.Marshal(sizing.Result{ID: "C-099", CableNumber: "C-099"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/project/PROJ-1/cable/C-007", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, fr.results["PROJ-1"], "C-099")
}

func TestListProjects(t *testing.T) {
	h, fr := testProjectHandler()
	require.NoError(t, fr.CreateProject(context.Background(), repo.Project{ProjectID: "PROJ-1", Name: "One"}))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []repo.Project
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "One", projects[0].Name)
}
