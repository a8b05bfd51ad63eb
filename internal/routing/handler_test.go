package routing

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoutingHandler() *Handler {
	return &Handler{
		Network: SampleNetwork(),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func postRoute(t *testing.T, h http.HandlerFunc, body map[string]any) routeResult {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/routing/auto", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res routeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func TestAutoRoute(t *testing.T) {
	h := testRoutingHandler()
	res := postRoute(t, h.Auto, map[string]any{
		"cable_id": "C-001",
		"source":   "Transformer",
		"target":   "Panel A",
	})

	assert.Equal(t, "C-001", res.CableID)
	assert.Equal(t, []string{"Transformer", "PHF-01", "PHF-02", "PHF-03", "DB-01", "Panel A"}, res.Path)
	assert.Equal(t, 41.0, res.TotalLength)
	assert.Contains(t, res.FillStatus, "PHF-03")
	assert.Empty(t, res.Warnings, "no tray on the path is above 80%")
}

func TestAutoRouteEquipmentAliases(t *testing.T) {
	h := testRoutingHandler()
	res := postRoute(t, h.Auto, map[string]any{
		"from_equipment": "Transformer",
		"to_equipment":   "Panel A",
	})
	assert.Equal(t, "CABLE-NA", res.CableID)
	assert.Equal(t, 41.0, res.TotalLength)
}

func TestAutoRouteFallback(t *testing.T) {
	h := testRoutingHandler()
	res := postRoute(t, h.Auto, map[string]any{
		"source": "Transformer",
		"target": "Unmodelled Pump",
	})
	assert.Equal(t, []string{"Transformer", "Unmodelled Pump"}, res.Path)
	assert.Equal(t, 50.0, res.TotalLength)
}

func TestOptimizeLeastFill(t *testing.T) {
	h := testRoutingHandler()
	shortest := postRoute(t, h.Auto, map[string]any{
		"source": "Transformer", "target": "Motor M2",
	})
	optimized := postRoute(t, h.Optimize, map[string]any{
		"source": "Transformer", "target": "Motor M2", "algorithm": "least-fill",
	})
	assert.GreaterOrEqual(t, optimized.TotalLength, shortest.TotalLength)
}

func TestRouteWarnsOnCongestedTray(t *testing.T) {
	n := NewNetwork()
	n.AddEdge("A", "T1", 5)
	n.AddEdge("T1", "B", 5)
	n.SetTray("T1", Tray{FillPct: 92, Capacity: 500})
	h := &Handler{Network: n, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	res := postRoute(t, h.Auto, map[string]any{"source": "A", "target": "B"})
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "T1")
}

func TestTraysEndpoint(t *testing.T) {
	h := testRoutingHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/routing/trays", nil)
	rec := httptest.NewRecorder()
	h.Trays(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		TotalTrays  int     `json:"total_trays"`
		AverageFill float64 `json:"average_fill"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, 6, out.TotalTrays)
	assert.InDelta(t, 54.17, out.AverageFill, 0.01)
}

func TestGraphEndpoint(t *testing.T) {
	h := testRoutingHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/routing/graph", nil)
	rec := httptest.NewRecorder()
	h.Graph(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Nodes []struct {
			ID   string         `json:"id"`
			Meta map[string]any `json:"meta"`
		} `json:"nodes"`
		Edges []Edge `json:"edges"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Len(t, out.Nodes, 10)
	assert.Len(t, out.Edges, 10)
}
