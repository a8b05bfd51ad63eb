// Package routing finds cable paths through a facility tray network:
// plain shortest path, or least-fill where congested trays are penalised.
package routing

import (
	"container/heap"
	"fmt"
	"sort"
)

// Tray carries the occupancy data of one tray node. Equipment nodes have no
// tray record.
type Tray struct {
	FillPct  float64
	Capacity float64
}

type edge struct {
	to     string
	weight float64
}

// Network is an undirected weighted graph of trays and equipment.
type Network struct {
	adj   map[string][]edge
	trays map[string]Tray
}

func NewNetwork() *Network {
	return &Network{adj: map[string][]edge{}, trays: map[string]Tray{}}
}

func (n *Network) AddNode(name string) {
	if _, ok := n.adj[name]; !ok {
		n.adj[name] = nil
	}
}

func (n *Network) AddEdge(a, b string, weight float64) {
	n.AddNode(a)
	n.AddNode(b)
	n.adj[a] = append(n.adj[a], edge{to: b, weight: weight})
	n.adj[b] = append(n.adj[b], edge{to: a, weight: weight})
}

func (n *Network) SetTray(name string, t Tray) {
	n.AddNode(name)
	n.trays[name] = t
}

// Tray returns the occupancy record for a node, if it is a tray.
func (n *Network) Tray(name string) (Tray, bool) {
	t, ok := n.trays[name]
	return t, ok
}

// Trays lists all tray nodes sorted by name.
func (n *Network) Trays() []string {
	names := make([]string, 0, len(n.trays))
	for name := range n.trays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Nodes lists every node sorted by name.
func (n *Network) Nodes() []string {
	names := make([]string, 0, len(n.adj))
	for name := range n.adj {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edge is one undirected connection, reported once per pair.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Edges lists each undirected edge once, ordered for stable output.
func (n *Network) Edges() []Edge {
	var out []Edge
	for _, from := range n.Nodes() {
		for _, e := range n.adj[from] {
			if from < e.to {
				out = append(out, Edge{Source: from, Target: e.to, Weight: e.weight})
			}
		}
	}
	return out
}

// ShortestPath runs Dijkstra over the base edge weights.
func (n *Network) ShortestPath(source, target string) ([]string, float64, error) {
	return n.dijkstra(source, target, func(w float64, _, _ string) float64 { return w })
}

// LeastFillPath penalises edges touching congested trays: each percent of
// average fill across the edge's endpoints adds 0.2 length units.
func (n *Network) LeastFillPath(source, target string) ([]string, float64, error) {
	return n.dijkstra(source, target, func(w float64, a, b string) float64 {
		fill := (n.trays[a].FillPct + n.trays[b].FillPct) / 2.0
		return w + fill*0.2
	})
}

type queueItem struct {
	node string
	dist float64
}

type queue []queueItem

func (q queue) Len() int            { return len(q) }
func (q queue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *queue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

func (n *Network) dijkstra(source, target string, weight func(base float64, a, b string) float64) ([]string, float64, error) {
	if _, ok := n.adj[source]; !ok {
		return nil, 0, fmt.Errorf("unknown node %q", source)
	}
	if _, ok := n.adj[target]; !ok {
		return nil, 0, fmt.Errorf("unknown node %q", target)
	}

	dist := map[string]float64{source: 0}
	prev := map[string]string{}
	done := map[string]bool{}

	q := &queue{{node: source, dist: 0}}
	for q.Len() > 0 {
		it := heap.Pop(q).(queueItem)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		if it.node == target {
			break
		}
		for _, e := range n.adj[it.node] {
			d := it.dist + weight(e.weight, it.node, e.to)
			if cur, seen := dist[e.to]; !seen || d < cur {
				dist[e.to] = d
				prev[e.to] = it.node
				heap.Push(q, queueItem{node: e.to, dist: d})
			}
		}
	}

	if !done[target] {
		return nil, 0, fmt.Errorf("no path from %q to %q", source, target)
	}

	var path []string
	for at := target; ; at = prev[at] {
		path = append(path, at)
		if at == source {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[target], nil
}

// SampleNetwork is the built-in demo facility used when no network has
// been configured.
func SampleNetwork() *Network {
	n := NewNetwork()
	connections := []struct {
		a, b string
		d    float64
	}{
		{"Transformer", "PHF-01", 10},
		{"PHF-01", "PHF-02", 5},
		{"PHF-02", "PHF-03", 8},
		{"PHF-03", "DB-01", 6},
		{"DB-01", "Panel A", 12},
		{"DB-01", "Panel B", 15},
		{"PHF-02", "PHF-04", 7},
		{"PHF-04", "DB-02", 9},
		{"DB-02", "Motor M1", 10},
		{"DB-02", "Motor M2", 11},
	}
	for _, c := range connections {
		n.AddEdge(c.a, c.b, c.d)
	}
	n.SetTray("PHF-01", Tray{FillPct: 45, Capacity: 1000})
	n.SetTray("PHF-02", Tray{FillPct: 60, Capacity: 1000})
	n.SetTray("PHF-03", Tray{FillPct: 70, Capacity: 1000})
	n.SetTray("PHF-04", Tray{FillPct: 30, Capacity: 1000})
	n.SetTray("DB-01", Tray{FillPct: 55, Capacity: 800})
	n.SetTray("DB-02", Tray{FillPct: 65, Capacity: 800})
	return n
}
