package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Snapshot - Node-link Serialization
// =============================================================================

// Snapshot is the JSON node-link form of a graph, including the current
// pheromone levels.
//
//	{
//	  "phi": 0.1,
//	  "nodes": [{"id": "s", "x": 0, "y": 0}, {"id": "t", "x": 3, "y": 4}],
//	  "edges": [{"from": "s", "to": "t", "weight": 5, "pheromone": 0.1}]
//	}
type Snapshot struct {
	Phi   float64        `json:"phi"`
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// SnapshotNode is a serialized [Node].
type SnapshotNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SnapshotEdge is a serialized [Edge].
type SnapshotEdge struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Weight    float64 `json:"weight"`
	Pheromone float64 `json:"pheromone,omitempty"`
}

// Snapshot captures the graph. Nodes keep insertion order; edges are sorted.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Phi:   g.phi,
		Nodes: make([]SnapshotNode, 0, len(g.order)),
		Edges: make([]SnapshotEdge, 0, len(g.edges)),
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, SnapshotNode{ID: n.ID, X: n.X, Y: n.Y})
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, SnapshotEdge{From: e.From, To: e.To, Weight: e.Weight, Pheromone: e.Pheromone})
	}
	return s
}

// FromSnapshot rebuilds a graph. Edges with a positive pheromone level keep
// it; the others start at phi.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New(s.Phi)
	for _, n := range s.Nodes {
		if err := g.AddNode(Node{ID: n.ID, X: n.X, Y: n.Y}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range s.Edges {
		if err := g.AddEdge(Edge{From: e.From, To: e.To, Weight: e.Weight}); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", e.From, e.To, err)
		}
		if e.Pheromone > 0 {
			g.edges[key(e.From, e.To)].Pheromone = e.Pheromone
		}
	}
	return g, nil
}

// WriteJSON writes the graph snapshot as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Snapshot()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteJSONFile writes the graph snapshot to path.
func (g *Graph) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return g.writeJSONAndClose(f, path)
}

// writeJSONAndClose writes the snapshot to wc and closes it. A close error
// is returned unless the write already failed.
func (g *Graph) writeJSONAndClose(wc io.WriteCloser, name string) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()
	return g.WriteJSON(wc)
}

// ReadJSON decodes a snapshot from r and rebuilds the graph.
func ReadJSON(r io.Reader) (*Graph, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromSnapshot(s)
}
