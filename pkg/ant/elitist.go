package ant

import (
	"slices"

	"github.com/matzehuels/antroute/pkg/aco"
	"github.com/matzehuels/antroute/pkg/graph"
)

// Elitist remembers the shortest path offered so far and reinforces it once
// per cycle with weight · Q / length.
type Elitist struct {
	g       *graph.Graph
	q       float64
	weight  float64
	best    []string
	bestLen float64
}

// NewElitist creates an elitist daemon for g. A non-positive weight makes
// [Elitist.Act] a no-op.
func NewElitist(g *graph.Graph, q, weight float64) *Elitist {
	return &Elitist{g: g, q: q, weight: weight}
}

// Offer records path if it is shorter than the best so far and reports
// whether it was taken. Paths with fewer than two nodes, and paths that leave
// the graph's edges, are ignored.
func (e *Elitist) Offer(path []string, length float64) bool {
	if len(path) < 2 || !(length > 0) {
		return false
	}
	if _, err := e.g.PathLength(path); err != nil {
		return false
	}
	if e.best != nil && length >= e.bestLen {
		return false
	}
	e.best = slices.Clone(path)
	e.bestLen = length
	return true
}

// Best returns the best path so far and its length. The path is nil until
// a path has been offered.
func (e *Elitist) Best() ([]string, float64) {
	return slices.Clone(e.best), e.bestLen
}

// Act deposits along the best path. It matches [aco.DaemonFunc]; the ants
// are not consulted because they have already been unwound.
func (e *Elitist) Act(_ []aco.Ant) {
	if e.best == nil || !(e.weight > 0) {
		return
	}
	// Offer only keeps paths along existing edges.
	_ = e.g.DepositPath(e.best, e.weight*e.q/e.bestLen)
}
