package ant

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/antroute/pkg/aco"
	acoerrors "github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/geom"
	"github.com/matzehuels/antroute/pkg/graph"
)

// ErrDeadEnd is returned by [Ant.PickEdge] when the current node has no
// neighbours.
var ErrDeadEnd = errors.New("node has no neighbours")

// headingBias keeps the angle term positive for edges pointing straight away
// from the destination.
const headingBias = 1e-6

// Params weights the terms of the attractiveness formula.
type Params struct {
	Alpha float64 // pheromone exponent
	Beta  float64 // inverse-weight exponent
	Gamma float64 // heading exponent
	Q     float64 // deposit numerator, Q / path length
	Seed  uint64
}

// Validate checks the exponents are non-negative and Q is positive.
func (p Params) Validate() error {
	switch {
	case p.Alpha < 0:
		return acoerrors.New(acoerrors.ErrCodeInvalidParams, "alpha must not be negative, got %v", p.Alpha)
	case p.Beta < 0:
		return acoerrors.New(acoerrors.ErrCodeInvalidParams, "beta must not be negative, got %v", p.Beta)
	case p.Gamma < 0:
		return acoerrors.New(acoerrors.ErrCodeInvalidParams, "gamma must not be negative, got %v", p.Gamma)
	case !(p.Q > 0):
		return acoerrors.New(acoerrors.ErrCodeInvalidParams, "ant power must be positive, got %v", p.Q)
	}
	return nil
}

// Ant walks from a start node to an end node, recording its path.
type Ant struct {
	g      *graph.Graph
	start  string
	end    string
	target geom.Point
	params Params

	path    []string
	visited map[string]int // node -> visit count
	pathLen float64

	rng    *rand.Rand
	stream uint64
	clones uint64 // clones made from this ant so far
}

var _ aco.Ant = (*Ant)(nil)

// New creates an ant standing on start. Both nodes must exist in g.
func New(g *graph.Graph, start, end string, p Params) (*Ant, error) {
	if g == nil {
		return nil, acoerrors.New(acoerrors.ErrCodeInvalidInput, "ant needs a graph")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, ok := g.Node(start); !ok {
		return nil, acoerrors.New(acoerrors.ErrCodeInvalidInput, "unknown start node %q", start)
	}
	dst, ok := g.Node(end)
	if !ok {
		return nil, acoerrors.New(acoerrors.ErrCodeInvalidInput, "unknown end node %q", end)
	}
	a := &Ant{
		g:      g,
		start:  start,
		end:    end,
		target: dst.Point(),
		params: p,
	}
	a.seed(0)
	a.UnwindPath()
	return a, nil
}

func (a *Ant) seed(stream uint64) {
	a.stream = stream
	a.rng = rand.New(rand.NewPCG(a.params.Seed, stream))
}

// Pos returns the node the ant stands on.
func (a *Ant) Pos() string { return a.path[len(a.path)-1] }

// Start returns the node every path begins at.
func (a *Ant) Start() string { return a.start }

// End returns the destination node.
func (a *Ant) End() string { return a.end }

// Stream returns the index of the ant's random stream. The prototype uses
// stream 0; a clone's stream is derived from its parent's stream and the
// parent's clone count.
func (a *Ant) Stream() uint64 { return a.stream }

// PathLen returns the total weight of the current path.
func (a *Ant) PathLen() float64 { return a.pathLen }

// Path returns a copy of the nodes visited so far, starting with the start
// node.
func (a *Ant) Path() []string { return slices.Clone(a.path) }

// PickEdge moves the ant along one edge chosen by roulette selection.
func (a *Ant) PickEdge() error {
	pos := a.Pos()
	nbrs := a.g.Neighbors(pos)
	if len(nbrs) == 0 {
		return fmt.Errorf("%w: %s", ErrDeadEnd, pos)
	}

	cands := make([]string, 0, len(nbrs))
	for _, n := range nbrs {
		if a.visited[n] == 0 {
			cands = append(cands, n)
		}
	}
	if len(cands) == 0 {
		cands = append(cands, nbrs...)
	}

	here, _ := a.g.Node(pos)
	weights := make([]float64, len(cands))
	for i, n := range cands {
		weights[i] = a.attractiveness(here, n)
	}
	next := cands[roulette(a.rng, weights)]

	a.path = append(a.path, next)
	a.visited[next]++
	a.pathLen += a.g.Weight(pos, next)
	return nil
}

func (a *Ant) attractiveness(here graph.Node, next string) float64 {
	p := a.params
	tau := a.g.Pheromone(here.ID, next)
	w := math.Max(a.g.Weight(here.ID, next), geom.Epsilon)

	v := math.Pow(tau, p.Alpha) * math.Pow(1/w, p.Beta)
	if p.Gamma > 0 {
		n, _ := a.g.Node(next)
		from := here.Point()
		theta := geom.Deviation(geom.Heading(from, n.Point()), geom.Heading(from, a.target))
		v *= math.Pow((1+math.Cos(theta))/2+headingBias, p.Gamma)
	}
	return v
}

// roulette draws an index with probability proportional to its weight.
// When the weights carry no usable signal it draws uniformly.
func roulette(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return rng.IntN(len(weights))
	}
	r := rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// RemoveCycles drops every closed loop from the path. On revisiting a node
// the path is cut back to its earlier occurrence. The path length is
// recomputed afterwards.
func (a *Ant) RemoveCycles() {
	at := make(map[string]int, len(a.path))
	out := a.path[:0]
	for _, n := range a.path {
		if i, ok := at[n]; ok {
			for _, dropped := range out[i+1:] {
				delete(at, dropped)
			}
			out = out[:i+1]
			continue
		}
		at[n] = len(out)
		out = append(out, n)
	}
	a.path = out

	clear(a.visited)
	for _, n := range a.path {
		a.visited[n]++
	}
	// Every step of the path followed an existing edge.
	a.pathLen, _ = a.g.PathLength(a.path)
}

// DepositPheromone adds Q / PathLen to every edge of the path. An empty
// path deposits nothing.
func (a *Ant) DepositPheromone() {
	if len(a.path) < 2 || !(a.pathLen > 0) {
		return
	}
	// PickEdge only follows existing edges.
	_ = a.g.DepositPath(a.path, a.params.Q/a.pathLen)
}

// UnwindPath resets the ant to its start node with an empty path.
func (a *Ant) UnwindPath() {
	a.path = append(a.path[:0], a.start)
	if a.visited == nil {
		a.visited = make(map[string]int)
	}
	clear(a.visited)
	a.visited[a.start] = 1
	a.pathLen = 0
}

// Clone returns a copy sharing only the graph, which the colony owns. The
// clone gets a fresh random stream derived from a's stream and the number of
// clones a has made; only a's own clone count advances.
func (a *Ant) Clone() aco.Ant {
	a.clones++
	c := &Ant{
		g:       a.g,
		start:   a.start,
		end:     a.end,
		target:  a.target,
		params:  a.params,
		path:    slices.Clone(a.path),
		visited: maps.Clone(a.visited),
		pathLen: a.pathLen,
	}
	c.seed(childStream(a.stream, a.clones))
	return c
}

// childStream mixes a parent stream and a clone number with the SplitMix64
// finalizer so that the streams of different families do not line up.
func childStream(parent, n uint64) uint64 {
	z := parent + n*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
