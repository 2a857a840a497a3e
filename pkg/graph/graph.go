package graph

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/antroute/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the two nodes are
	// already joined, in either direction.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNegativeWeight is returned by [Graph.AddEdge] for a negative weight.
	ErrNegativeWeight = errors.New("edge weight must not be negative")

	// ErrNoEdge is returned by path queries when two consecutive nodes are
	// not adjacent.
	ErrNoEdge = errors.New("nodes are not adjacent")
)

// Node is a named point in the plane.
type Node struct {
	ID string
	X  float64
	Y  float64
}

// Point returns the node position.
func (n Node) Point() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// Edge is an undirected connection between two nodes.
type Edge struct {
	From string
	To   string
	// Weight is the traversal cost. Zero means the Euclidean distance
	// between the endpoints.
	Weight float64
	// Pheromone is the current level. It is ignored by AddEdge, which starts
	// every edge at the graph's base level.
	Pheromone float64
}

// Graph is an undirected planar graph with per-edge pheromone levels.
type Graph struct {
	phi   float64
	nodes map[string]*Node
	order []string            // insertion order
	adj   map[string][]string // nodeID -> neighbour IDs, insertion order
	edges map[edgeKey]*Edge
}

type edgeKey struct{ a, b string }

func key(u, v string) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// New creates an empty graph whose edges start at pheromone level phi.
func New(phi float64) *Graph {
	return &Graph{
		phi:   phi,
		nodes: make(map[string]*Node),
		adj:   make(map[string][]string),
		edges: make(map[edgeKey]*Edge),
	}
}

// Phi returns the base pheromone level.
func (g *Graph) Phi() float64 { return g.phi }

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge joins two existing nodes. A zero weight is replaced by the
// Euclidean distance between the endpoints. The pheromone level starts at
// the graph's base level.
func (g *Graph) AddEdge(e Edge) error {
	from, ok := g.nodes[e.From]
	if !ok {
		return ErrUnknownSourceNode
	}
	to, ok := g.nodes[e.To]
	if !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if e.Weight < 0 {
		return ErrNegativeWeight
	}
	k := key(e.From, e.To)
	if _, ok := g.edges[k]; ok {
		return ErrDuplicateEdge
	}
	if e.Weight == 0 {
		e.Weight = geom.Dist(from.Point(), to.Point())
	}
	e.Pheromone = g.phi
	g.edges[k] = &e
	g.adj[e.From] = append(g.adj[e.From], e.To)
	g.adj[e.To] = append(g.adj[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns copies of all edges, sorted by (From, To) with From < To.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for k, e := range g.edges {
		c := *e
		c.From, c.To = k.a, k.b
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		return cmp.Or(strings.Compare(a.From, b.From), strings.Compare(a.To, b.To))
	})
	return out
}

// Edge returns the edge joining u and v, in either direction.
func (g *Graph) Edge(u, v string) (Edge, bool) {
	e, ok := g.edges[key(u, v)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Neighbors returns the nodes adjacent to id in the order their edges were
// added. The slice is owned by the graph and must not be modified.
func (g *Graph) Neighbors(id string) []string { return g.adj[id] }

// Degree returns the number of edges at id.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Weight returns the traversal cost of the edge u–v, or 0 if there is none.
func (g *Graph) Weight(u, v string) float64 {
	if e, ok := g.edges[key(u, v)]; ok {
		return e.Weight
	}
	return 0
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// PathLength sums the weights along path. It returns ErrNoEdge if two
// consecutive nodes are not adjacent.
func (g *Graph) PathLength(path []string) (float64, error) {
	total := 0.0
	for i := 1; i < len(path); i++ {
		e, ok := g.edges[key(path[i-1], path[i])]
		if !ok {
			return 0, ErrNoEdge
		}
		total += e.Weight
	}
	return total, nil
}

// Reachable reports whether a path of edges leads from u to v.
func (g *Graph) Reachable(u, v string) bool {
	if _, ok := g.nodes[u]; !ok {
		return false
	}
	if u == v {
		return true
	}
	seen := map[string]bool{u: true}
	queue := []string{u}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adj[cur] {
			if n == v {
				return true
			}
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
