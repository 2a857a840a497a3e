package graph

import (
	"github.com/matzehuels/antroute/pkg/geom"
)

// Obstacles block straight movement between nodes.
type Obstacles struct {
	Walls   []geom.Segment
	Circles []geom.Circle
}

// Empty reports whether there is nothing to avoid.
func (o Obstacles) Empty() bool { return len(o.Walls) == 0 && len(o.Circles) == 0 }

// Blocks reports whether the segment s crosses a wall or cuts a circle.
// Segments touching a wall at an endpoint or grazing a circle are free.
func (o Obstacles) Blocks(s geom.Segment) bool {
	for _, w := range o.Walls {
		if geom.SegmentsIntersect(s, w) {
			return true
		}
	}
	for _, c := range o.Circles {
		if geom.SegmentCrossesCircle(s, c) {
			return true
		}
	}
	return false
}

// ConnectVisible adds an edge between every pair of nodes not already joined
// whose connecting segment is not blocked by obs. When maxDist is positive,
// only pairs closer than maxDist are considered. It returns the number of
// edges added.
func (g *Graph) ConnectVisible(obs Obstacles, maxDist float64) int {
	added := 0
	for i, a := range g.order {
		pa := g.nodes[a].Point()
		for _, b := range g.order[i+1:] {
			if _, ok := g.edges[key(a, b)]; ok {
				continue
			}
			pb := g.nodes[b].Point()
			d := geom.Dist(pa, pb)
			if maxDist > 0 && d >= maxDist {
				continue
			}
			if obs.Blocks(geom.Segment{P: pa, Q: pb}) {
				continue
			}
			if err := g.AddEdge(Edge{From: a, To: b, Weight: d}); err == nil {
				added++
			}
		}
	}
	return added
}
