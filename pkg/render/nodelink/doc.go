// Package nodelink renders pheromone graphs as node-link diagrams.
//
// # Overview
//
// This package produces undirected graph visualizations using Graphviz.
// Edge pen widths follow the pheromone level, so the trails the colony
// converged on stand out, and the best path found is drawn in red.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{BestPath: res.BestPath, Positioned: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - BestPath: Edges and end nodes to highlight
//   - Positioned: Pin nodes at their plane coordinates (neato layout)
//   - Weights: Label edges with their weight
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
