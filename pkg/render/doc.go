// Package render groups the visual outputs of antroute.
//
// # Overview
//
// Two renderers draw a pheromone graph after (or before) a run:
//
//   - Node-link diagrams (in [nodelink] subpackage) through Graphviz, as
//     DOT source or SVG
//   - Plane views (in [plane] subpackage) as PNG rasters drawn at the
//     nodes' own coordinates together with walls and circles
//
// Both highlight the best path found and scale edge strokes with the
// pheromone level.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{BestPath: best})
//	svg, err := nodelink.RenderSVG(dot)
//	err = plane.SavePNG("run.png", g, obstacles, plane.DefaultOptions())
//
// [nodelink]: github.com/matzehuels/antroute/pkg/render/nodelink
// [plane]: github.com/matzehuels/antroute/pkg/render/plane
package render
