package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/antroute/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// BestPath is highlighted when it has at least two nodes.
	BestPath []string
	// Positioned pins every node at its plane coordinates and lays the
	// diagram out with neato. When false, dot chooses the positions.
	Positioned bool
	// Weights labels every edge with its weight.
	Weights bool
}

const (
	minPen = 1.0
	maxPen = 6.0
	// pointsPerUnit maps one plane unit to DOT points when positioned.
	pointsPerUnit = 72.0
)

// ToDOT converts a graph to Graphviz DOT format. Edge pen widths grow with
// the edge's pheromone level. The resulting DOT string can be rendered
// using [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Positioned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=line;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	best := pathEdges(opts.BestPath)
	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", n.ID)}
		if opts.Positioned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(n.X*pointsPerUnit), fmtNum(n.Y*pointsPerUnit)))
		}
		if len(opts.BestPath) > 0 && (n.ID == opts.BestPath[0] || n.ID == opts.BestPath[len(opts.BestPath)-1]) {
			attrs = append(attrs, "fillcolor=\"#ffd479\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	lo, hi := g.PheromoneRange()
	for _, e := range g.Edges() {
		attrs := []string{"penwidth=" + fmtNum(penWidth(e.Pheromone, lo, hi))}
		if best[[2]string{e.From, e.To}] {
			attrs = append(attrs, "color=\"#d62728\"")
		}
		if opts.Weights {
			attrs = append(attrs, fmt.Sprintf("label=%q", fmtNum(e.Weight)))
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pathEdges returns the edges of path with both orientations.
func pathEdges(path []string) map[[2]string]bool {
	out := make(map[[2]string]bool, 2*len(path))
	for i := 1; i < len(path); i++ {
		out[[2]string{path[i-1], path[i]}] = true
		out[[2]string{path[i], path[i-1]}] = true
	}
	return out
}

func penWidth(tau, lo, hi float64) float64 {
	if hi <= lo {
		return minPen
	}
	return minPen + (maxPen-minPen)*(tau-lo)/(hi-lo)
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
