// Package plane draws a pheromone graph in its own coordinate plane as a
// raster image.
//
// Walls and circles are drawn in grey, edges shade from light to dark with
// their pheromone level, and the best path is overlaid in red with the
// start node in green and the end node in blue. The plane's Y axis points
// up; the image is flipped accordingly.
package plane

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/antroute/pkg/graph"
)

// Options configures plane rendering.
type Options struct {
	// Size is the length of the longer image side in pixels.
	Size int
	// Margin is the blank border in pixels.
	Margin int
	// BestPath is overlaid when it has at least two nodes.
	BestPath []string
	// Labels draws node IDs next to the nodes.
	Labels bool
}

// DefaultOptions returns an 800 pixel image with labels.
func DefaultOptions() Options {
	return Options{Size: 800, Margin: 40, Labels: true}
}

var (
	obstacleColor = color.RGBA{160, 160, 160, 255}
	pathColor     = color.RGBA{214, 39, 40, 255}
	startColor    = color.RGBA{44, 160, 44, 255}
	endColor      = color.RGBA{31, 119, 180, 255}
)

// transform maps plane coordinates to pixels.
type transform struct {
	minX, maxY float64
	scale      float64
	margin     float64
}

func (t transform) pt(x, y float64) (float64, float64) {
	return t.margin + (x-t.minX)*t.scale, t.margin + (t.maxY-y)*t.scale
}

// Render draws g and obs into a new image.
func Render(g *graph.Graph, obs graph.Obstacles, opts Options) (image.Image, error) {
	dc, err := draw(g, obs, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders g and obs and encodes the result as PNG.
func WritePNG(w io.Writer, g *graph.Graph, obs graph.Obstacles, opts Options) error {
	dc, err := draw(g, obs, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG renders g and obs into the PNG file at path.
func SavePNG(path string, g *graph.Graph, obs graph.Obstacles, opts Options) error {
	dc, err := draw(g, obs, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func draw(g *graph.Graph, obs graph.Obstacles, opts Options) (*gg.Context, error) {
	if g.NodeCount() == 0 {
		return nil, fmt.Errorf("nothing to draw: graph has no nodes")
	}
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Margin < 0 || 2*opts.Margin >= opts.Size {
		return nil, fmt.Errorf("margin %d does not fit image size %d", opts.Margin, opts.Size)
	}

	minX, minY, maxX, maxY := bounds(g, obs)
	w, h := maxX-minX, maxY-minY
	span := math.Max(math.Max(w, h), 1e-9)
	inner := float64(opts.Size - 2*opts.Margin)
	tr := transform{minX: minX, maxY: maxY, scale: inner / span, margin: float64(opts.Margin)}

	width := opts.Size
	height := opts.Size
	if w > h {
		height = int(math.Ceil(h*tr.scale)) + 2*opts.Margin
	} else {
		width = int(math.Ceil(w*tr.scale)) + 2*opts.Margin
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	drawObstacles(dc, tr, obs)
	drawEdges(dc, tr, g)
	drawPath(dc, tr, g, opts.BestPath)
	drawNodes(dc, tr, g, opts)
	return dc, nil
}

func bounds(g *graph.Graph, obs graph.Obstacles) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, n := range g.Nodes() {
		grow(n.X, n.Y)
	}
	for _, s := range obs.Walls {
		grow(s.P.X, s.P.Y)
		grow(s.Q.X, s.Q.Y)
	}
	for _, c := range obs.Circles {
		r := c.Radius()
		grow(c.X-r, c.Y-r)
		grow(c.X+r, c.Y+r)
	}
	return minX, minY, maxX, maxY
}

func drawObstacles(dc *gg.Context, tr transform, obs graph.Obstacles) {
	dc.SetColor(obstacleColor)
	for _, c := range obs.Circles {
		x, y := tr.pt(c.X, c.Y)
		dc.DrawCircle(x, y, c.Radius()*tr.scale)
		dc.Fill()
	}
	dc.SetLineWidth(4)
	for _, s := range obs.Walls {
		x1, y1 := tr.pt(s.P.X, s.P.Y)
		x2, y2 := tr.pt(s.Q.X, s.Q.Y)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
}

func drawEdges(dc *gg.Context, tr transform, g *graph.Graph) {
	lo, hi := g.PheromoneRange()
	for _, e := range g.Edges() {
		a, _ := g.Node(e.From)
		b, _ := g.Node(e.To)
		level := 0.0
		if hi > lo {
			level = (e.Pheromone - lo) / (hi - lo)
		}
		grey := uint8(220 - 190*level)
		dc.SetColor(color.RGBA{grey, grey, grey, 255})
		dc.SetLineWidth(1 + 3*level)
		x1, y1 := tr.pt(a.X, a.Y)
		x2, y2 := tr.pt(b.X, b.Y)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
}

func drawPath(dc *gg.Context, tr transform, g *graph.Graph, path []string) {
	if len(path) < 2 {
		return
	}
	dc.SetColor(pathColor)
	dc.SetLineWidth(4)
	for i, id := range path {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		x, y := tr.pt(n.X, n.Y)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()
}

func drawNodes(dc *gg.Context, tr transform, g *graph.Graph, opts Options) {
	var start, end string
	if len(opts.BestPath) > 0 {
		start, end = opts.BestPath[0], opts.BestPath[len(opts.BestPath)-1]
	}
	for _, n := range g.Nodes() {
		x, y := tr.pt(n.X, n.Y)
		r := 4.0
		switch n.ID {
		case start:
			dc.SetColor(startColor)
			r = 7
		case end:
			dc.SetColor(endColor)
			r = 7
		default:
			dc.SetColor(color.Black)
		}
		dc.DrawCircle(x, y, r)
		dc.Fill()
		if opts.Labels {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(n.ID, x+r+2, y-r-2, 0, 0)
		}
	}
}
