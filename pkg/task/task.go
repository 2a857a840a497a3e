// Package task loads path-finding tasks from TOML, YAML or JSON files.
//
// A task names the nodes of the plane, the start and end node, optional
// obstacles and optional solver parameters:
//
//	name = "corridor"
//	start = "s"
//	end = "t"
//
//	[[nodes]]
//	id = "s"
//	x = 0.0
//	y = 0.0
//
//	[[walls]]
//	x1 = 1.0
//	y1 = -1.0
//	x2 = 1.0
//	y2 = 1.0
//
//	[params]
//	alpha = 1.0
//	iters = 50
//
// When the task lists no edges, [Task.Build] joins every pair of nodes that
// can see each other past the obstacles.
package task

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/geom"
	"github.com/matzehuels/antroute/pkg/graph"
)

// Format is a task file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a format name or file extension (with or without the
// leading dot) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported task format %q (want toml, yaml or json)", s)
}

// Task is a decoded task file.
type Task struct {
	Name    string   `toml:"name" yaml:"name" json:"name"`
	Start   string   `toml:"start" yaml:"start" json:"start"`
	End     string   `toml:"end" yaml:"end" json:"end"`
	MaxDist float64  `toml:"max_dist" yaml:"max_dist" json:"max_dist"`
	Nodes   []Node   `toml:"nodes" yaml:"nodes" json:"nodes"`
	Edges   []Edge   `toml:"edges" yaml:"edges" json:"edges"`
	Walls   []Wall   `toml:"walls" yaml:"walls" json:"walls"`
	Circles []Circle `toml:"circles" yaml:"circles" json:"circles"`
	Params  *Params  `toml:"params" yaml:"params" json:"params"`
}

// Node is a named point.
type Node struct {
	ID string  `toml:"id" yaml:"id" json:"id"`
	X  float64 `toml:"x" yaml:"x" json:"x"`
	Y  float64 `toml:"y" yaml:"y" json:"y"`
}

// Edge joins two nodes. A zero weight means the Euclidean distance.
type Edge struct {
	From   string  `toml:"from" yaml:"from" json:"from"`
	To     string  `toml:"to" yaml:"to" json:"to"`
	Weight float64 `toml:"weight" yaml:"weight" json:"weight"`
}

// Wall is a straight obstacle from (X1, Y1) to (X2, Y2).
type Wall struct {
	X1 float64 `toml:"x1" yaml:"x1" json:"x1"`
	Y1 float64 `toml:"y1" yaml:"y1" json:"y1"`
	X2 float64 `toml:"x2" yaml:"x2" json:"x2"`
	Y2 float64 `toml:"y2" yaml:"y2" json:"y2"`
}

// Segment returns the wall as a segment.
func (w Wall) Segment() geom.Segment {
	return geom.Segment{P: geom.Point{X: w.X1, Y: w.Y1}, Q: geom.Point{X: w.X2, Y: w.Y2}}
}

// Circle is a round obstacle of radius R.
type Circle struct {
	X float64 `toml:"x" yaml:"x" json:"x"`
	Y float64 `toml:"y" yaml:"y" json:"y"`
	R float64 `toml:"r" yaml:"r" json:"r"`
}

// Params holds solver parameters set by the task. Nil fields are unset.
type Params struct {
	Alpha    *float64 `toml:"alpha" yaml:"alpha" json:"alpha,omitempty"`
	Beta     *float64 `toml:"beta" yaml:"beta" json:"beta,omitempty"`
	Gamma    *float64 `toml:"gamma" yaml:"gamma" json:"gamma,omitempty"`
	Phi      *float64 `toml:"phi" yaml:"phi" json:"phi,omitempty"`
	Decay    *float64 `toml:"decay" yaml:"decay" json:"decay,omitempty"`
	AntPower *float64 `toml:"ant_power" yaml:"ant_power" json:"ant_power,omitempty"`
	AntNum   *int     `toml:"ant_num" yaml:"ant_num" json:"ant_num,omitempty"`
	Iters    *int     `toml:"iters" yaml:"iters" json:"iters,omitempty"`
	Seed     *uint64  `toml:"seed" yaml:"seed" json:"seed,omitempty"`
	MaxSteps *int     `toml:"max_steps" yaml:"max_steps" json:"max_steps,omitempty"`
	Elitist  *float64 `toml:"elitist" yaml:"elitist" json:"elitist,omitempty"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads, decodes and validates the task at path. The format follows
// the file extension.
func Load(path string) (*Task, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "task file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read task %s", path)
	}
	t, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Decode reads a task in the given format. Unknown keys are rejected.
// The result is not validated.
func Decode(r io.Reader, format Format) (*Task, error) {
	var t Task
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&t)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTask, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidTask, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidTask, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTask, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported task format %q", format)
	}
	return &t, nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks node references and obstacle shapes.
func (t *Task) Validate() error {
	if len(t.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidTask, "task has no nodes")
	}
	ids := make(map[string]bool, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidTask, "node %d has no id", i+1)
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidTask, "duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}

	switch {
	case t.Start == "":
		return errors.New(errors.ErrCodeInvalidTask, "start node is not set")
	case t.End == "":
		return errors.New(errors.ErrCodeInvalidTask, "end node is not set")
	case !ids[t.Start]:
		return errors.New(errors.ErrCodeInvalidTask, "unknown start node %q", t.Start)
	case !ids[t.End]:
		return errors.New(errors.ErrCodeInvalidTask, "unknown end node %q", t.End)
	case t.MaxDist < 0:
		return errors.New(errors.ErrCodeInvalidTask, "max_dist must not be negative, got %v", t.MaxDist)
	}

	for i, e := range t.Edges {
		if !ids[e.From] || !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidTask, "edge %d references unknown node (%q-%q)", i+1, e.From, e.To)
		}
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidTask, "edge %d is a self loop on %q", i+1, e.From)
		}
		if e.Weight < 0 {
			return errors.New(errors.ErrCodeInvalidTask, "edge %d has negative weight %v", i+1, e.Weight)
		}
	}
	for i, w := range t.Walls {
		if _, err := w.Segment().Line(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTask, err, "wall %d", i+1)
		}
	}
	for i, c := range t.Circles {
		if !(c.R > 0) {
			return errors.New(errors.ErrCodeInvalidTask, "circle %d must have a positive radius, got %v", i+1, c.R)
		}
	}
	return nil
}

// =============================================================================
// Graph construction
// =============================================================================

// Obstacles returns the walls and circles of the task.
func (t *Task) Obstacles() graph.Obstacles {
	var obs graph.Obstacles
	for _, w := range t.Walls {
		obs.Walls = append(obs.Walls, w.Segment())
	}
	for _, c := range t.Circles {
		obs.Circles = append(obs.Circles, geom.Circle{X: c.X, Y: c.Y, R2: c.R * c.R})
	}
	return obs
}

// Build creates the graph with every edge starting at pheromone level phi.
// Listed edges are used as given; without any, nodes are joined by
// visibility.
func (t *Task) Build(phi float64) (*graph.Graph, error) {
	g := graph.New(phi)
	for _, n := range t.Nodes {
		if err := g.AddNode(graph.Node{ID: n.ID, X: n.X, Y: n.Y}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTask, err, "node %q", n.ID)
		}
	}
	if len(t.Edges) == 0 {
		g.ConnectVisible(t.Obstacles(), t.MaxDist)
		return g, nil
	}
	for _, e := range t.Edges {
		if err := g.AddEdge(graph.Edge{From: e.From, To: e.To, Weight: e.Weight}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTask, err, "edge %s-%s", e.From, e.To)
		}
	}
	return g, nil
}
