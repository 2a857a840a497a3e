package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/solver"
)

// graphOptions holds the flags of the graph command.
type graphOptions struct {
	phi     float64
	noCache bool
	dot     string
	svg     string
	png     string
	json    string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOptions{phi: solver.Defaults().Phi}

	cmd := &cobra.Command{
		Use:   "graph TASK",
		Short: "Build a task's graph without solving it",
		Long: `Build the graph of TASK and print its size and degree statistics.

Tasks without an edge list are joined by visibility: every pair of nodes
whose connecting segment crosses no wall or circle becomes an edge. The
graph can be written as node-link JSON or rendered as DOT, SVG or PNG.`,
		Example: `  # Inspect the visibility graph of a maze
  antroute graph maze.toml --png maze.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTaskFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runGraph(ctx, cmd, args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.phi, "phi", "p", opts.phi, "initial pheromone level of every edge")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the visibility graph cache")
	f.StringVar(&opts.dot, "dot", "", "write the graph as Graphviz DOT")
	f.StringVar(&opts.svg, "svg", "", "render the graph as SVG")
	f.StringVar(&opts.png, "png", "", "render the graph in the plane as PNG")
	f.StringVar(&opts.json, "json", "", "write the graph as node-link JSON")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, taskPath string, opts *graphOptions) error {
	out := cmd.OutOrStdout()

	if !(opts.phi > 0) {
		return errors.New(errors.ErrCodeInvalidParams, "phi must be positive, got %v", opts.phi)
	}
	t, err := loadTask(ctx, taskPath)
	if err != nil {
		return err
	}
	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	g, cached, err := buildGraph(ctx, t, opts.phi, store)
	if err != nil {
		return err
	}

	printSuccess(out, "Built graph of %s", taskName(t, taskPath))
	printStats(out, g.NodeCount(), g.EdgeCount(), cached)

	minDeg, maxDeg := -1, 0
	for _, n := range g.Nodes() {
		d := g.Degree(n.ID)
		if minDeg < 0 || d < minDeg {
			minDeg = d
		}
		maxDeg = max(maxDeg, d)
	}
	printKeyValue(out, "degree", fmt.Sprintf("%d..%d", max(minDeg, 0), maxDeg))
	printKeyValue(out, "start", t.Start+" ("+strconv.Itoa(g.Degree(t.Start))+" edges)")
	printKeyValue(out, "end", t.End+" ("+strconv.Itoa(g.Degree(t.End))+" edges)")
	if !g.Reachable(t.Start, t.End) {
		printWarning(out, "%s is not reachable from %s", t.End, t.Start)
	}

	if opts.json != "" {
		if err := g.WriteJSONFile(opts.json); err != nil {
			return err
		}
		printFile(out, opts.json)
	}
	return writeRenderings(out, g, t, nil, opts.dot, opts.svg, opts.png)
}
