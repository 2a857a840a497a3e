package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/antroute/pkg/graph"
	"github.com/matzehuels/antroute/pkg/observability"
	"github.com/matzehuels/antroute/pkg/render/nodelink"
	"github.com/matzehuels/antroute/pkg/render/plane"
	"github.com/matzehuels/antroute/pkg/report"
	"github.com/matzehuels/antroute/pkg/solver"
	"github.com/matzehuels/antroute/pkg/task"
)

// solveOptions holds the flags of the solve command.
type solveOptions struct {
	flags       solver.Params
	noCache     bool
	dot         string
	svg         string
	png         string
	json        string
	metricsFile string
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOptions{flags: solver.Defaults()}

	cmd := &cobra.Command{
		Use:   "solve TASK CSV SEQ",
		Short: "Search a short path through a task's graph",
		Long: `Run the ant colony solver on TASK from its start to its end node.

Per-iteration statistics (min, max, mean and stalled ants) are written to
CSV. Every path an ant completed is written to SEQ, one line per ant and
iteration: "iteration ant length node...".

Parameters come from the defaults, then from the task's [params] table,
then from flags given on the command line.`,
		Example: `  # Run 20 ants for 100 iterations
  antroute solve maze.toml stats.csv paths.seq -k 20 -i 100

  # Same run, reproducible, with a rendering of the final pheromone levels
  antroute solve maze.toml stats.csv paths.seq -k 20 -i 100 --seed 7 --png maze.png`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeTaskFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runSolve(ctx, cmd, args[0], args[1], args[2], &opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.flags.Alpha, "alpha", "a", opts.flags.Alpha, "pheromone exponent")
	f.Float64VarP(&opts.flags.Beta, "beta", "b", opts.flags.Beta, "inverse edge weight exponent")
	f.Float64VarP(&opts.flags.Gamma, "gamma", "g", opts.flags.Gamma, "heading exponent")
	f.Float64VarP(&opts.flags.Phi, "phi", "p", opts.flags.Phi, "initial pheromone level")
	f.Float64VarP(&opts.flags.Decay, "decay", "d", opts.flags.Decay, "pheromone evaporation rate per iteration, in (0, 1)")
	f.Float64VarP(&opts.flags.AntPower, "ant-power", "q", opts.flags.AntPower, "pheromone deposited per ant, divided by its path length")
	f.IntVarP(&opts.flags.AntNum, "ant-num", "k", opts.flags.AntNum, "number of ants")
	f.IntVarP(&opts.flags.Iters, "iters", "i", opts.flags.Iters, "number of iterations")
	f.Uint64Var(&opts.flags.Seed, "seed", 0, "random seed (default: random)")
	f.IntVar(&opts.flags.MaxSteps, "max-steps", 0, "steps an ant may take per iteration before it stalls (0: unbounded)")
	f.Float64Var(&opts.flags.Elitist, "elitist", 0, "extra deposit weight on the best path found so far (0: off)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the visibility graph cache")
	f.StringVar(&opts.dot, "dot", "", "write the final graph as Graphviz DOT")
	f.StringVar(&opts.svg, "svg", "", "render the final graph as SVG")
	f.StringVar(&opts.png, "png", "", "render the final graph in the plane as PNG")
	f.StringVar(&opts.json, "json", "", "write the run summary as JSON")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics of the run to a textfile")

	return cmd
}

// resolve merges defaults, task parameters and the flags changed on the
// command line, in increasing precedence. A seed set by neither is drawn
// at random.
func (o *solveOptions) resolve(changed func(name string) bool, tp *task.Params) solver.Params {
	p := solver.Defaults()
	p.Apply(tp)

	flags := map[string]func(){
		"alpha":     func() { p.Alpha = o.flags.Alpha },
		"beta":      func() { p.Beta = o.flags.Beta },
		"gamma":     func() { p.Gamma = o.flags.Gamma },
		"phi":       func() { p.Phi = o.flags.Phi },
		"decay":     func() { p.Decay = o.flags.Decay },
		"ant-power": func() { p.AntPower = o.flags.AntPower },
		"ant-num":   func() { p.AntNum = o.flags.AntNum },
		"iters":     func() { p.Iters = o.flags.Iters },
		"seed":      func() { p.Seed = o.flags.Seed },
		"max-steps": func() { p.MaxSteps = o.flags.MaxSteps },
		"elitist":   func() { p.Elitist = o.flags.Elitist },
	}
	for name, apply := range flags {
		if changed(name) {
			apply()
		}
	}

	if !changed("seed") && (tp == nil || tp.Seed == nil) {
		p.Seed = rand.Uint64()
	}
	return p
}

func (c *CLI) runSolve(ctx context.Context, cmd *cobra.Command, taskPath, csvPath, seqPath string, opts *solveOptions) error {
	out := cmd.OutOrStdout()

	t, err := loadTask(ctx, taskPath)
	if err != nil {
		return err
	}
	p := opts.resolve(cmd.Flags().Changed, t.Params)
	if err := p.Validate(); err != nil {
		return err
	}
	c.Logger.Debug("parameters", "alpha", p.Alpha, "beta", p.Beta, "gamma", p.Gamma, "phi", p.Phi,
		"decay", p.Decay, "ant_power", p.AntPower, "ants", p.AntNum, "iters", p.Iters, "seed", p.Seed)

	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	var metrics *observability.PrometheusHooks
	if opts.metricsFile != "" {
		metrics = observability.NewPrometheusHooks()
		observability.SetSolverHooks(metrics)
		observability.SetCacheHooks(metrics)
		defer observability.Reset()
	}

	g, cached, err := buildGraph(ctx, t, p.Phi, store)
	if err != nil {
		return err
	}
	printInfo(out, "Solving %s from %s to %s", taskName(t, taskPath), t.Start, t.End)
	printStats(out, g.NodeCount(), g.EdgeCount(), cached)

	res, err := c.solve(ctx, cmd.ErrOrStderr(), g, t, p, csvPath, seqPath)
	if err != nil {
		if res != nil && len(res.Iterations) > 0 {
			printWarning(out, "stopped after %d of %d iterations", len(res.Iterations), p.Iters)
		}
		return err
	}

	printSuccess(out, "Solved in %d iterations", len(res.Iterations))
	printResult(out, res)
	printFile(out, csvPath)
	printFile(out, seqPath)

	if err := writeSolveOutputs(out, g, t, res, opts); err != nil {
		return err
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		printFile(out, opts.metricsFile)
	}
	if opts.png == "" && opts.svg == "" {
		printNextStep(out, "Render the pheromone levels", fmt.Sprintf("%s solve %s %s %s --png route.png", appName, taskPath, csvPath, seqPath))
	}
	return nil
}

// solve runs the solver with the CSV and sequence files as sinks. Both
// files are flushed even when the run fails part way.
func (c *CLI) solve(ctx context.Context, status io.Writer, g *graph.Graph, t *task.Task, p solver.Params, csvPath, seqPath string) (res *solver.Result, err error) {
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}
	defer closeFile(csvFile, &err)
	seqFile, err := os.Create(seqPath)
	if err != nil {
		return nil, fmt.Errorf("create sequence file: %w", err)
	}
	defer closeFile(seqFile, &err)

	csvw := report.NewCSVWriter(csvFile)
	seqw := report.NewSeqWriter(seqFile)
	sink := report.Multi{csvw, seqw}

	var spin *Spinner
	if !c.verbose() {
		spin = newSpinnerWithContext(ctx, status, fmt.Sprintf("iteration 0/%d", p.Iters))
		spin.Start()
		sink = append(sink, &spinnerSink{spin: spin, iters: p.Iters})
	}

	runner := &solver.Runner{Logger: c.Logger}
	res, err = runner.Run(ctx, g, t.Start, t.End, p, sink)
	if spin != nil {
		switch {
		case spin.Cancelled():
			spin.StopWithError("interrupted")
		case err != nil:
			spin.StopWithError("run failed")
		default:
			spin.StopWithSuccess(fmt.Sprintf("%d iterations done", len(res.Iterations)))
		}
	}

	if ferr := csvw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("write csv file: %w", ferr)
	}
	if ferr := seqw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("write sequence file: %w", ferr)
	}
	return res, err
}

// spinnerSink shows the current iteration on the spinner.
type spinnerSink struct {
	spin  *Spinner
	iters int
}

func (s *spinnerSink) Ant(int, int, []string, float64) error { return nil }

func (s *spinnerSink) Iteration(it solver.IterationStats) error {
	s.spin.SetMessage(fmt.Sprintf("iteration %d/%d · best %s", it.Iteration, s.iters, formatLength(it.Min)))
	return nil
}

// writeSolveOutputs writes the optional renderings and the JSON summary.
func writeSolveOutputs(out io.Writer, g *graph.Graph, t *task.Task, res *solver.Result, opts *solveOptions) error {
	if opts.json != "" {
		if err := writeFile(opts.json, func(w io.Writer) error { return report.WriteResultJSON(w, res) }); err != nil {
			return err
		}
		printFile(out, opts.json)
	}
	return writeRenderings(out, g, t, res.BestPath, opts.dot, opts.svg, opts.png)
}

// writeRenderings writes the DOT, SVG and PNG views of g that have a path.
func writeRenderings(out io.Writer, g *graph.Graph, t *task.Task, best []string, dotPath, svgPath, pngPath string) error {
	if dotPath != "" || svgPath != "" {
		dot := nodelink.ToDOT(g, nodelink.Options{BestPath: best, Positioned: true})
		if dotPath != "" {
			if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
				return fmt.Errorf("write dot file: %w", err)
			}
			printFile(out, dotPath)
		}
		if svgPath != "" {
			svg, err := nodelink.RenderSVG(dot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
				return fmt.Errorf("write svg file: %w", err)
			}
			printFile(out, svgPath)
		}
	}
	if pngPath != "" {
		opts := plane.DefaultOptions()
		opts.BestPath = best
		if err := plane.SavePNG(pngPath, g, t.Obstacles(), opts); err != nil {
			return err
		}
		printFile(out, pngPath)
	}
	return nil
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer closeFile(f, &err)
	return write(f)
}

// closeFile closes f and reports its error through err unless err is
// already set.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", f.Name(), cerr)
	}
}

func taskName(t *task.Task, path string) string {
	if t.Name != "" {
		return t.Name
	}
	return path
}
