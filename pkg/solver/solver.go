// Package solver runs the ant colony over a task graph for a fixed number of
// iterations and collects the results.
//
// A [Runner] wires the pieces together: it builds the prototype [ant.Ant],
// the [aco.Colony] and the optional elitist daemon, then loops
//
//	GenerateSolutions -> record -> UpdatePheromone -> DaemonActions
//
// reporting every finished ant and every iteration to a [Sink]. The context
// is checked between iterations, so a cancelled run stops after the
// iteration in progress.
package solver

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/antroute/pkg/aco"
	"github.com/matzehuels/antroute/pkg/ant"
	"github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/graph"
	"github.com/matzehuels/antroute/pkg/observability"
)

// IterationStats summarises one iteration.
type IterationStats struct {
	Iteration int     `json:"iteration"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
	Stalled   int     `json:"stalled"`
}

// Result is the outcome of a run.
type Result struct {
	RunID      string           `json:"run_id"`
	Start      string           `json:"start"`
	End        string           `json:"end"`
	Seed       uint64           `json:"seed"`
	Best       float64          `json:"best"`
	Worst      float64          `json:"worst"`
	Average    float64          `json:"average"`
	BestPath   []string         `json:"best_path"`
	Iterations []IterationStats `json:"iterations"`
	Stalled    int              `json:"stalled"`
	Duration   time.Duration    `json:"duration"`
}

// Sink receives results while the run progresses.
type Sink interface {
	// Ant records the cycle-free path of one ant that reached its destination.
	Ant(iter, idx int, path []string, length float64) error
	// Iteration records the statistics of one finished iteration.
	Iteration(s IterationStats) error
}

type nopSink struct{}

func (nopSink) Ant(int, int, []string, float64) error { return nil }
func (nopSink) Iteration(IterationStats) error         { return nil }

// Runner executes solver runs.
type Runner struct {
	// Logger receives per-iteration progress at debug level and the run
	// summary at info level. Nil discards everything.
	Logger *log.Logger
	// Hooks receives run events. Nil uses the globally registered hooks.
	Hooks observability.SolverHooks
}

// Run solves the shortest path from start to end on g. The graph's
// pheromone levels are updated in place. sink may be nil.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, start, end string, p Params, sink Sink) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hooks := r.Hooks
	if hooks == nil {
		hooks = observability.Solver()
	}
	if sink == nil {
		sink = nopSink{}
	}

	proto, err := ant.New(g, start, end, p.AntParams())
	if err != nil {
		return nil, err
	}
	// Without a path no ant could ever arrive, and without a step budget
	// they would never stop walking.
	if !g.Reachable(start, end) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not reachable from %s", end, start)
	}
	elite := ant.NewElitist(g, p.AntPower, p.Elitist)
	colony, err := aco.New(g, p.Decay,
		aco.WithDaemon(elite.Act),
		aco.WithMaxSteps(p.MaxSteps),
		aco.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	colony.SetProto(proto)
	if err := colony.MakeAnts(p.AntNum); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Start:      start,
		End:        end,
		Seed:       p.Seed,
		Iterations: make([]IterationStats, 0, p.Iters),
	}
	began := time.Now()
	hooks.OnRunStart(ctx, res.RunID, p.AntNum, p.Iters)
	logger.Debug("run started", "run", res.RunID, "ants", p.AntNum, "iters", p.Iters)

	err = r.iterate(ctx, colony, elite, p, sink, hooks, logger, res)

	res.BestPath, res.Best = elite.Best()
	if len(res.Iterations) > 0 {
		sum := 0.0
		for _, it := range res.Iterations {
			sum += it.Mean
		}
		res.Average = sum / float64(len(res.Iterations))
	}
	res.Duration = time.Since(began)
	hooks.OnRunComplete(ctx, res.RunID, res.Best, res.Duration, err)
	if err != nil {
		return res, err
	}

	logger.Info("run complete", "best", res.Best, "worst", res.Worst, "iters", len(res.Iterations), "elapsed", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (r *Runner) iterate(ctx context.Context, colony *aco.Colony, elite *ant.Elitist, p Params, sink Sink, hooks observability.SolverHooks, logger *log.Logger, res *Result) error {
	for i := 1; i <= p.Iters; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0 := time.Now()

		stats, err := colony.GenerateSolutions()
		for _, st := range stats.Stalled {
			hooks.OnAntStalled(ctx, res.RunID, i, st)
		}
		res.Stalled += len(stats.Stalled)
		if err != nil {
			return err
		}

		for idx, a := range colony.Ants() {
			if !stats.Finished(idx) {
				continue
			}
			path := a.(*ant.Ant).Path()
			elite.Offer(path, a.PathLen())
			if err := sink.Ant(i, idx+1, path, a.PathLen()); err != nil {
				return err
			}
		}

		it := IterationStats{
			Iteration: i,
			Min:       stats.Min,
			Max:       stats.Max,
			Mean:      stats.Mean,
			Stalled:   len(stats.Stalled),
		}
		if it.Max > res.Worst {
			res.Worst = it.Max
		}
		res.Iterations = append(res.Iterations, it)
		if err := sink.Iteration(it); err != nil {
			return err
		}

		colony.UpdatePheromone()
		colony.DaemonActions()

		d := time.Since(t0)
		hooks.OnIterationComplete(ctx, res.RunID, i, it.Min, it.Mean, it.Stalled, d)
		logger.Debug("iteration", "n", i, "min", it.Min, "max", it.Max, "mean", it.Mean)
	}
	return nil
}
