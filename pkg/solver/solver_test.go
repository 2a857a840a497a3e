package solver

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/graph"
	"github.com/matzehuels/antroute/pkg/observability"
	"github.com/matzehuels/antroute/pkg/task"
)

// diamond has a short route s-a-t (2√2) and a long one s-b-t (2√10).
func diamond(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(0.1)
	for _, n := range []graph.Node{{ID: "s"}, {ID: "a", X: 1, Y: 1}, {ID: "b", X: 1, Y: -3}, {ID: "t", X: 2}} {
		require.NoError(t, g.AddNode(n))
	}
	for _, e := range [][2]string{{"s", "a"}, {"a", "t"}, {"s", "b"}, {"b", "t"}} {
		require.NoError(t, g.AddEdge(graph.Edge{From: e[0], To: e[1]}))
	}
	return g
}

type recordingSink struct {
	ants  []string
	iters []IterationStats
	fail  error
}

func (s *recordingSink) Ant(iter, idx int, path []string, length float64) error {
	s.ants = append(s.ants, fmt.Sprintf("%d/%d %v %.3f", iter, idx, path, length))
	return s.fail
}

func (s *recordingSink) Iteration(it IterationStats) error {
	s.iters = append(s.iters, it)
	return s.fail
}

type recordingHooks struct {
	observability.NoopSolverHooks
	started   int
	iters     int
	stalled   int
	completed int
	lastErr   error
}

func (h *recordingHooks) OnRunStart(context.Context, string, int, int) { h.started++ }
func (h *recordingHooks) OnIterationComplete(context.Context, string, int, float64, float64, int, time.Duration) {
	h.iters++
}
func (h *recordingHooks) OnAntStalled(context.Context, string, int, error) { h.stalled++ }
func (h *recordingHooks) OnRunComplete(_ context.Context, _ string, _ float64, _ time.Duration, err error) {
	h.completed++
	h.lastErr = err
}

func TestDefaultsAreValid(t *testing.T) {
	p := Defaults()
	require.NoError(t, p.Validate())
	assert.Equal(t, 1.0, p.Alpha)
	assert.Equal(t, 0.0, p.Gamma)
	assert.Equal(t, 0.1, p.Phi)
	assert.Equal(t, 0.01, p.Decay)
	assert.Equal(t, 1, p.AntNum)
	assert.Equal(t, 1, p.Iters)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative alpha", func(p *Params) { p.Alpha = -0.1 }},
		{"negative beta", func(p *Params) { p.Beta = -1 }},
		{"negative gamma", func(p *Params) { p.Gamma = -1 }},
		{"zero phi", func(p *Params) { p.Phi = 0 }},
		{"zero decay", func(p *Params) { p.Decay = 0 }},
		{"full decay", func(p *Params) { p.Decay = 1 }},
		{"zero ant power", func(p *Params) { p.AntPower = 0 }},
		{"no ants", func(p *Params) { p.AntNum = 0 }},
		{"no iterations", func(p *Params) { p.Iters = 0 }},
		{"negative max steps", func(p *Params) { p.MaxSteps = -1 }},
		{"negative elitist", func(p *Params) { p.Elitist = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidParams, errors.GetCode(err))
		})
	}
}

func TestApply(t *testing.T) {
	alpha, decay, iters, seed := 2.5, 0.2, 40, uint64(9)
	p := Defaults()
	p.Apply(&task.Params{Alpha: &alpha, Decay: &decay, Iters: &iters, Seed: &seed})
	assert.Equal(t, 2.5, p.Alpha)
	assert.Equal(t, 0.2, p.Decay)
	assert.Equal(t, 40, p.Iters)
	assert.Equal(t, uint64(9), p.Seed)
	assert.Equal(t, 1.0, p.Beta, "unset fields keep their value")

	before := p
	p.Apply(nil)
	assert.Equal(t, before, p)

	ap := p.AntParams()
	assert.Equal(t, 2.5, ap.Alpha)
	assert.Equal(t, p.AntPower, ap.Q)
	assert.Equal(t, uint64(9), ap.Seed)
}

func TestRun(t *testing.T) {
	g := diamond(t)
	p := Defaults()
	p.AntNum = 5
	p.Iters = 20
	p.Decay = 0.1
	p.Seed = 3
	p.Elitist = 1

	sink := &recordingSink{}
	hooks := &recordingHooks{}
	r := &Runner{Hooks: hooks}
	res, err := r.Run(context.Background(), g, "s", "t", p, sink)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "s", res.Start)
	assert.Equal(t, "t", res.End)
	assert.Equal(t, []string{"s", "a", "t"}, res.BestPath)
	assert.InDelta(t, 2*math.Sqrt2, res.Best, 1e-12)
	assert.GreaterOrEqual(t, res.Worst, res.Best)
	assert.LessOrEqual(t, res.Worst, 2*math.Sqrt(10)+1e-12)
	assert.GreaterOrEqual(t, res.Average, res.Best)
	assert.Zero(t, res.Stalled)
	require.Len(t, res.Iterations, 20)
	assert.Equal(t, 20, res.Iterations[19].Iteration)

	assert.Len(t, sink.ants, 100)
	assert.Len(t, sink.iters, 20)
	assert.Equal(t, res.Iterations, sink.iters)

	assert.Equal(t, 1, hooks.started)
	assert.Equal(t, 20, hooks.iters)
	assert.Equal(t, 1, hooks.completed)
	assert.NoError(t, hooks.lastErr)

	assert.Greater(t, g.Pheromone("s", "a"), g.Pheromone("s", "b"))
}

func TestRunReproducible(t *testing.T) {
	run := func() []string {
		p := Defaults()
		p.AntNum = 4
		p.Iters = 5
		p.Seed = 11
		sink := &recordingSink{}
		_, err := (&Runner{}).Run(context.Background(), diamond(t), "s", "t", p, sink)
		require.NoError(t, err)
		return sink.ants
	}
	assert.Equal(t, run(), run())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hooks := &recordingHooks{}
	res, err := (&Runner{Hooks: hooks}).Run(ctx, diamond(t), "s", "t", Defaults(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Iterations)
	assert.ErrorIs(t, hooks.lastErr, context.Canceled)
}

func TestRunAllStalled(t *testing.T) {
	p := Defaults()
	p.AntNum = 3
	p.MaxSteps = 1

	hooks := &recordingHooks{}
	res, err := (&Runner{Hooks: hooks}).Run(context.Background(), diamond(t), "s", "t", p, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePathStalled, errors.GetCode(err))
	assert.Equal(t, 3, res.Stalled)
	assert.Equal(t, 3, hooks.stalled)
	assert.Nil(t, res.BestPath)
}

func TestRunSinkError(t *testing.T) {
	sink := &recordingSink{fail: fmt.Errorf("disk full")}
	_, err := (&Runner{}).Run(context.Background(), diamond(t), "s", "t", Defaults(), sink)
	assert.EqualError(t, err, "disk full")
}

func TestRunErrors(t *testing.T) {
	bad := Defaults()
	bad.Iters = 0
	_, err := (&Runner{}).Run(context.Background(), diamond(t), "s", "t", bad, nil)
	assert.Equal(t, errors.ErrCodeInvalidParams, errors.GetCode(err))

	_, err = (&Runner{}).Run(context.Background(), diamond(t), "s", "nowhere", Defaults(), nil)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	g := diamond(t)
	require.NoError(t, g.AddNode(graph.Node{ID: "island", X: 9, Y: 9}))
	_, err = (&Runner{}).Run(context.Background(), g, "s", "island", Defaults(), nil)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "not reachable")
}
