package aco

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/antroute/pkg/errors"
)

// =============================================================================
// Fakes
// =============================================================================

// recordingGraph keeps one pheromone level per edge name and logs calls.
type recordingGraph struct {
	levels map[string]float64
	calls  []string
}

func newRecordingGraph() *recordingGraph {
	return &recordingGraph{levels: map[string]float64{"a": 1, "b": 0.5, "c": 2}}
}

func (g *recordingGraph) Evaporate(rate float64) {
	g.calls = append(g.calls, "evaporate")
	for k, v := range g.levels {
		g.levels[k] = v * (1 - rate)
	}
}

// lineAnt walks a fixed number of steps and reports a fixed length.
type lineAnt struct {
	graph   *recordingGraph
	steps   int
	length  float64
	pos     int
	unwound int
	cleaned bool
	fail    error
}

func (a *lineAnt) Pos() string {
	if a.pos >= a.steps {
		return "end"
	}
	return string(rune('0' + a.pos))
}

func (a *lineAnt) End() string { return "end" }

func (a *lineAnt) PickEdge() error {
	if a.fail != nil {
		return a.fail
	}
	a.pos++
	return nil
}

func (a *lineAnt) RemoveCycles()    { a.cleaned = true }
func (a *lineAnt) PathLen() float64 { return a.length }

func (a *lineAnt) DepositPheromone() {
	if a.graph == nil {
		return
	}
	a.graph.calls = append(a.graph.calls, "deposit")
	a.graph.levels["a"] += 1 / a.length
}

func (a *lineAnt) UnwindPath() {
	a.pos = 0
	a.cleaned = false
	a.unwound++
}

func (a *lineAnt) Clone() Ant {
	c := *a
	return &c
}

func newColony(t *testing.T, g Graph, opts ...Option) *Colony {
	t.Helper()
	c, err := New(g, 0.1, opts...)
	require.NoError(t, err)
	return c
}

// =============================================================================
// Construction
// =============================================================================

func TestNewValidatesRate(t *testing.T) {
	for _, rate := range []float64{0, 1, -0.5, 1.5} {
		_, err := New(newRecordingGraph(), rate)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidParams), "rate %v", rate)
	}

	_, err := New(nil, 0.5)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = New(newRecordingGraph(), 0.5, WithMaxSteps(-1))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidParams))

	c, err := New(newRecordingGraph(), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0.25, c.Rate())
}

func TestMakeAntsWithoutPrototype(t *testing.T) {
	c := newColony(t, newRecordingGraph())

	err := c.MakeAnts(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingPrototype))

	c.SetProto(nil)
	err = c.MakeAnts(5)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingPrototype))
}

func TestMakeAntsClonesIndependently(t *testing.T) {
	c := newColony(t, newRecordingGraph())
	proto := &lineAnt{steps: 3, length: 1}
	c.SetProto(proto)

	require.NoError(t, c.MakeAnts(5))
	ants := c.Ants()
	require.Len(t, ants, 5)

	first := ants[0].(*lineAnt)
	require.NoError(t, first.PickEdge())
	assert.Equal(t, "1", first.Pos())
	for _, a := range ants[1:] {
		assert.Equal(t, "0", a.Pos(), "mutating one ant must not move its siblings")
	}
	assert.Equal(t, "0", proto.Pos(), "prototype must stay untouched")

	for i := range ants {
		for j := i + 1; j < len(ants); j++ {
			assert.NotSame(t, ants[i], ants[j])
		}
	}
}

func TestMakeAntsReplacesPool(t *testing.T) {
	c := newColony(t, newRecordingGraph())
	c.SetProto(&lineAnt{steps: 1, length: 1})

	require.NoError(t, c.MakeAnts(5))
	old := c.Ants()[0]
	require.NoError(t, c.MakeAnts(2))
	assert.Len(t, c.Ants(), 2)
	assert.NotSame(t, old, c.Ants()[0])

	require.NoError(t, c.MakeAnts(0))
	assert.Empty(t, c.Ants())

	assert.True(t, errors.Is(c.MakeAnts(-1), errors.ErrCodeInvalidParams))
}

// =============================================================================
// Cycle
// =============================================================================

func TestGenerateSolutionsStats(t *testing.T) {
	c := newColony(t, newRecordingGraph())
	c.ants = []Ant{
		&lineAnt{steps: 2, length: 2.0},
		&lineAnt{steps: 4, length: 5.0},
		&lineAnt{steps: 1, length: 2.0},
	}

	stats, err := c.GenerateSolutions()
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.Equal(t, 3.0, stats.Mean)
	assert.Equal(t, []float64{2, 5, 2}, stats.Lengths)
	assert.Empty(t, stats.Stalled)

	for _, a := range c.ants {
		la := a.(*lineAnt)
		assert.Equal(t, "end", la.Pos())
		assert.True(t, la.cleaned, "cycles must be removed before reading the length")
	}
}

func TestGenerateSolutionsEmptyPool(t *testing.T) {
	c := newColony(t, newRecordingGraph())
	_, err := c.GenerateSolutions()
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyColony))
}

func TestGenerateSolutionsStepBudget(t *testing.T) {
	c := newColony(t, newRecordingGraph(), WithMaxSteps(3))
	c.ants = []Ant{
		&lineAnt{steps: 2, length: 4},
		&lineAnt{steps: 10, length: 1},
		&lineAnt{steps: 3, length: 6},
	}

	stats, err := c.GenerateSolutions()
	require.NoError(t, err)
	require.Len(t, stats.Stalled, 1)
	assert.Equal(t, 1, stats.Stalled[0].Ant)
	assert.Equal(t, 3, stats.Stalled[0].Steps)
	assert.Nil(t, stats.Stalled[0].Cause)
	assert.False(t, stats.Finished(1))
	assert.True(t, stats.Finished(0))

	assert.Equal(t, 4.0, stats.Min)
	assert.Equal(t, 6.0, stats.Max)
	assert.Equal(t, 5.0, stats.Mean)
}

func TestGenerateSolutionsPickEdgeError(t *testing.T) {
	deadEnd := stderrors.New("dead end")
	var buf bytes.Buffer
	c := newColony(t, newRecordingGraph(), WithLogger(log.New(&buf)))
	c.ants = []Ant{
		&lineAnt{steps: 2, length: 3},
		&lineAnt{steps: 2, length: 1, fail: deadEnd},
	}

	stats, err := c.GenerateSolutions()
	require.NoError(t, err)
	require.Len(t, stats.Stalled, 1)
	assert.ErrorIs(t, stats.Stalled[0], deadEnd)
	assert.Contains(t, stats.Stalled[0].Error(), "dead end")
	assert.Equal(t, 3.0, stats.Mean)
	assert.Contains(t, buf.String(), "ant stalled")
}

func TestGenerateSolutionsAllStalled(t *testing.T) {
	c := newColony(t, newRecordingGraph(), WithMaxSteps(1))
	c.ants = []Ant{&lineAnt{steps: 5, length: 1}, &lineAnt{steps: 5, length: 1}}

	stats, err := c.GenerateSolutions()
	assert.True(t, errors.Is(err, errors.ErrCodePathStalled))
	assert.Len(t, stats.Stalled, 2)
}

func TestUpdatePheromoneWithoutAnts(t *testing.T) {
	g := newRecordingGraph()
	before := map[string]float64{}
	for k, v := range g.levels {
		before[k] = v
	}

	c := newColony(t, g)
	c.UpdatePheromone()

	for k, v := range g.levels {
		assert.InDelta(t, before[k]*(1-0.1), v, 1e-12, "edge %s", k)
		assert.Less(t, v, before[k])
	}
	assert.Equal(t, []string{"evaporate"}, g.calls)
}

func TestUpdatePheromoneEvaporatesBeforeDeposit(t *testing.T) {
	g := newRecordingGraph()
	c := newColony(t, g)
	c.SetProto(&lineAnt{graph: g, steps: 2, length: 4})
	require.NoError(t, c.MakeAnts(3))

	_, err := c.GenerateSolutions()
	require.NoError(t, err)
	c.UpdatePheromone()

	assert.Equal(t, []string{"evaporate", "deposit", "deposit", "deposit"}, g.calls)
	// 1·0.9 evaporated, then three deposits of 1/4 that are not attenuated.
	assert.InDelta(t, 0.9+0.75, g.levels["a"], 1e-12)

	for _, a := range c.Ants() {
		la := a.(*lineAnt)
		assert.Equal(t, 1, la.unwound)
		assert.Equal(t, "0", la.Pos())
	}
}

func TestUpdatePheromoneSkipsStalledAnts(t *testing.T) {
	g := newRecordingGraph()
	c := newColony(t, g, WithMaxSteps(2))
	c.ants = []Ant{
		&lineAnt{graph: g, steps: 1, length: 1},
		&lineAnt{graph: g, steps: 9, length: 1},
	}

	_, err := c.GenerateSolutions()
	require.NoError(t, err)
	c.UpdatePheromone()

	assert.Equal(t, []string{"evaporate", "deposit"}, g.calls)
	assert.Equal(t, 1, c.ants[1].(*lineAnt).unwound)
}

func TestDaemonActions(t *testing.T) {
	c := newColony(t, newRecordingGraph())
	c.DaemonActions() // no-op by default

	var seen int
	c = newColony(t, newRecordingGraph(), WithDaemon(func(ants []Ant) { seen = len(ants) }))
	c.SetProto(&lineAnt{steps: 1, length: 1})
	require.NoError(t, c.MakeAnts(4))
	c.DaemonActions()
	assert.Equal(t, 4, seen)
}

func TestStallErrorMessage(t *testing.T) {
	err := &StallError{Ant: 2, Steps: 100, Pos: "x"}
	assert.Equal(t, `ant 2 stalled at "x": step budget of 100 exhausted`, err.Error())
	assert.Nil(t, err.Unwrap())
}
