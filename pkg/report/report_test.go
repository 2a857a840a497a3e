package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/antroute/pkg/solver"
)

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.Ant(1, 1, []string{"s", "t"}, 1))
	require.NoError(t, w.Iteration(solver.IterationStats{Iteration: 1, Min: 2, Max: 5, Mean: 3}))
	require.NoError(t, w.Iteration(solver.IterationStats{Iteration: 2, Min: 1.5, Max: 2.25, Mean: 1.875, Stalled: 1}))
	require.NoError(t, w.Flush())

	want := "iteration,min,max,mean,stalled\n" +
		"1,2,5,3,0\n" +
		"2,1.5,2.25,1.875,1\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVWriterEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())
	assert.Equal(t, "iteration,min,max,mean,stalled\n", buf.String())
}

func TestSeqWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewSeqWriter(&buf)
	require.NoError(t, w.Ant(1, 1, []string{"s", "a", "t"}, 2.5))
	require.NoError(t, w.Iteration(solver.IterationStats{Iteration: 1}))
	require.NoError(t, w.Ant(1, 2, []string{"s", "t"}, 4))
	assert.Empty(t, buf.String(), "buffered until flushed")
	require.NoError(t, w.Flush())

	assert.Equal(t, "1 1 2.5 s a t\n1 2 4 s t\n", buf.String())
}

type failingSink struct{ calls int }

func (f *failingSink) Ant(int, int, []string, float64) error {
	f.calls++
	return errors.New("ant failed")
}

func (f *failingSink) Iteration(solver.IterationStats) error {
	f.calls++
	return errors.New("iteration failed")
}

func TestMulti(t *testing.T) {
	var csvBuf, seqBuf bytes.Buffer
	c, s := NewCSVWriter(&csvBuf), NewSeqWriter(&seqBuf)
	m := Multi{c, s}
	require.NoError(t, m.Ant(1, 1, []string{"s", "t"}, 1))
	require.NoError(t, m.Iteration(solver.IterationStats{Iteration: 1, Min: 1, Max: 1, Mean: 1}))
	require.NoError(t, c.Flush())
	require.NoError(t, s.Flush())
	assert.Contains(t, csvBuf.String(), "1,1,1,1,0")
	assert.Equal(t, "1 1 1 s t\n", seqBuf.String())

	f, after := &failingSink{}, &failingSink{}
	m = Multi{f, after}
	assert.EqualError(t, m.Ant(1, 1, nil, 0), "ant failed")
	assert.EqualError(t, m.Iteration(solver.IterationStats{}), "iteration failed")
	assert.Equal(t, 2, f.calls)
	assert.Zero(t, after.calls)
}

func TestWriteResultJSON(t *testing.T) {
	res := &solver.Result{
		RunID:      "run-1",
		Start:      "s",
		End:        "t",
		Best:       2,
		Worst:      4,
		Average:    3,
		BestPath:   []string{"s", "a", "t"},
		Iterations: []solver.IterationStats{{Iteration: 1, Min: 2, Max: 4, Mean: 3}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResultJSON(&buf, res))

	var back solver.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *res, back)
	assert.Contains(t, buf.String(), `"best_path": [`)
}
