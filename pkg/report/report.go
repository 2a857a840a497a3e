// Package report writes solver results to files.
//
// Two line-oriented writers implement [solver.Sink]:
//
//   - [CSVWriter] writes the per-iteration statistics file, one row per
//     iteration under the header "iteration,min,max,mean,stalled".
//   - [SeqWriter] writes the path sequence file, one line per finished ant
//     and iteration: "iteration ant length node1 node2 ...".
//
// [Multi] fans a run out to several sinks. [WriteResultJSON] dumps the final
// [solver.Result].
package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/antroute/pkg/solver"
)

// CSVHeader is the first row of the statistics file.
var CSVHeader = []string{"iteration", "min", "max", "mean", "stalled"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// =============================================================================
// CSV statistics
// =============================================================================

// CSVWriter writes one row of statistics per iteration.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

var _ solver.Sink = (*CSVWriter)(nil)

// NewCSVWriter returns a writer on w. The header is written with the first
// row.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Ant is a no-op; the statistics file has no per-ant rows.
func (c *CSVWriter) Ant(int, int, []string, float64) error { return nil }

// Iteration writes one row.
func (c *CSVWriter) Iteration(s solver.IterationStats) error {
	if !c.wroteHeader {
		if err := c.w.Write(CSVHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		c.wroteHeader = true
	}
	row := []string{
		strconv.Itoa(s.Iteration),
		formatFloat(s.Min),
		formatFloat(s.Max),
		formatFloat(s.Mean),
		strconv.Itoa(s.Stalled),
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("write csv row %d: %w", s.Iteration, err)
	}
	return nil
}

// Flush writes buffered rows, including the header of an empty run.
func (c *CSVWriter) Flush() error {
	if !c.wroteHeader {
		if err := c.w.Write(CSVHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		c.wroteHeader = true
	}
	c.w.Flush()
	return c.w.Error()
}

// =============================================================================
// Path sequences
// =============================================================================

// SeqWriter writes one line per finished ant.
type SeqWriter struct {
	w *bufio.Writer
}

var _ solver.Sink = (*SeqWriter)(nil)

// NewSeqWriter returns a buffered writer on w.
func NewSeqWriter(w io.Writer) *SeqWriter {
	return &SeqWriter{w: bufio.NewWriter(w)}
}

// Ant writes "iteration ant length node1 node2 ...".
func (s *SeqWriter) Ant(iter, idx int, path []string, length float64) error {
	_, err := fmt.Fprintf(s.w, "%d %d %s %s\n", iter, idx, formatFloat(length), strings.Join(path, " "))
	return err
}

// Iteration is a no-op; the sequence file has no per-iteration lines.
func (s *SeqWriter) Iteration(solver.IterationStats) error { return nil }

// Flush writes buffered lines.
func (s *SeqWriter) Flush() error { return s.w.Flush() }

// =============================================================================
// Fan-out
// =============================================================================

// Multi forwards every event to each sink in order, stopping at the first
// error.
type Multi []solver.Sink

var _ solver.Sink = Multi(nil)

func (m Multi) Ant(iter, idx int, path []string, length float64) error {
	for _, s := range m {
		if err := s.Ant(iter, idx, path, length); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Iteration(it solver.IterationStats) error {
	for _, s := range m {
		if err := s.Iteration(it); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// JSON result
// =============================================================================

// WriteResultJSON writes res as indented JSON.
func WriteResultJSON(w io.Writer, res *solver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
