package aco

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antroute/pkg/errors"
)

// =============================================================================
// Collaborator contracts
// =============================================================================

// Graph is the shared structure ants walk on.
type Graph interface {
	// Evaporate multiplies every pheromone level by (1 − rate). It must never
	// produce a negative level.
	Evaporate(rate float64)
}

// Ant constructs one path per cycle.
type Ant interface {
	// Pos is the node the ant currently stands on.
	Pos() string
	// End is the fixed destination node.
	End() string
	// PickEdge advances the ant along one edge.
	PickEdge() error
	// RemoveCycles collapses closed sub-loops of the path and adjusts the
	// path length accordingly.
	RemoveCycles()
	// PathLen is the total traversal cost of the current path.
	PathLen() float64
	// DepositPheromone reinforces the graph along the finished path.
	DepositPheromone()
	// UnwindPath clears path state so the ant can be reused.
	UnwindPath()
	// Clone returns an independent deep copy sharing no mutable state.
	Clone() Ant
}

// DaemonFunc is an optional per-cycle action run after pheromone update,
// such as elitist reinforcement or statistics logging.
type DaemonFunc func(ants []Ant)

// =============================================================================
// Colony
// =============================================================================

// Colony owns a pool of ants cloned from a prototype and drives them over a
// shared graph.
type Colony struct {
	graph    Graph
	rate     float64
	proto    Ant
	ants     []Ant
	daemon   DaemonFunc
	maxSteps int
	logger   *log.Logger
}

// Option configures a Colony.
type Option func(*Colony)

// WithDaemon installs the action run by [Colony.DaemonActions].
func WithDaemon(fn DaemonFunc) Option {
	return func(c *Colony) { c.daemon = fn }
}

// WithMaxSteps bounds the number of PickEdge calls per ant and cycle.
// Zero, the default, means unbounded.
func WithMaxSteps(n int) Option {
	return func(c *Colony) { c.maxSteps = n }
}

// WithLogger sets the logger used for per-ant progress at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Colony) { c.logger = l }
}

// New creates a colony over g evaporating at rate per cycle.
// The rate must lie strictly between 0 and 1.
func New(g Graph, rate float64, opts ...Option) (*Colony, error) {
	if !(rate > 0 && rate < 1) {
		return nil, errors.New(errors.ErrCodeInvalidParams, "decay rate must lie in (0, 1), got %v", rate)
	}
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "colony needs a graph")
	}
	c := &Colony{graph: g, rate: rate}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxSteps < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "max steps must not be negative, got %d", c.maxSteps)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c, nil
}

// Rate returns the pheromone decay rate.
func (c *Colony) Rate() float64 { return c.rate }

// Ants returns the current pool. The slice is owned by the colony.
func (c *Colony) Ants() []Ant { return c.ants }

// SetProto stores the template cloned by [Colony.MakeAnts]. A nil prototype
// is accepted here and reported when cloning is attempted.
func (c *Colony) SetProto(a Ant) {
	c.proto = a
}

// MakeAnts replaces the pool with n independent clones of the prototype.
// It fails with ErrCodeMissingPrototype when no prototype has been set.
func (c *Colony) MakeAnts(n int) error {
	if c.proto == nil {
		return errors.New(errors.ErrCodeMissingPrototype, "no prototype ant set")
	}
	if n < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "ant count must not be negative, got %d", n)
	}
	ants := make([]Ant, n)
	for i := range ants {
		ants[i] = c.proto.Clone()
	}
	c.ants = ants
	return nil
}

// =============================================================================
// Cycle
// =============================================================================

// Stats summarises the path lengths of one cycle.
type Stats struct {
	Min     float64
	Max     float64
	Mean    float64
	Lengths []float64     // per ant, in pool order; 0 for stalled ants
	Stalled []*StallError // ants that did not reach their destination
}

// Finished reports whether the ant at index i reached its destination in
// this cycle.
func (s Stats) Finished(i int) bool {
	for _, e := range s.Stalled {
		if e.Ant == i {
			return false
		}
	}
	return true
}

// StallError reports an ant that failed to reach its destination.
type StallError struct {
	Ant   int    // index in the pool
	Steps int    // PickEdge calls made
	Pos   string // node where the ant stopped
	Cause error  // PickEdge error, nil when the step budget ran out
}

func (e *StallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ant %d stalled at %q after %d steps: %v", e.Ant, e.Pos, e.Steps, e.Cause)
	}
	return fmt.Sprintf("ant %d stalled at %q: step budget of %d exhausted", e.Ant, e.Pos, e.Steps)
}

func (e *StallError) Unwrap() error { return e.Cause }

// GenerateSolutions lets every ant walk to its destination, removes cycles
// from each path and reports min, max and mean path length over the pool.
//
// Without a step budget this blocks until every ant arrives. With one, ants
// that do not arrive are reported in Stats.Stalled instead of aborting the
// cycle; an error is returned only when the pool is empty or no ant arrived.
func (c *Colony) GenerateSolutions() (Stats, error) {
	if len(c.ants) == 0 {
		return Stats{}, errors.New(errors.ErrCodeEmptyColony, "no ants to generate solutions with")
	}

	stats := Stats{Lengths: make([]float64, len(c.ants))}
	sum, done := 0.0, 0
	for i, a := range c.ants {
		if err := c.walk(i, a); err != nil {
			stats.Stalled = append(stats.Stalled, err)
			c.logger.Warn("ant stalled", "ant", i+1, "pos", err.Pos, "steps", err.Steps)
			continue
		}
		a.RemoveCycles()
		length := a.PathLen()
		stats.Lengths[i] = length
		c.logger.Debug("ant finished", "ant", i+1, "length", length)

		if done == 0 || length < stats.Min {
			stats.Min = length
		}
		if done == 0 || length > stats.Max {
			stats.Max = length
		}
		sum += length
		done++
	}

	if done == 0 {
		return stats, errors.New(errors.ErrCodePathStalled, "all %d ants stalled", len(c.ants))
	}
	stats.Mean = sum / float64(done)
	return stats, nil
}

func (c *Colony) walk(i int, a Ant) *StallError {
	steps := 0
	for a.Pos() != a.End() {
		if c.maxSteps > 0 && steps >= c.maxSteps {
			return &StallError{Ant: i, Steps: steps, Pos: a.Pos()}
		}
		if err := a.PickEdge(); err != nil {
			return &StallError{Ant: i, Steps: steps, Pos: a.Pos(), Cause: err}
		}
		steps++
	}
	return nil
}

// UpdatePheromone evaporates the graph once, then has every ant deposit
// along its path and reset for the next cycle. Evaporation always precedes
// the deposits of the same cycle. Ants that did not reach their destination
// are reset without depositing.
func (c *Colony) UpdatePheromone() {
	c.graph.Evaporate(c.rate)
	for _, a := range c.ants {
		if a.Pos() == a.End() {
			a.DepositPheromone()
		}
		a.UnwindPath()
	}
}

// DaemonActions runs the installed daemon, if any.
func (c *Colony) DaemonActions() {
	if c.daemon != nil {
		c.daemon(c.ants)
	}
}
