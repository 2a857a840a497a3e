package solver

import (
	"github.com/matzehuels/antroute/pkg/ant"
	"github.com/matzehuels/antroute/pkg/errors"
	"github.com/matzehuels/antroute/pkg/task"
)

// Params configures one run.
type Params struct {
	Alpha    float64 // pheromone exponent
	Beta     float64 // inverse-weight exponent
	Gamma    float64 // heading exponent
	Phi      float64 // initial pheromone level
	Decay    float64 // evaporation rate per iteration
	AntPower float64 // deposit numerator Q
	AntNum   int
	Iters    int
	Seed     uint64
	MaxSteps int     // per ant and iteration, 0 for unbounded
	Elitist  float64 // weight of the best-so-far reinforcement, 0 disables it
}

// Defaults returns the parameters used when neither the task nor the
// command line set them.
func Defaults() Params {
	return Params{
		Alpha:    1.0,
		Beta:     1.0,
		Gamma:    0.0,
		Phi:      0.1,
		Decay:    0.01,
		AntPower: 1.0,
		AntNum:   1,
		Iters:    1,
	}
}

// Validate checks every parameter range.
func (p Params) Validate() error {
	switch {
	case p.Alpha < 0:
		return errors.New(errors.ErrCodeInvalidParams, "alpha must not be negative, got %v", p.Alpha)
	case p.Beta < 0:
		return errors.New(errors.ErrCodeInvalidParams, "beta must not be negative, got %v", p.Beta)
	case p.Gamma < 0:
		return errors.New(errors.ErrCodeInvalidParams, "gamma must not be negative, got %v", p.Gamma)
	case !(p.Phi > 0):
		return errors.New(errors.ErrCodeInvalidParams, "phi must be positive, got %v", p.Phi)
	case !(p.Decay > 0 && p.Decay < 1):
		return errors.New(errors.ErrCodeInvalidParams, "decay must lie in (0, 1), got %v", p.Decay)
	case !(p.AntPower > 0):
		return errors.New(errors.ErrCodeInvalidParams, "ant power must be positive, got %v", p.AntPower)
	case p.AntNum <= 0:
		return errors.New(errors.ErrCodeInvalidParams, "ant number must be positive, got %d", p.AntNum)
	case p.Iters <= 0:
		return errors.New(errors.ErrCodeInvalidParams, "iterations must be positive, got %d", p.Iters)
	case p.MaxSteps < 0:
		return errors.New(errors.ErrCodeInvalidParams, "max steps must not be negative, got %d", p.MaxSteps)
	case p.Elitist < 0:
		return errors.New(errors.ErrCodeInvalidParams, "elitist weight must not be negative, got %v", p.Elitist)
	}
	return nil
}

// Apply overwrites p with every field set in tp. A nil tp changes nothing.
func (p *Params) Apply(tp *task.Params) {
	if tp == nil {
		return
	}
	setFloat(&p.Alpha, tp.Alpha)
	setFloat(&p.Beta, tp.Beta)
	setFloat(&p.Gamma, tp.Gamma)
	setFloat(&p.Phi, tp.Phi)
	setFloat(&p.Decay, tp.Decay)
	setFloat(&p.AntPower, tp.AntPower)
	setFloat(&p.Elitist, tp.Elitist)
	setInt(&p.AntNum, tp.AntNum)
	setInt(&p.Iters, tp.Iters)
	setInt(&p.MaxSteps, tp.MaxSteps)
	if tp.Seed != nil {
		p.Seed = *tp.Seed
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// AntParams returns the parameters of the prototype ant.
func (p Params) AntParams() ant.Params {
	return ant.Params{
		Alpha: p.Alpha,
		Beta:  p.Beta,
		Gamma: p.Gamma,
		Q:     p.AntPower,
		Seed:  p.Seed,
	}
}
