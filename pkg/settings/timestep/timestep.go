// Package timestep configures how the solver advances in time. The
// constant stepper divides the simulation interval into equally long
// steps given either directly (dt) or by count (nt); the adaptive
// stepper picks its own step lengths from an error estimate and accepts
// a tolerance instead.
package timestep

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// Type identifies a time stepping strategy.
type Type int

const (
	Constant Type = iota + 1
	Adaptive
)

func (t Type) valid() bool { return t == Constant || t == Adaptive }

// Settings holds the time stepper configuration. Zero values for tmax,
// dt and nt mean unset.
type Settings struct {
	ttype Type
	tmax  float64
	dt    float64
	nt    int

	checkEvery   int
	relTol       float64
	verbose      bool
	constantStep bool
}

// New returns constant stepping with nothing else decided. The relative
// tolerance defaults to 1e-6 so that switching to adaptive stepping
// works without further configuration.
func New() *Settings {
	return &Settings{ttype: Constant, relTol: 1e-6}
}

// SetType selects the stepping strategy. Selecting the adaptive stepper
// drops a previously set step count, since the step length is then
// chosen by the solver.
func (s *Settings) SetType(t Type) error {
	if !t.valid() {
		return conferr.New(conferr.ErrOption, "timestep", "type",
			"unrecognized time stepper type %d", int(t))
	}
	if t == Adaptive {
		s.nt = 0
	}
	s.ttype = t
	return nil
}

// SetTmax sets the simulation end time.
func (s *Settings) SetTmax(tmax float64) error {
	if tmax <= 0 {
		return conferr.New(conferr.ErrOption, "timestep", "tmax",
			"invalid value %g, must be > 0", tmax)
	}
	s.tmax = tmax
	return nil
}

// SetDt sets the constant step length. The step length and the step
// count determine each other through tmax, so only one of them may be
// given.
func (s *Settings) SetDt(dt float64) error {
	if dt <= 0 {
		return conferr.New(conferr.ErrOption, "timestep", "dt",
			"invalid value %g, must be > 0", dt)
	}
	if s.nt != 0 {
		return conferr.New(conferr.ErrExclusive, "timestep", "dt",
			"dt may not be set alongside nt")
	}
	s.dt = dt
	return nil
}

// SetNt sets the number of constant steps taken to reach tmax.
func (s *Settings) SetNt(nt int) error {
	if nt <= 0 {
		return conferr.New(conferr.ErrOption, "timestep", "nt",
			"invalid value %d, must be >= 1", nt)
	}
	if s.dt != 0 {
		return conferr.New(conferr.ErrExclusive, "timestep", "nt",
			"nt may not be set alongside dt")
	}
	s.nt = nt
	return nil
}

// ClearDt unsets the step length so that a step count can be given.
func (s *Settings) ClearDt() { s.dt = 0 }

// ClearNt unsets the step count so that a step length can be given.
func (s *Settings) ClearNt() { s.nt = 0 }

// SetCheckInterval sets how many accepted steps the adaptive stepper
// takes between accuracy checks. Zero checks every step.
func (s *Settings) SetCheckInterval(n int) error {
	if n < 0 {
		return conferr.New(conferr.ErrOption, "timestep", "checkevery",
			"invalid value %d, must be >= 0", n)
	}
	s.checkEvery = n
	return nil
}

// SetRelativeTolerance sets the error tolerance the adaptive stepper
// holds each quantity to.
func (s *Settings) SetRelativeTolerance(tol float64) error {
	if tol <= 0 {
		return conferr.New(conferr.ErrOption, "timestep", "reltol",
			"invalid value %g, must be > 0", tol)
	}
	s.relTol = tol
	return nil
}

// SetVerbose makes the adaptive stepper report every step decision.
func (s *Settings) SetVerbose(v bool) { s.verbose = v }

// SetConstantStep holds the adaptive step length fixed between accuracy
// checks instead of rescaling it after every step.
func (s *Settings) SetConstantStep(v bool) { s.constantStep = v }

// Type returns the selected stepping strategy.
func (s *Settings) Type() Type { return s.ttype }

// Tmax returns the simulation end time, zero when unset.
func (s *Settings) Tmax() float64 { return s.tmax }

// Dt returns the constant step length, zero when unset.
func (s *Settings) Dt() float64 { return s.dt }

// Nt returns the constant step count, zero when unset.
func (s *Settings) Nt() int { return s.nt }

// CheckInterval returns the adaptive accuracy check interval.
func (s *Settings) CheckInterval() int { return s.checkEvery }

// RelativeTolerance returns the adaptive error tolerance.
func (s *Settings) RelativeTolerance() float64 { return s.relTol }

// Verbose reports whether the adaptive stepper logs step decisions.
func (s *Settings) Verbose() bool { return s.verbose }

// ConstantStep reports whether the adaptive step length is held fixed
// between accuracy checks.
func (s *Settings) ConstantStep() bool { return s.constantStep }

// Verify checks that the configuration describes a runnable stepper:
// tmax must be set, the constant stepper needs exactly one of dt and
// nt, and the adaptive stepper tolerates neither a step count nor
// negative tolerances.
func (s *Settings) Verify() error {
	if s.tmax <= 0 {
		return conferr.New(conferr.Err, "timestep", "tmax",
			"must be set to a value > 0")
	}
	switch s.ttype {
	case Constant:
		if (s.dt > 0) == (s.nt > 0) {
			return conferr.New(conferr.ErrExclusive, "timestep", "",
				"exactly one of dt and nt must be set")
		}
	case Adaptive:
		if s.nt != 0 {
			return conferr.New(conferr.ErrConsistency, "timestep", "nt",
				"cannot be used with the adaptive time stepper")
		}
		if s.checkEvery < 0 {
			return conferr.New(conferr.ErrOption, "timestep", "checkevery",
				"invalid value %d, must be >= 0", s.checkEvery)
		}
		if s.relTol < 0 {
			return conferr.New(conferr.ErrOption, "timestep", "reltol",
				"invalid value %g, must be >= 0", s.relTol)
		}
	default:
		return conferr.New(conferr.ErrOption, "timestep", "type",
			"unrecognized time stepper type %d", int(s.ttype))
	}
	return nil
}

// ToTree serializes the configuration as a store node. Only the fields
// relevant to the selected strategy are emitted.
func (s *Settings) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(s.ttype)))
	node.Set("tmax", sfile.Float(s.tmax))
	if s.dt != 0 {
		node.Set("dt", sfile.Float(s.dt))
	}
	switch s.ttype {
	case Constant:
		if s.nt != 0 {
			node.Set("nt", sfile.Int(int64(s.nt)))
		}
	case Adaptive:
		node.Set("checkevery", sfile.Int(int64(s.checkEvery)))
		node.Set("reltol", sfile.Float(s.relTol))
		node.Set("verbose", sfile.Bool(s.verbose))
		node.Set("constantstep", sfile.Bool(s.constantStep))
	}
	return node
}

// FromTree loads the configuration from a store node. Absent entries
// keep their current values; consistency is established by Verify, not
// here.
func (s *Settings) FromTree(node *sfile.Tree) error {
	if _, ok := node.Value("type"); ok {
		v, err := node.Int("type")
		if err != nil {
			return conferr.New(conferr.Err, "timestep", "type", "%v", err)
		}
		s.ttype = Type(v)
	}
	for _, e := range []struct {
		name string
		dst  *float64
	}{{"tmax", &s.tmax}, {"dt", &s.dt}, {"reltol", &s.relTol}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Float(e.name)
		if err != nil {
			return conferr.New(conferr.Err, "timestep", e.name, "%v", err)
		}
		*e.dst = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{{"nt", &s.nt}, {"checkevery", &s.checkEvery}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, "timestep", e.name, "%v", err)
		}
		*e.dst = int(v)
	}
	for _, e := range []struct {
		name string
		dst  *bool
	}{{"verbose", &s.verbose}, {"constantstep", &s.constantStep}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Bool(e.name)
		if err != nil {
			return conferr.New(conferr.Err, "timestep", e.name, "%v", err)
		}
		*e.dst = v
	}
	return nil
}
