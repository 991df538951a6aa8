package settings

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// SolverType selects how the equation system is advanced each step.
type SolverType int

const (
	// SolverLinearImplicit linearizes the system around the previous
	// step and solves once.
	SolverLinearImplicit SolverType = iota + 1
	// SolverNonlinear iterates Newton steps to convergence.
	SolverNonlinear
)

func (t SolverType) valid() bool {
	return t == SolverLinearImplicit || t == SolverNonlinear
}

// LinearSolver selects the backend for the inner linear solves.
type LinearSolver int

const (
	LinearLU LinearSolver = iota + 1
	LinearGMRES
)

func (l LinearSolver) valid() bool { return l == LinearLU || l == LinearGMRES }

// Solver configures the equation system solver.
type Solver struct {
	stype   SolverType
	linsolv LinearSolver
	maxiter int
	reltol  float64
	verbose bool
}

// NewSolver returns the linear implicit solver with an LU backend.
func NewSolver() *Solver {
	return &Solver{
		stype:   SolverLinearImplicit,
		linsolv: LinearLU,
		maxiter: 100,
		reltol:  1e-6,
	}
}

// SetType selects the solver strategy.
func (s *Solver) SetType(t SolverType) error {
	if !t.valid() {
		return conferr.New(conferr.ErrOption, "solver", "type",
			"unrecognized solver type %d", int(t))
	}
	s.stype = t
	return nil
}

// SetLinearSolver selects the backend for the inner linear solves.
func (s *Solver) SetLinearSolver(l LinearSolver) error {
	if !l.valid() {
		return conferr.New(conferr.ErrOption, "solver", "linsolv",
			"unrecognized linear solver %d", int(l))
	}
	s.linsolv = l
	return nil
}

// SetMaxIterations bounds the Newton iteration of the nonlinear solver.
func (s *Solver) SetMaxIterations(n int) error {
	if n < 1 {
		return conferr.New(conferr.ErrOption, "solver", "maxiter",
			"invalid value %d, must be >= 1", n)
	}
	s.maxiter = n
	return nil
}

// SetTolerance sets the relative convergence tolerance of the nonlinear
// solver.
func (s *Solver) SetTolerance(tol float64) error {
	if tol <= 0 {
		return conferr.New(conferr.ErrOption, "solver", "reltol",
			"invalid value %g, must be > 0", tol)
	}
	s.reltol = tol
	return nil
}

// SetVerbose makes the solver report every iteration.
func (s *Solver) SetVerbose(v bool) { s.verbose = v }

// Type returns the solver strategy.
func (s *Solver) Type() SolverType { return s.stype }

// LinearSolverType returns the linear solve backend.
func (s *Solver) LinearSolverType() LinearSolver { return s.linsolv }

// MaxIterations returns the Newton iteration bound.
func (s *Solver) MaxIterations() int { return s.maxiter }

// Tolerance returns the relative convergence tolerance.
func (s *Solver) Tolerance() float64 { return s.reltol }

// Verbose reports whether per-iteration output is enabled.
func (s *Solver) Verbose() bool { return s.verbose }

// Verify checks every selection against its closed set.
func (s *Solver) Verify() error {
	if !s.stype.valid() {
		return conferr.New(conferr.ErrOption, "solver", "type",
			"unrecognized solver type %d", int(s.stype))
	}
	if !s.linsolv.valid() {
		return conferr.New(conferr.ErrOption, "solver", "linsolv",
			"unrecognized linear solver %d", int(s.linsolv))
	}
	if s.maxiter < 1 {
		return conferr.New(conferr.ErrOption, "solver", "maxiter",
			"invalid value %d, must be >= 1", s.maxiter)
	}
	if s.reltol <= 0 {
		return conferr.New(conferr.ErrOption, "solver", "reltol",
			"invalid value %g, must be > 0", s.reltol)
	}
	return nil
}

// ToTree serializes the solver as a store node.
func (s *Solver) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(s.stype)))
	node.Set("linsolv", sfile.Int(int64(s.linsolv)))
	node.Set("maxiter", sfile.Int(int64(s.maxiter)))
	node.Set("reltol", sfile.Float(s.reltol))
	node.Set("verbose", sfile.Bool(s.verbose))
	return node
}

// FromTree loads the solver from a store node. Absent entries keep
// their current values.
func (s *Solver) FromTree(node *sfile.Tree) error {
	for _, e := range []struct {
		name string
		set  func(int64)
	}{
		{"type", func(v int64) { s.stype = SolverType(v) }},
		{"linsolv", func(v int64) { s.linsolv = LinearSolver(v) }},
		{"maxiter", func(v int64) { s.maxiter = int(v) }},
	} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, "solver", e.name, "%v", err)
		}
		e.set(v)
	}
	if _, ok := node.Value("reltol"); ok {
		v, err := node.Float("reltol")
		if err != nil {
			return conferr.New(conferr.Err, "solver", "reltol", "%v", err)
		}
		s.reltol = v
	}
	if _, ok := node.Value("verbose"); ok {
		v, err := node.Bool("verbose")
		if err != nil {
			return conferr.New(conferr.Err, "solver", "verbose", "%v", err)
		}
		s.verbose = v
	}
	return nil
}
