// Package distfunc configures a kinetic electron distribution function.
//
// A distribution starts from either a numerically given initial value on
// the full radius x momentum grid or from Maxwellian density and
// temperature profiles; the two are mutually exclusive and setting one
// discards the other. The remaining settings select the boundary
// condition at maximum momentum, the advection interpolation, radial
// transport and the optional ripple and synchrotron terms.
package distfunc

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/settings/advection"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
	"rekindle/pkg/sfile"
)

// BC identifies the boundary condition at the maximum-momentum edge of
// the grid.
type BC int

const (
	// BCF0 forces the distribution to zero on the boundary.
	BCF0 BC = iota + 1
	// BCPhiConst extrapolates a constant flux across the boundary.
	BCPhiConst
	// BCDPhiConst extrapolates a linearly varying flux across the
	// boundary.
	BCDPhiConst
)

func (bc BC) valid() bool { return bc >= BCF0 && bc <= BCDPhiConst }

// Mode selects how the electron population is represented.
type Mode int

const (
	// ModeNumerical solves for the distribution on the kinetic grid.
	ModeNumerical Mode = iota + 1
	// ModeAnalytical represents the population by an analytical
	// distribution parameterized by density and temperature profiles.
	ModeAnalytical
)

// RippleMode selects the pitch scattering model for the magnetic ripple.
type RippleMode int

const (
	RippleNeglect RippleMode = iota + 1
	RippleBox
	RippleGaussian
)

func (m RippleMode) valid() bool { return m >= RippleNeglect && m <= RippleGaussian }

// SynchrotronMode switches synchrotron radiation losses on or off.
type SynchrotronMode int

const (
	SynchrotronNeglect SynchrotronMode = iota + 1
	SynchrotronInclude
)

func (m SynchrotronMode) valid() bool {
	return m == SynchrotronNeglect || m == SynchrotronInclude
}

// Settings configures one kinetic distribution function.
type Settings struct {
	name string

	bc              BC
	mode            Mode
	ripple          RippleMode
	synchrotron     SynchrotronMode
	fullIonJacobian bool

	adv    *advection.Settings
	transp *transport.Settings

	init   *coeff.Initial
	n0, t0 *coeff.Profile
}

// New returns defaults for the named distribution: numerical mode, a
// constant-flux boundary condition, ripple and synchrotron terms
// neglected and a zero initial value on single-point grids.
func New(name string) *Settings {
	return &Settings{
		name:            name,
		bc:              BCPhiConst,
		mode:            ModeNumerical,
		ripple:          RippleNeglect,
		synchrotron:     SynchrotronNeglect,
		fullIonJacobian: true,
		adv:             advection.New(name, true),
		transp:          transport.New(name, coeff.Kinetic),
		init: &coeff.Initial{
			Coords: coeff.CoordsPXi,
			Data:   ndarray.Full(0, 1, 1, 1),
			Radius: []float64{0},
			P1:     []float64{0},
			P2:     []float64{0},
		},
	}
}

// Name returns the distribution's quantity name.
func (s *Settings) Name() string { return s.name }

// SetInitialValue sets the initial distribution on the given radius and
// momentum grids. A scalar value fills the whole grid. Previously set
// initial profiles are discarded.
func (s *Settings) SetInitialValue(v coeff.Value, r []float64, m coeff.MomentumAxes) error {
	in, err := coeff.NormalizeInitial(s.name, "init", v, r, m)
	if err != nil {
		return err
	}
	s.init = in
	s.n0, s.t0 = nil, nil
	return nil
}

// SetInitialProfiles sets the initial density and temperature profiles
// from which the Maxwellian initial distribution is built. Scalars apply
// uniformly; array profiles need their radial grids. A previously set
// initial value is discarded.
func (s *Settings) SetInitialProfiles(n0, t0 coeff.Value, rn0, rt0 []float64) error {
	pn, err := coeff.NormalizeProfile(s.name, "n0", n0, rn0)
	if err != nil {
		return err
	}
	pt, err := coeff.NormalizeProfile(s.name, "T0", t0, rt0)
	if err != nil {
		return err
	}
	s.n0, s.t0 = pn, pt
	s.init = nil
	return nil
}

// EnableAnalyticalDistribution switches between the analytical
// representation and the numerical kinetic solve.
func (s *Settings) EnableAnalyticalDistribution(on bool) {
	if on {
		s.mode = ModeAnalytical
	} else {
		s.mode = ModeNumerical
	}
}

// SetBoundaryCondition sets the condition applied at maximum momentum.
func (s *Settings) SetBoundaryCondition(bc BC) { s.bc = bc }

// SetRippleMode selects the magnetic ripple pitch scattering model.
func (s *Settings) SetRippleMode(m RippleMode) { s.ripple = m }

// EnableRipple switches ripple pitch scattering on with the box model,
// or off.
func (s *Settings) EnableRipple(on bool) {
	if on {
		s.ripple = RippleBox
	} else {
		s.ripple = RippleNeglect
	}
}

// SetSynchrotronMode selects the synchrotron loss model.
func (s *Settings) SetSynchrotronMode(m SynchrotronMode) { s.synchrotron = m }

// EnableSynchrotron switches synchrotron radiation losses on or off.
func (s *Settings) EnableSynchrotron(on bool) {
	if on {
		s.synchrotron = SynchrotronInclude
	} else {
		s.synchrotron = SynchrotronNeglect
	}
}

// SetFullIonJacobian includes or excludes the ion contribution to the
// Jacobian of the kinetic equation.
func (s *Settings) SetFullIonJacobian(on bool) { s.fullIonJacobian = on }

// BoundaryCondition returns the maximum-momentum boundary condition.
func (s *Settings) BoundaryCondition() BC { return s.bc }

// Mode returns the population representation mode.
func (s *Settings) Mode() Mode { return s.mode }

// RippleMode returns the ripple pitch scattering model.
func (s *Settings) RippleMode() RippleMode { return s.ripple }

// SynchrotronMode returns the synchrotron loss model.
func (s *Settings) SynchrotronMode() SynchrotronMode { return s.synchrotron }

// FullIonJacobian reports whether the ion Jacobian contribution is
// included.
func (s *Settings) FullIonJacobian() bool { return s.fullIonJacobian }

// Advection returns the advection interpolation settings for in-place
// modification.
func (s *Settings) Advection() *advection.Settings { return s.adv }

// Transport returns the radial transport settings for in-place
// modification.
func (s *Settings) Transport() *transport.Settings { return s.transp }

// InitialValue returns the numerically given initial distribution, nil
// when initial profiles are set instead.
func (s *Settings) InitialValue() *coeff.Initial { return s.init }

// InitialProfiles returns the initial density and temperature profiles,
// nil when an initial value is set instead.
func (s *Settings) InitialProfiles() (n0, t0 *coeff.Profile) { return s.n0, s.t0 }

// Verify checks the configuration against the state of the hosting
// kinetic grid. With the grid enabled the distribution must be solved
// numerically from some initial condition; with the grid disabled only
// the analytical mode needs anything, namely its profiles.
func (s *Settings) Verify(gridEnabled bool) error {
	if !gridEnabled {
		if s.mode != ModeNumerical && (s.n0 == nil || s.t0 == nil) {
			return conferr.New(conferr.Err, s.name, "",
				"analytical distribution requires initial density and temperature profiles")
		}
		return nil
	}

	if s.mode != ModeNumerical {
		return conferr.New(conferr.ErrConsistency, s.name, "mode",
			"analytical distribution cannot be combined with an enabled kinetic grid")
	}
	if !s.bc.valid() {
		return conferr.New(conferr.ErrOption, s.name, "boundarycondition",
			"unrecognized boundary condition %d", int(s.bc))
	}
	if s.init == nil && (s.n0 == nil || s.t0 == nil) {
		return conferr.New(conferr.Err, s.name, "",
			"no initial condition set for the distribution function")
	}
	if err := s.adv.Verify(); err != nil {
		return err
	}
	if !s.ripple.valid() {
		return conferr.New(conferr.ErrOption, s.name, "ripplemode",
			"unrecognized ripple mode %d", int(s.ripple))
	}
	if !s.synchrotron.valid() {
		return conferr.New(conferr.ErrOption, s.name, "synchrotronmode",
			"unrecognized synchrotron mode %d", int(s.synchrotron))
	}
	return s.transp.Verify()
}

// ToTree serializes the configuration as a store node. The
// representation mode is always emitted; the kinetic block only when the
// hosting grid is enabled. Initial profiles additionally accompany the
// analytical mode so that a fluid simulation can build the distribution.
func (s *Settings) ToTree(gridEnabled bool) *sfile.Tree {
	node := sfile.NewTree()
	node.Set("mode", sfile.Int(int64(s.mode)))
	if gridEnabled {
		node.Set("boundarycondition", sfile.Int(int64(s.bc)))
		node.PutChild("adv_interp", s.adv.ToTree())
		if s.init != nil {
			node.PutChild("init", s.init.ToTree())
		} else if s.n0 != nil && s.t0 != nil {
			node.PutChild("n0", s.n0.ToTree())
			node.PutChild("T0", s.t0.ToTree())
		}
		node.Set("ripplemode", sfile.Int(int64(s.ripple)))
		node.Set("synchrotronmode", sfile.Int(int64(s.synchrotron)))
		node.PutChild("transport", s.transp.ToTree())
		node.Set("fullIonJacobian", sfile.Bool(s.fullIonJacobian))
	}
	if s.mode != ModeNumerical && s.n0 != nil && s.t0 != nil {
		node.PutChild("n0", s.n0.ToTree())
		node.PutChild("T0", s.t0.ToTree())
	}
	return node
}

// FromTree loads the configuration from a store node. Absent entries
// keep their current values. An initial value in the node replaces any
// profiles and vice versa, so the loaded state keeps the two exclusive.
func (s *Settings) FromTree(node *sfile.Tree) error {
	for _, e := range []struct {
		name string
		set  func(int64)
	}{
		{"mode", func(v int64) { s.mode = Mode(v) }},
		{"boundarycondition", func(v int64) { s.bc = BC(v) }},
		{"ripplemode", func(v int64) { s.ripple = RippleMode(v) }},
		{"synchrotronmode", func(v int64) { s.synchrotron = SynchrotronMode(v) }},
	} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, s.name, e.name, "%v", err)
		}
		e.set(v)
	}
	if _, ok := node.Value("fullIonJacobian"); ok {
		v, err := node.Bool("fullIonJacobian")
		if err != nil {
			return conferr.New(conferr.Err, s.name, "fullIonJacobian", "%v", err)
		}
		s.fullIonJacobian = v
	}

	if child, ok := node.Child("adv_interp"); ok {
		if err := s.adv.FromTree(child); err != nil {
			return err
		}
	}
	if child, ok := node.Child("transport"); ok {
		if err := s.transp.FromTree(child); err != nil {
			return err
		}
	}

	if child, ok := node.Child("init"); ok {
		in, err := coeff.InitialFromTree(child, s.name, "init")
		if err != nil {
			return err
		}
		s.init = in
		s.n0, s.t0 = nil, nil
		return nil
	}
	nc, okN := node.Child("n0")
	tc, okT := node.Child("T0")
	if okN && okT {
		pn, err := coeff.ProfileFromTree(nc, s.name, "n0")
		if err != nil {
			return err
		}
		pt, err := coeff.ProfileFromTree(tc, s.name, "T0")
		if err != nil {
			return err
		}
		s.n0, s.t0 = pn, pt
		s.init = nil
	}
	return nil
}
