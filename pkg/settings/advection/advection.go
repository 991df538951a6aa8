// Package advection selects the interpolation schemes applied to the
// advection terms of the transport equations.
//
// Every coordinate carries an interpolation scheme and a Jacobian
// treatment. Fluid quantities interpolate along radius only; kinetic
// quantities also carry the two momentum coordinates. The flux-limited
// schemes (QUICK through TCDF) under-relax their coefficients between
// nonlinear iterations by the flux-limiter damping factor.
package advection

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// Scheme identifies an advection interpolation method.
type Scheme int

const (
	Centred Scheme = iota + 1
	Upwind
	Upwind2ndOrder
	Downwind
	QUICK
	SMART
	MUSCL
	OSPRE
	TCDF
)

func (s Scheme) valid() bool { return s >= Centred && s <= TCDF }

// fluxLimited reports whether the scheme adapts its coefficients to the
// solution and therefore participates in the nonlinear iteration.
func (s Scheme) fluxLimited() bool { return s >= QUICK && s <= TCDF }

// Jacobian identifies how interpolation coefficients enter the Jacobian
// of the nonlinear solve.
type Jacobian int

const (
	// JacLinear treats the interpolation coefficients as constants.
	JacLinear Jacobian = iota + 1
	// JacFull differentiates the interpolation coefficients exactly.
	JacFull
	// JacUpwind differentiates a first-order upwind approximation.
	JacUpwind
)

func (j Jacobian) valid() bool { return j >= JacLinear && j <= JacUpwind }

// Settings selects interpolation per coordinate for one quantity.
type Settings struct {
	quantity string
	kinetic  bool

	r, p1, p2          Scheme
	jacR, jacP1, jacP2 Jacobian
	damping            float64
}

// New returns defaults for the named quantity: centred interpolation with
// the full Jacobian and damping 1. Fluid quantities carry the radial
// coordinate only.
func New(quantity string, kinetic bool) *Settings {
	s := &Settings{
		quantity: quantity,
		kinetic:  kinetic,
		r:        Centred,
		jacR:     JacFull,
		damping:  1.0,
	}
	if kinetic {
		s.p1, s.p2 = Centred, Centred
		s.jacP1, s.jacP2 = JacFull, JacFull
	}
	return s
}

// SetMethod applies one scheme to every coordinate.
func (s *Settings) SetMethod(m Scheme) {
	s.r = m
	if s.kinetic {
		s.p1, s.p2 = m, m
	}
}

// SetMethodR sets the radial interpolation scheme.
func (s *Settings) SetMethodR(m Scheme) { s.r = m }

// SetMethodP1 sets the scheme for the first momentum coordinate.
func (s *Settings) SetMethodP1(m Scheme) { s.p1 = m }

// SetMethodP2 sets the scheme for the second momentum coordinate.
func (s *Settings) SetMethodP2(m Scheme) { s.p2 = m }

// SetJacobian applies one Jacobian treatment to every coordinate.
func (s *Settings) SetJacobian(j Jacobian) {
	s.jacR = j
	if s.kinetic {
		s.jacP1, s.jacP2 = j, j
	}
}

// SetJacobianR sets the radial Jacobian treatment.
func (s *Settings) SetJacobianR(j Jacobian) { s.jacR = j }

// SetJacobianP1 sets the Jacobian treatment for the first momentum
// coordinate.
func (s *Settings) SetJacobianP1(j Jacobian) { s.jacP1 = j }

// SetJacobianP2 sets the Jacobian treatment for the second momentum
// coordinate.
func (s *Settings) SetJacobianP2(j Jacobian) { s.jacP2 = j }

// SetFluxLimiterDamping sets the under-relaxation factor applied to
// flux-limited schemes between nonlinear iterations.
func (s *Settings) SetFluxLimiterDamping(d float64) { s.damping = d }

// Schemes returns the per-coordinate interpolation schemes. The momentum
// entries are zero for fluid quantities.
func (s *Settings) Schemes() (r, p1, p2 Scheme) { return s.r, s.p1, s.p2 }

// Jacobians returns the per-coordinate Jacobian treatments.
func (s *Settings) Jacobians() (r, p1, p2 Jacobian) { return s.jacR, s.jacP1, s.jacP2 }

// Damping returns the flux-limiter damping factor.
func (s *Settings) Damping() float64 { return s.damping }

// Verify checks every selection against its closed set and rejects
// flux-limited schemes whose coefficients are excluded from the Jacobian,
// since that combination stalls the nonlinear iteration.
func (s *Settings) Verify() error {
	type coord struct {
		name   string
		scheme Scheme
		jac    Jacobian
	}
	coords := []coord{{"r", s.r, s.jacR}}
	if s.kinetic {
		coords = append(coords, coord{"p1", s.p1, s.jacP1}, coord{"p2", s.p2, s.jacP2})
	}

	for _, c := range coords {
		if !c.scheme.valid() {
			return conferr.New(conferr.ErrOption, s.quantity, "adv_interp",
				"unrecognized interpolation scheme %d for coordinate %s", int(c.scheme), c.name)
		}
		if !c.jac.valid() {
			return conferr.New(conferr.ErrOption, s.quantity, "adv_interp",
				"unrecognized Jacobian mode %d for coordinate %s", int(c.jac), c.name)
		}
		if c.scheme.fluxLimited() && c.jac == JacLinear {
			return conferr.New(conferr.ErrConsistency, s.quantity, "adv_interp",
				"flux-limited scheme on coordinate %s requires the full or upwind Jacobian", c.name)
		}
	}
	if s.damping < 0 || s.damping > 1 {
		return conferr.New(conferr.ErrOption, s.quantity, "adv_interp",
			"flux limiter damping %g outside [0, 1]", s.damping)
	}
	return nil
}

// ToTree serializes the selections as a store node.
func (s *Settings) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("r", sfile.Int(int64(s.r)))
	node.Set("r_jac", sfile.Int(int64(s.jacR)))
	if s.kinetic {
		node.Set("p1", sfile.Int(int64(s.p1)))
		node.Set("p2", sfile.Int(int64(s.p2)))
		node.Set("p1_jac", sfile.Int(int64(s.jacP1)))
		node.Set("p2_jac", sfile.Int(int64(s.jacP2)))
	}
	node.Set("fluxlimiterdamping", sfile.Float(s.damping))
	return node
}

// FromTree loads selections from a store node. Absent entries keep their
// current values.
func (s *Settings) FromTree(node *sfile.Tree) error {
	for _, e := range []struct {
		name string
		dst  *Scheme
	}{{"r", &s.r}, {"p1", &s.p1}, {"p2", &s.p2}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, s.quantity, "adv_interp", "%v", err)
		}
		*e.dst = Scheme(v)
	}
	for _, e := range []struct {
		name string
		dst  *Jacobian
	}{{"r_jac", &s.jacR}, {"p1_jac", &s.jacP1}, {"p2_jac", &s.jacP2}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, s.quantity, "adv_interp", "%v", err)
		}
		*e.dst = Jacobian(v)
	}
	if _, ok := node.Value("fluxlimiterdamping"); ok {
		v, err := node.Float("fluxlimiterdamping")
		if err != nil {
			return conferr.New(conferr.Err, s.quantity, "adv_interp", "%v", err)
		}
		s.damping = v
	}
	return nil
}
