// Package transport configures radial transport for a single quantity.
//
// Transport comes in two prescriptions: explicit advection/diffusion
// coefficients, or a magnetic perturbation level driving
// Rechester-Rosenbluth diffusion. The owning quantity decides whether
// coefficients are fluid (time x radius) or kinetic (time x radius x
// momentum). Setting a prescription switches the transport type; data
// belonging to the other type is retained but neither serialized nor
// validated while inactive.
package transport

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// Type selects the transport model.
type Type int

const (
	None                Type = 1
	Prescribed          Type = 2
	RechesterRosenbluth Type = 3
)

// BC selects the behavior of transport at the plasma edge.
type BC int

const (
	// BCConservative keeps the transported quantity inside the plasma.
	BCConservative BC = 1
	// BCF0 lets the quantity escape through the edge.
	BCF0 BC = 2
)

// Settings holds the transport configuration of one quantity.
type Settings struct {
	quantity string
	kind     coeff.Kind

	ttype Type
	bc    BC
	ar    *coeff.Coefficient
	drr   *coeff.Coefficient
	dbb   *coeff.Coefficient
}

// New returns disabled transport for the named quantity. kind decides the
// shape of prescribed coefficients.
func New(quantity string, kind coeff.Kind) *Settings {
	return &Settings{
		quantity: quantity,
		kind:     kind,
		ttype:    None,
		bc:       BCConservative,
	}
}

// PrescribeAdvection sets the advection coefficient and switches the
// transport type to Prescribed.
func (s *Settings) PrescribeAdvection(v coeff.Value, a coeff.Axes) error {
	c, err := s.normalize("ar", v, a)
	if err != nil {
		return err
	}
	s.ar = c
	s.ttype = Prescribed
	return nil
}

// PrescribeDiffusion sets the diffusion coefficient and switches the
// transport type to Prescribed.
func (s *Settings) PrescribeDiffusion(v coeff.Value, a coeff.Axes) error {
	c, err := s.normalize("drr", v, a)
	if err != nil {
		return err
	}
	s.drr = c
	s.ttype = Prescribed
	return nil
}

func (s *Settings) normalize(field string, v coeff.Value, a coeff.Axes) (*coeff.Coefficient, error) {
	if s.kind == coeff.Kinetic {
		return coeff.NormalizeKinetic(s.quantity, field, v, a)
	}
	return coeff.NormalizeFluid(s.quantity, field, v, a.Time, a.Radius)
}

// SetMagneticPerturbation prescribes the perturbation level dB/B and
// switches the transport type to Rechester-Rosenbluth. The perturbation
// is fluid shaped for kinetic quantities too.
func (s *Settings) SetMagneticPerturbation(v coeff.Value, t, r []float64) error {
	c, err := coeff.NormalizeFluid(s.quantity, "dBB", v, t, r)
	if err != nil {
		return err
	}
	s.dbb = c
	s.ttype = RechesterRosenbluth
	return nil
}

// SetBoundaryCondition selects the edge behavior. Validated by Verify.
func (s *Settings) SetBoundaryCondition(bc BC) { s.bc = bc }

// Type returns the active transport model.
func (s *Settings) Type() Type { return s.ttype }

// BoundaryCondition returns the configured edge behavior.
func (s *Settings) BoundaryCondition() BC { return s.bc }

// Advection returns the prescribed advection coefficient, if any.
func (s *Settings) Advection() *coeff.Coefficient { return s.ar }

// Diffusion returns the prescribed diffusion coefficient, if any.
func (s *Settings) Diffusion() *coeff.Coefficient { return s.drr }

// MagneticPerturbation returns the prescribed perturbation level, if any.
func (s *Settings) MagneticPerturbation() *coeff.Coefficient { return s.dbb }

// Verify checks the active transport model. Disabled transport always
// passes; inactive prescriptions are not inspected.
func (s *Settings) Verify() error {
	switch s.ttype {
	case None:
		return nil
	case Prescribed:
		if s.ar == nil && s.drr == nil {
			return conferr.New(conferr.ErrExclusive, s.quantity, "transport",
				"prescribed transport needs an advection or a diffusion coefficient")
		}
	case RechesterRosenbluth:
		if s.dbb == nil {
			return conferr.New(conferr.Err, s.quantity, "transport",
				"Rechester-Rosenbluth transport needs a magnetic perturbation level")
		}
	default:
		return conferr.New(conferr.ErrOption, s.quantity, "transport",
			"unrecognized transport type %d", int(s.ttype))
	}

	if s.bc != BCConservative && s.bc != BCF0 {
		return conferr.New(conferr.ErrOption, s.quantity, "transport",
			"unrecognized boundary condition %d", int(s.bc))
	}
	return nil
}

// ToTree serializes the transport configuration. Only the active model's
// coefficients are emitted.
func (s *Settings) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(s.ttype)))
	node.Set("boundarycondition", sfile.Int(int64(s.bc)))

	if s.ttype == Prescribed {
		if s.ar != nil {
			node.PutChild("ar", s.ar.ToTree())
		}
		if s.drr != nil {
			node.PutChild("drr", s.drr.ToTree())
		}
	}
	if s.ttype == RechesterRosenbluth && s.dbb != nil {
		node.PutChild("dBB", s.dbb.ToTree())
	}
	return node
}

// FromTree loads transport configuration from a store node, clearing all
// previously held coefficients first.
func (s *Settings) FromTree(node *sfile.Tree) error {
	s.ar, s.drr, s.dbb = nil, nil, nil

	if _, ok := node.Value("type"); ok {
		v, err := node.Int("type")
		if err != nil {
			return conferr.New(conferr.Err, s.quantity, "transport", "%v", err)
		}
		s.ttype = Type(v)
	}
	if _, ok := node.Value("boundarycondition"); ok {
		v, err := node.Int("boundarycondition")
		if err != nil {
			return conferr.New(conferr.Err, s.quantity, "transport", "%v", err)
		}
		s.bc = BC(v)
	}

	if child, ok := node.Child("ar"); ok {
		c, err := coeff.CoefficientFromTree(child, s.quantity, "ar", s.kind)
		if err != nil {
			return err
		}
		s.ar = c
	}
	if child, ok := node.Child("drr"); ok {
		c, err := coeff.CoefficientFromTree(child, s.quantity, "drr", s.kind)
		if err != nil {
			return err
		}
		s.drr = c
	}
	if child, ok := node.Child("dBB"); ok {
		c, err := coeff.CoefficientFromTree(child, s.quantity, "dBB", coeff.Fluid)
		if err != nil {
			return err
		}
		s.dbb = c
	}
	return nil
}
