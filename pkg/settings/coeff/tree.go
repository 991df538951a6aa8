package coeff

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// ToTree serializes the coefficient as a store node: the data under "x"
// and one vector per axis. Kinetic coefficients name their momentum axes
// after the coordinate system, so the pair choice survives a round trip.
func (c *Coefficient) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("x", sfile.Arr(c.Data))
	node.Set("t", sfile.Floats(c.Time))
	node.Set("r", sfile.Floats(c.Radius))
	if c.Kind == Kinetic {
		node.Set(c.Coords.P1Label(), sfile.Floats(c.P1))
		node.Set(c.Coords.P2Label(), sfile.Floats(c.P2))
	}
	return node
}

// CoefficientFromTree rebuilds a coefficient from its store node,
// re-running normalization so malformed stored data fails the same way
// malformed setter input does.
func CoefficientFromTree(node *sfile.Tree, quantity, field string, kind Kind) (*Coefficient, error) {
	x, err := node.Array("x")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	t, err := node.Floats("t")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	r, err := node.Floats("r")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}

	if kind == Fluid {
		return NormalizeFluid(quantity, field, Array(x), t, r)
	}

	var m MomentumAxes
	for _, axis := range []struct {
		name string
		dst  *[]float64
	}{
		{"p", &m.P}, {"xi", &m.Xi}, {"ppar", &m.Ppar}, {"pperp", &m.Pperp},
	} {
		if _, ok := node.Value(axis.name); !ok {
			continue
		}
		v, err := node.Floats(axis.name)
		if err != nil {
			return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
		}
		*axis.dst = v
	}
	return NormalizeKinetic(quantity, field, Array(x), Axes{Time: t, Radius: r, MomentumAxes: m})
}

// ToTree serializes the initial distribution as a store node.
func (in *Initial) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("x", sfile.Arr(in.Data))
	node.Set("r", sfile.Floats(in.Radius))
	node.Set(in.Coords.P1Label(), sfile.Floats(in.P1))
	node.Set(in.Coords.P2Label(), sfile.Floats(in.P2))
	return node
}

// InitialFromTree rebuilds an initial distribution from its store node.
func InitialFromTree(node *sfile.Tree, quantity, field string) (*Initial, error) {
	x, err := node.Array("x")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	r, err := node.Floats("r")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	var m MomentumAxes
	for _, axis := range []struct {
		name string
		dst  *[]float64
	}{
		{"p", &m.P}, {"xi", &m.Xi}, {"ppar", &m.Ppar}, {"pperp", &m.Pperp},
	} {
		if _, ok := node.Value(axis.name); !ok {
			continue
		}
		v, err := node.Floats(axis.name)
		if err != nil {
			return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
		}
		*axis.dst = v
	}
	return NormalizeInitial(quantity, field, Array(x), r, m)
}

// ToTree serializes the profile as a store node with data "x" on the
// radius axis "r".
func (p *Profile) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("x", sfile.Floats(p.Data))
	node.Set("r", sfile.Floats(p.Radius))
	return node
}

// ProfileFromTree rebuilds a radial profile from its store node.
func ProfileFromTree(node *sfile.Tree, quantity, field string) (*Profile, error) {
	x, err := node.Floats("x")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	r, err := node.Floats("r")
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}
	return NormalizeProfile(quantity, field, Vector(x), r)
}
