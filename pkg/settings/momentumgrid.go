package settings

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// MomentumGridSettings describes one kinetic momentum grid. The solver
// carries two, one for the hot electron population and one for the
// runaways; either may be disabled, which turns the associated
// distribution into a fluid quantity.
type MomentumGridSettings struct {
	name    string
	enabled bool
	np, nxi int
	pmax    float64
}

// newMomentumGrid returns a disabled grid with the default resolution.
// pmax carries no default; it must be set when the grid is enabled.
func newMomentumGrid(name string) *MomentumGridSettings {
	return &MomentumGridSettings{name: name, np: 100, nxi: 1}
}

// SetEnabled switches the grid on or off.
func (g *MomentumGridSettings) SetEnabled(on bool) { g.enabled = on }

// SetNp sets the momentum resolution.
func (g *MomentumGridSettings) SetNp(n int) error {
	if n < 1 {
		return conferr.New(conferr.ErrOption, g.name, "np",
			"invalid value %d, must be >= 1", n)
	}
	g.np = n
	return nil
}

// SetNxi sets the pitch resolution.
func (g *MomentumGridSettings) SetNxi(n int) error {
	if n < 1 {
		return conferr.New(conferr.ErrOption, g.name, "nxi",
			"invalid value %d, must be >= 1", n)
	}
	g.nxi = n
	return nil
}

// SetPmax sets the maximum momentum of the grid in units of m_e c.
func (g *MomentumGridSettings) SetPmax(p float64) error {
	if p <= 0 {
		return conferr.New(conferr.ErrOption, g.name, "pmax",
			"invalid value %g, must be > 0", p)
	}
	g.pmax = p
	return nil
}

// Enabled reports whether the grid is switched on.
func (g *MomentumGridSettings) Enabled() bool { return g.enabled }

// Np returns the momentum resolution.
func (g *MomentumGridSettings) Np() int { return g.np }

// Nxi returns the pitch resolution.
func (g *MomentumGridSettings) Nxi() int { return g.nxi }

// Pmax returns the maximum momentum.
func (g *MomentumGridSettings) Pmax() float64 { return g.pmax }

// Verify checks that an enabled grid is fully specified. A disabled
// grid verifies unconditionally.
func (g *MomentumGridSettings) Verify() error {
	if !g.enabled {
		return nil
	}
	if g.np < 1 {
		return conferr.New(conferr.Err, g.name, "np", "must be set to a value >= 1")
	}
	if g.nxi < 1 {
		return conferr.New(conferr.Err, g.name, "nxi", "must be set to a value >= 1")
	}
	if g.pmax <= 0 {
		return conferr.New(conferr.Err, g.name, "pmax",
			"must be set when the grid is enabled")
	}
	return nil
}

// ToTree serializes the grid as a store node.
func (g *MomentumGridSettings) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("enabled", sfile.Bool(g.enabled))
	node.Set("type", sfile.Int(int64(coeff.CoordsPXi)))
	node.Set("np", sfile.Int(int64(g.np)))
	node.Set("nxi", sfile.Int(int64(g.nxi)))
	node.Set("pmax", sfile.Float(g.pmax))
	return node
}

// FromTree loads the grid from a store node. Absent entries keep their
// current values.
func (g *MomentumGridSettings) FromTree(node *sfile.Tree) error {
	if _, ok := node.Value("enabled"); ok {
		v, err := node.Bool("enabled")
		if err != nil {
			return conferr.New(conferr.Err, g.name, "enabled", "%v", err)
		}
		g.enabled = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{{"np", &g.np}, {"nxi", &g.nxi}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, g.name, e.name, "%v", err)
		}
		*e.dst = int(v)
	}
	if _, ok := node.Value("pmax"); ok {
		v, err := node.Float("pmax")
		if err != nil {
			return conferr.New(conferr.Err, g.name, "pmax", "%v", err)
		}
		g.pmax = v
	}
	return nil
}
