package settings

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// radialGridCylindrical is the only radial grid geometry the solver
// supports.
const radialGridCylindrical = 1

// RadialGrid describes the cylindrical radial grid shared by every
// quantity.
type RadialGrid struct {
	nr   int
	a    float64
	wall float64
	b0   float64
}

// NewRadialGrid returns an unconfigured grid. Resolution, minor radius
// and field strength must all be set before the grid verifies.
func NewRadialGrid() *RadialGrid {
	return &RadialGrid{}
}

// SetNr sets the number of radial grid cells.
func (g *RadialGrid) SetNr(n int) error {
	if n < 1 {
		return conferr.New(conferr.ErrOption, "radialgrid", "nr",
			"invalid value %d, must be >= 1", n)
	}
	g.nr = n
	return nil
}

// SetMinorRadius sets the plasma minor radius in meters.
func (g *RadialGrid) SetMinorRadius(a float64) error {
	if a <= 0 {
		return conferr.New(conferr.ErrOption, "radialgrid", "a",
			"invalid value %g, must be > 0", a)
	}
	g.a = a
	return nil
}

// SetWallRadius sets the radius of the conducting wall in meters. When
// never set, the wall sits at the plasma edge.
func (g *RadialGrid) SetWallRadius(b float64) error {
	if b <= 0 {
		return conferr.New(conferr.ErrOption, "radialgrid", "wall_radius",
			"invalid value %g, must be > 0", b)
	}
	g.wall = b
	return nil
}

// SetB0 sets the on-axis magnetic field strength in Tesla.
func (g *RadialGrid) SetB0(b float64) error {
	if b <= 0 {
		return conferr.New(conferr.ErrOption, "radialgrid", "B0",
			"invalid value %g, must be > 0", b)
	}
	g.b0 = b
	return nil
}

// Nr returns the number of radial grid cells.
func (g *RadialGrid) Nr() int { return g.nr }

// MinorRadius returns the plasma minor radius.
func (g *RadialGrid) MinorRadius() float64 { return g.a }

// WallRadius returns the wall radius, falling back to the plasma edge
// when none was set.
func (g *RadialGrid) WallRadius() float64 {
	if g.wall == 0 {
		return g.a
	}
	return g.wall
}

// B0 returns the on-axis magnetic field strength.
func (g *RadialGrid) B0() float64 { return g.b0 }

// Verify checks that the grid is fully specified and the wall does not
// sit inside the plasma.
func (g *RadialGrid) Verify() error {
	if g.nr < 1 {
		return conferr.New(conferr.Err, "radialgrid", "nr", "must be set to a value >= 1")
	}
	if g.a <= 0 {
		return conferr.New(conferr.Err, "radialgrid", "a", "minor radius must be set")
	}
	if g.b0 <= 0 {
		return conferr.New(conferr.Err, "radialgrid", "B0", "field strength must be set")
	}
	if g.wall != 0 && g.wall < g.a {
		return conferr.New(conferr.ErrConsistency, "radialgrid", "wall_radius",
			"wall radius %g inside the plasma edge %g", g.wall, g.a)
	}
	return nil
}

// ToTree serializes the grid as a store node.
func (g *RadialGrid) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(radialGridCylindrical))
	node.Set("nr", sfile.Int(int64(g.nr)))
	node.Set("a", sfile.Float(g.a))
	node.Set("wall_radius", sfile.Float(g.WallRadius()))
	node.Set("B0", sfile.Float(g.b0))
	return node
}

// FromTree loads the grid from a store node. Absent entries keep their
// current values.
func (g *RadialGrid) FromTree(node *sfile.Tree) error {
	if _, ok := node.Value("nr"); ok {
		v, err := node.Int("nr")
		if err != nil {
			return conferr.New(conferr.Err, "radialgrid", "nr", "%v", err)
		}
		g.nr = int(v)
	}
	for _, e := range []struct {
		name string
		dst  *float64
	}{{"a", &g.a}, {"wall_radius", &g.wall}, {"B0", &g.b0}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Float(e.name)
		if err != nil {
			return conferr.New(conferr.Err, "radialgrid", e.name, "%v", err)
		}
		*e.dst = v
	}
	return nil
}
