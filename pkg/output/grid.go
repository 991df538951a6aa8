package output

import (
	"slices"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// MomentumGrid is one kinetic momentum grid of the output: cell centers
// and widths of both momentum coordinates, tagged with the coordinate
// system the kernel used.
type MomentumGrid struct {
	Name   string
	Coords coeff.Coords
	P1     []float64
	P2     []float64
	DP1    []float64
	DP2    []float64
}

// P1Name returns the name of the fastest-varying momentum coordinate.
func (m *MomentumGrid) P1Name() string { return m.Coords.P1Label() }

// P2Name returns the name of the second momentum coordinate.
func (m *MomentumGrid) P2Name() string { return m.Coords.P2Label() }

// Grid is the mesh a run was computed on: the time and radius axes,
// per-cell radial widths and volume prefactors, and the momentum grids
// of whichever kinetic populations were enabled.
type Grid struct {
	Time   []float64
	Radius []float64
	DR     []float64
	Vprime []float64

	Hottail *MomentumGrid
	Runaway *MomentumGrid
}

func gridFromTree(node *sfile.Tree) (*Grid, error) {
	g := &Grid{}

	for _, e := range []struct {
		name string
		dst  *[]float64
	}{{"t", &g.Time}, {"r", &g.Radius}, {"dr", &g.DR}, {"Vprime", &g.Vprime}} {
		v, err := node.Floats(e.name)
		if err != nil {
			return nil, conferr.New(ErrFormat, "grid", e.name, "%v", err)
		}
		*e.dst = v
	}

	// Initial-only output carries no time axis; stand in a single point
	// so every quantity still has a well-defined leading dimension.
	if len(g.Time) == 0 {
		g.Time = []float64{0}
	}
	if len(g.Radius) == 0 {
		return nil, conferr.New(ErrFormat, "grid", "r", "radial axis is empty")
	}
	for _, e := range []struct {
		name string
		n    int
	}{{"dr", len(g.DR)}, {"Vprime", len(g.Vprime)}} {
		if e.n != len(g.Radius) {
			return nil, conferr.New(ErrFormat, "grid", e.name,
				"%d elements for %d radial cells", e.n, len(g.Radius))
		}
	}

	for _, e := range []struct {
		name string
		dst  **MomentumGrid
	}{{"hottail", &g.Hottail}, {"runaway", &g.Runaway}} {
		child, ok := node.Child(e.name)
		if !ok {
			continue
		}
		m, err := momentumGridFromTree(e.name, child)
		if err != nil {
			return nil, err
		}
		*e.dst = m
	}
	return g, nil
}

func momentumGridFromTree(name string, node *sfile.Tree) (*MomentumGrid, error) {
	typ, err := node.Int("type")
	if err != nil {
		return nil, conferr.New(ErrFormat, "grid/"+name, "type", "%v", err)
	}
	coords := coeff.Coords(typ)
	if coords != coeff.CoordsPXi && coords != coeff.CoordsPparPperp {
		return nil, conferr.New(ErrFormat, "grid/"+name, "type",
			"unrecognized momentum grid type %d", typ)
	}

	m := &MomentumGrid{Name: name, Coords: coords}
	for _, e := range []struct {
		name string
		dst  *[]float64
	}{{"p1", &m.P1}, {"p2", &m.P2}, {"dp1", &m.DP1}, {"dp2", &m.DP2}} {
		v, err := node.Floats(e.name)
		if err != nil {
			return nil, conferr.New(ErrFormat, "grid/"+name, e.name, "%v", err)
		}
		*e.dst = v
	}
	if len(m.P1) == 0 || len(m.P2) == 0 {
		return nil, conferr.New(ErrFormat, "grid/"+name, "", "momentum axes are empty")
	}
	if len(m.DP1) != len(m.P1) || len(m.DP2) != len(m.P2) {
		return nil, conferr.New(ErrFormat, "grid/"+name, "",
			"cell widths (%d, %d) do not match the axes (%d, %d)",
			len(m.DP1), len(m.DP2), len(m.P1), len(m.P2))
	}
	return m, nil
}

// VolumeElements returns the per-cell volume Vprime*dr of the radial
// mesh.
func (g *Grid) VolumeElements() []float64 {
	dv := make([]float64, len(g.Radius))
	for i := range dv {
		dv[i] = g.Vprime[i] * g.DR[i]
	}
	return dv
}

// weights are the trapezoidal quadrature weights on the radial mesh:
// full cell volumes in the interior, half at the two endpoints.
func (g *Grid) weights() []float64 {
	w := g.VolumeElements()
	if len(w) > 1 {
		w[0] *= 0.5
		w[len(w)-1] *= 0.5
	}
	return w
}

// Integrate computes the trapezoidal volume integral of values given on
// the radial mesh.
func (g *Grid) Integrate(values []float64) (float64, error) {
	if len(values) != len(g.Radius) {
		return 0, conferr.New(ErrFormat, "grid", "",
			"%d values for %d radial cells", len(values), len(g.Radius))
	}
	sum := 0.0
	for i, w := range g.weights() {
		sum += w * values[i]
	}
	return sum, nil
}

// IntegrateAxis reduces one axis of a by the trapezoidal volume
// integral. A negative axis counts from the end; the chosen axis must
// span the radial mesh. Reducing a rank-1 array yields a single-element
// array.
func (g *Grid) IntegrateAxis(a *ndarray.Array, axis int) (*ndarray.Array, error) {
	shape := a.Shape()
	if axis < 0 {
		axis += len(shape)
	}
	if axis < 0 || axis >= len(shape) {
		return nil, conferr.New(ErrFormat, "grid", "",
			"axis %d out of range for rank %d", axis, len(shape))
	}
	if shape[axis] != len(g.Radius) {
		return nil, conferr.New(ErrFormat, "grid", "",
			"axis %d has %d elements, the radial mesh has %d", axis, shape[axis], len(g.Radius))
	}

	outer, inner := 1, 1
	for _, n := range shape[:axis] {
		outer *= n
	}
	for _, n := range shape[axis+1:] {
		inner *= n
	}

	w := g.weights()
	vals := a.Values()
	out := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		base := o * shape[axis] * inner
		for k, wk := range w {
			row := base + k*inner
			for i := 0; i < inner; i++ {
				out[o*inner+i] += wk * vals[row+i]
			}
		}
	}

	reduced := slices.Delete(shape, axis, axis+1)
	if len(reduced) == 0 {
		reduced = []int{1}
	}
	return ndarray.FromSlice(out, reduced...)
}
