package output

import (
	"errors"
	"math"
	"slices"
	"testing"

	"rekindle/pkg/ndarray"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

func gridNode(t, r, dr, vprime []float64) *sfile.Tree {
	node := sfile.NewTree()
	node.Set("t", sfile.Floats(t))
	node.Set("r", sfile.Floats(r))
	node.Set("dr", sfile.Floats(dr))
	node.Set("Vprime", sfile.Floats(vprime))
	return node
}

func momentumNode(coords coeff.Coords, p1, p2 []float64) *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(coords)))
	node.Set("p1", sfile.Floats(p1))
	node.Set("p2", sfile.Floats(p2))
	node.Set("dp1", sfile.Floats(make([]float64, len(p1))))
	node.Set("dp2", sfile.Floats(make([]float64, len(p2))))
	return node
}

func TestIntegrateTwoPoints(t *testing.T) {
	// Both cells are endpoints: half weight each, no interior.
	g, err := gridFromTree(gridNode([]float64{0}, []float64{0, 2}, []float64{1, 1}, []float64{1, 1}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	got, err := g.Integrate([]float64{10, 20})
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if got != 15 {
		t.Fatalf("integral = %g, want 15", got)
	}
}

func TestIntegrateInteriorWeights(t *testing.T) {
	g, err := gridFromTree(gridNode([]float64{0}, []float64{0, 1, 2}, []float64{1, 1, 1}, []float64{1, 1, 1}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	got, err := g.Integrate([]float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if got != 4 {
		t.Fatalf("integral = %g, want 4", got)
	}

	if _, err := g.Integrate([]float64{1, 2}); !errors.Is(err, ErrFormat) {
		t.Fatalf("short data: %v", err)
	}
}

func TestIntegrateSingleCell(t *testing.T) {
	g, err := gridFromTree(gridNode(nil, []float64{0}, []float64{0.5}, []float64{4}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	got, err := g.Integrate([]float64{3})
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if got != 6 {
		t.Fatalf("integral = %g, want 6", got)
	}
}

func TestIntegrateAxis(t *testing.T) {
	g, err := gridFromTree(gridNode([]float64{0, 1}, []float64{0, 1, 2}, []float64{1, 1, 1}, []float64{1, 1, 1}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}

	data, err := ndarray.FromSlice([]float64{
		1, 2, 3,
		10, 20, 30,
	}, 2, 3)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	// axis -1 counts from the end.
	reduced, err := g.IntegrateAxis(data, -1)
	if err != nil {
		t.Fatalf("IntegrateAxis: %v", err)
	}
	if !slices.Equal(reduced.Shape(), []int{2}) {
		t.Fatalf("reduced shape = %v, want [2]", reduced.Shape())
	}
	if want := []float64{4, 40}; !slices.Equal(reduced.Values(), want) {
		t.Fatalf("reduced = %v, want %v", reduced.Values(), want)
	}

	if _, err := g.IntegrateAxis(data, 0); !errors.Is(err, ErrFormat) {
		t.Fatalf("axis not spanning the mesh: %v", err)
	}
}

func TestEmptyTimeAxisSubstituted(t *testing.T) {
	g, err := gridFromTree(gridNode(nil, []float64{0, 1}, []float64{1, 1}, []float64{1, 1}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	if !slices.Equal(g.Time, []float64{0}) {
		t.Fatalf("time axis = %v, want [0]", g.Time)
	}
}

func TestMomentumGridTags(t *testing.T) {
	node := gridNode([]float64{0}, []float64{0}, []float64{1}, []float64{1})
	node.PutChild("hottail", momentumNode(coeff.CoordsPXi, []float64{0, 1}, []float64{-1, 1}))
	node.PutChild("runaway", momentumNode(coeff.CoordsPparPperp, []float64{0, 2}, []float64{0, 1}))

	g, err := gridFromTree(node)
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	if g.Hottail.P1Name() != "p" || g.Hottail.P2Name() != "xi" {
		t.Fatalf("hottail coordinates (%s, %s)", g.Hottail.P1Name(), g.Hottail.P2Name())
	}
	if g.Runaway.P1Name() != "ppar" || g.Runaway.P2Name() != "pperp" {
		t.Fatalf("runaway coordinates (%s, %s)", g.Runaway.P1Name(), g.Runaway.P2Name())
	}
}

func TestUnrecognizedMomentumGridType(t *testing.T) {
	node := gridNode([]float64{0}, []float64{0}, []float64{1}, []float64{1})
	node.PutChild("hottail", momentumNode(coeff.Coords(7), []float64{0}, []float64{0}))

	if _, err := gridFromTree(node); !errors.Is(err, ErrFormat) {
		t.Fatalf("unknown grid type: %v", err)
	}
}

func TestVolumeElements(t *testing.T) {
	g, err := gridFromTree(gridNode(nil, []float64{0, 1}, []float64{0.1, 0.2}, []float64{2, 3}))
	if err != nil {
		t.Fatalf("gridFromTree: %v", err)
	}
	dv := g.VolumeElements()
	if math.Abs(dv[0]-0.2) > 1e-15 || math.Abs(dv[1]-0.6) > 1e-15 {
		t.Fatalf("dV = %v, want [0.2 0.6]", dv)
	}
}
