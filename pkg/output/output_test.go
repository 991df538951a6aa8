package output

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"rekindle/pkg/ndarray"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// sampleRun builds an output tree the way the kernel writes one: a grid
// with an enabled hot-tail momentum grid, one quantity of each rank, and
// an auxiliary category.
func sampleRun(t *testing.T) *sfile.Tree {
	t.Helper()

	root := sfile.NewTree()
	grid := gridNode([]float64{0, 0.5, 1}, []float64{0, 1}, []float64{1, 1}, []float64{1, 1})
	grid.PutChild("hottail", momentumNode(coeff.CoordsPXi, []float64{0, 1}, []float64{-1, 0, 1}))
	root.PutChild("grid", grid)

	eqsys := root.EnsureChild("eqsys")
	eqsys.Set("I_p", sfile.Floats([]float64{1, 2, 3}))

	ncold, err := ndarray.FromSlice([]float64{
		1, 2,
		3, 4,
		5, 6,
	}, 3, 2)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	eqsys.Set("n_cold", sfile.Arr(ncold))

	fhot := ndarray.Full(7, 3, 2, 3, 2)
	eqsys.Set("f_hot", sfile.Arr(fhot))

	other := root.EnsureChild("other")
	fluid := other.EnsureChild("fluid")
	fluid.Set("runawayRate", sfile.Arr(ndarray.Full(1, 2, 2)))
	hottail := other.EnsureChild("hottail")
	hottail.Set("nu_s_f1", sfile.Arr(ndarray.Full(2, 2, 2, 3, 2)))

	return root
}

func TestFromTreeClassifiesByRank(t *testing.T) {
	out, err := FromTree(sampleRun(t))
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}

	if want := []string{"I_p", "f_hot", "n_cold"}; !slices.Equal(out.Names(), want) {
		t.Fatalf("names = %v, want %v", out.Names(), want)
	}

	ip, err := out.Scalar("I_p")
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if !slices.Equal(ip.Data, []float64{1, 2, 3}) {
		t.Fatalf("I_p = %v", ip.Data)
	}

	ncold, err := out.Fluid("n_cold")
	if err != nil {
		t.Fatalf("Fluid: %v", err)
	}
	if !slices.Equal(ncold.At(1), []float64{3, 4}) {
		t.Fatalf("n_cold at step 1 = %v", ncold.At(1))
	}

	fhot, err := out.Kinetic("f_hot")
	if err != nil {
		t.Fatalf("Kinetic: %v", err)
	}
	if fhot.Momentum == nil || fhot.Momentum.Name != "hottail" {
		t.Fatalf("f_hot bound to %+v, want the hottail grid", fhot.Momentum)
	}
	block, err := fhot.At(2)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if !slices.Equal(block.Shape(), []int{2, 3, 2}) {
		t.Fatalf("block shape = %v", block.Shape())
	}
}

func TestWrongKindAccess(t *testing.T) {
	out, err := FromTree(sampleRun(t))
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if _, err := out.Fluid("I_p"); !errors.Is(err, ErrFormat) {
		t.Fatalf("fluid access to a scalar: %v", err)
	}
	if _, err := out.Scalar("nope"); !errors.Is(err, ErrFormat) {
		t.Fatalf("unknown quantity: %v", err)
	}
}

func TestFluidIntegrals(t *testing.T) {
	out, err := FromTree(sampleRun(t))
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	ncold, err := out.Fluid("n_cold")
	if err != nil {
		t.Fatalf("Fluid: %v", err)
	}
	// Two radial cells, both endpoints: 0.5*(a + b) per step.
	got, err := ncold.Integrals()
	if err != nil {
		t.Fatalf("Integrals: %v", err)
	}
	if want := []float64{1.5, 3.5, 5.5}; !slices.Equal(got, want) {
		t.Fatalf("integrals = %v, want %v", got, want)
	}
}

func TestOtherQuantities(t *testing.T) {
	out, err := FromTree(sampleRun(t))
	if err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if want := []string{"fluid", "hottail"}; !slices.Equal(out.OtherCategories(), want) {
		t.Fatalf("categories = %v, want %v", out.OtherCategories(), want)
	}

	hottail, err := out.Other("hottail")
	if err != nil {
		t.Fatalf("Other: %v", err)
	}
	nus, ok := hottail.Get("nu_s_f1")
	if !ok {
		t.Fatalf("nu_s_f1 missing from %v", hottail.Names())
	}
	if nus.Kind != KindKinetic || nus.Momentum == nil || nus.Momentum.Name != "hottail" {
		t.Fatalf("nu_s_f1 reconstructed as %s on %+v", nus.Kind, nus.Momentum)
	}

	fluid, err := out.Other("fluid")
	if err != nil {
		t.Fatalf("Other: %v", err)
	}
	rate, ok := fluid.Get("runawayRate")
	if !ok || rate.Kind != KindRaw {
		t.Fatalf("runawayRate loaded as %+v, want raw", rate)
	}
}

func TestSpecialQuantityNeedsItsGrid(t *testing.T) {
	tree := sampleRun(t)
	other, _ := tree.Child("other")
	runaway := other.EnsureChild("runaway")
	runaway.Set("nu_s_f2", sfile.Arr(ndarray.Full(1, 2, 2, 3, 2)))

	// The sample run has no runaway momentum grid.
	if _, err := FromTree(tree); !errors.Is(err, ErrFormat) {
		t.Fatalf("nu_s_f2 without a runaway grid: %v", err)
	}
}

func TestQuantityShapeMismatch(t *testing.T) {
	tree := sampleRun(t)
	eqsys, _ := tree.Child("eqsys")
	eqsys.Set("W_cold", sfile.Floats([]float64{1, 2}))

	if _, err := FromTree(tree); !errors.Is(err, ErrFormat) {
		t.Fatalf("scalar with the wrong step count: %v", err)
	}
}

func TestMissingGridNode(t *testing.T) {
	if _, err := FromTree(sfile.NewTree()); !errors.Is(err, ErrFormat) {
		t.Fatalf("tree without grid: %v", err)
	}
}

func TestLoadFromStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "output.sfile")
	if err := sfile.Save(ctx, path, sampleRun(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Grid.Time) != 3 {
		t.Fatalf("nt = %d, want 3", len(out.Grid.Time))
	}

	if _, err := Load(ctx, filepath.Join(t.TempDir(), "missing.sfile")); err == nil {
		t.Fatalf("Load of missing store succeeded")
	}
}
