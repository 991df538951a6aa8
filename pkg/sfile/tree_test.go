package sfile_test

import (
	"testing"

	"rekindle/pkg/ndarray"
	"rekindle/pkg/sfile"
)

func TestSetReplacesGroupOfSameName(t *testing.T) {
	tree := sfile.NewTree()
	tree.EnsureChild("timestep").Set("tmax", sfile.Float(1))
	tree.Set("timestep", sfile.Int(3))

	if _, ok := tree.Child("timestep"); ok {
		t.Fatal("group survived a dataset assignment of the same name")
	}
	v, err := tree.Int("timestep")
	if err != nil || v != 3 {
		t.Fatalf("Int(timestep) = %v, %v", v, err)
	}
}

func TestEnsureChildIsIdempotent(t *testing.T) {
	tree := sfile.NewTree()
	a := tree.EnsureChild("eqsys")
	a.Set("n", sfile.Float(2))
	b := tree.EnsureChild("eqsys")
	if a != b {
		t.Fatal("EnsureChild returned a new group for an existing name")
	}
	if _, err := b.Float("n"); err != nil {
		t.Fatalf("existing dataset lost: %v", err)
	}
}

func TestScalarCoercions(t *testing.T) {
	tree := sfile.NewTree()
	tree.Set("one_element", sfile.Floats([]float64{4.5}))
	tree.Set("integral", sfile.Float(3))
	tree.Set("flag", sfile.Int(1))

	// The kernel writes scalars as one-element arrays.
	if v, err := tree.Float("one_element"); err != nil || v != 4.5 {
		t.Fatalf("Float(one_element) = %v, %v", v, err)
	}
	if v, err := tree.Int("integral"); err != nil || v != 3 {
		t.Fatalf("Int(integral) = %v, %v", v, err)
	}
	if v, err := tree.Bool("flag"); err != nil || !v {
		t.Fatalf("Bool(flag) = %v, %v", v, err)
	}
	if v, err := tree.Floats("integral"); err != nil || len(v) != 1 || v[0] != 3 {
		t.Fatalf("Floats(integral) = %v, %v", v, err)
	}
}

func TestKindMismatchNamesEntry(t *testing.T) {
	tree := sfile.NewTree()
	tree.Set("names", sfile.String("D;Ar;"))
	if _, err := tree.Float("names"); err == nil {
		t.Fatal("expected error reading a string as float")
	}
	if _, err := tree.Float("absent"); err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestTreeEqual(t *testing.T) {
	build := func() *sfile.Tree {
		tree := sfile.NewTree()
		ts := tree.EnsureChild("timestep")
		ts.Set("tmax", sfile.Float(1e-3))
		ts.Set("nt", sfile.Int(20))
		grid, _ := ndarray.FromSlice([]float64{1, 2, 3, 4}, 2, 2)
		tree.Set("data", sfile.Arr(grid))
		return tree
	}

	a, b := build(), build()
	if !a.Equal(b) {
		t.Fatal("identical trees reported unequal")
	}
	b.EnsureChild("timestep").Set("tmax", sfile.Float(2e-3))
	if a.Equal(b) {
		t.Fatal("different trees reported equal")
	}
}
