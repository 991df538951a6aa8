package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/distfunc"
	"rekindle/pkg/settings/runaway"
	"rekindle/pkg/sfile"
)

// fluidScenario is a minimal self-contained simulation: prescribed
// background, dynamic deuterium, both kinetic grids disabled.
func fluidScenario(t *testing.T) *Settings {
	t.Helper()
	s := New()
	for _, err := range []error{
		s.TimeStep.SetTmax(1e-3),
		s.TimeStep.SetNt(20),
		s.RadialGrid.SetNr(5),
		s.RadialGrid.SetMinorRadius(2.0),
		s.RadialGrid.SetWallRadius(2.15),
		s.RadialGrid.SetB0(5.3),
		s.EField.SetPrescribedData(coeff.Scalar(3.2e-4), nil, nil),
		s.TCold.SetPrescribedData(coeff.Scalar(25e3), nil, nil),
		s.Ions.AddSpecies("D", 1, IonDynamic, coeff.Scalar(1e20), nil),
	} {
		if err != nil {
			t.Fatalf("configure scenario: %v", err)
		}
	}
	return s
}

func TestFluidScenarioVerifies(t *testing.T) {
	if err := fluidScenario(t).Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// Fresh defaults are not runnable: no end time, no grid, no data.
	if err := New().Verify(); !errors.Is(err, conferr.Err) {
		t.Fatalf("defaults verified: %v", err)
	}
}

func TestRunawayDistributionBoundaryDefault(t *testing.T) {
	s := New()
	if s.FRe.BoundaryCondition() != distfunc.BCF0 {
		t.Fatalf("f_re bc = %d, want absorbing", s.FRe.BoundaryCondition())
	}
	if s.FHot.BoundaryCondition() != distfunc.BCPhiConst {
		t.Fatalf("f_hot bc = %d, want constant flux", s.FHot.BoundaryCondition())
	}
}

func TestHottailRequiresAnalyticalMode(t *testing.T) {
	s := fluidScenario(t)
	s.NRe.SetHottail(runaway.HottailAnalytic)
	if err := s.Verify(); !errors.Is(err, conferr.ErrConsistency) {
		t.Fatalf("hottail with numerical f_hot: %v", err)
	}

	// EnableHottail switches f_hot to the analytical representation,
	// which then needs its Maxwellian profiles.
	s.EnableHottail(runaway.HottailAnalytic)
	if s.FHot.Mode() != distfunc.ModeAnalytical {
		t.Fatalf("EnableHottail left f_hot numerical")
	}
	if err := s.FHot.SetInitialProfiles(coeff.Scalar(5e19), coeff.Scalar(25e3), nil, nil); err != nil {
		t.Fatalf("SetInitialProfiles: %v", err)
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// The analytical representation cannot coexist with an enabled
	// hot-tail grid.
	s.HotTailGrid.SetEnabled(true)
	if err := s.HotTailGrid.SetPmax(1.0); err != nil {
		t.Fatalf("SetPmax: %v", err)
	}
	if err := s.Verify(); !errors.Is(err, conferr.ErrConsistency) {
		t.Fatalf("analytical f_hot with enabled grid: %v", err)
	}
}

func TestKineticAvalancheNeedsKineticGrid(t *testing.T) {
	s := fluidScenario(t)
	s.NRe.SetAvalanche(runaway.AvalancheKinetic)
	s.NRe.SetPCutAvalanche(0.1)
	if err := s.Verify(); !errors.Is(err, conferr.ErrConsistency) {
		t.Fatalf("kinetic avalanche without kinetic grids: %v", err)
	}

	s.RunawayGrid.SetEnabled(true)
	if err := s.RunawayGrid.SetPmax(0.8); err != nil {
		t.Fatalf("SetPmax: %v", err)
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestKineticComptonNeedsHotTailGrid(t *testing.T) {
	s := fluidScenario(t)
	if err := s.NRe.SetCompton(runaway.ComptonKinetic, 1e18); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}
	if err := s.Verify(); !errors.Is(err, conferr.ErrConsistency) {
		t.Fatalf("kinetic Compton without hot-tail grid: %v", err)
	}

	s.HotTailGrid.SetEnabled(true)
	if err := s.HotTailGrid.SetPmax(1.5); err != nil {
		t.Fatalf("SetPmax: %v", err)
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestTreeRoundTripIdempotent(t *testing.T) {
	s := fluidScenario(t)
	s.HotTailGrid.SetEnabled(true)
	for _, err := range []error{
		s.HotTailGrid.SetNp(80),
		s.HotTailGrid.SetNxi(10),
		s.HotTailGrid.SetPmax(2.0),
		s.FHot.SetInitialValue(coeff.Scalar(1e5),
			[]float64{0, 1, 2}, coeff.MomentumAxes{P: []float64{0, 0.5, 1}, Xi: []float64{-1, 1}}),
		s.FHot.Transport().PrescribeDiffusion(coeff.Scalar(0.5), coeff.Axes{}),
		s.Solver.SetType(SolverNonlinear),
		s.Solver.SetLinearSolver(LinearGMRES),
	} {
		if err != nil {
			t.Fatalf("configure scenario: %v", err)
		}
	}
	s.NRe.SetDreicer(runaway.DreicerNeuralNetwork)
	s.Other.Include("fluid", "nu_s", "nu_D")

	first, err := s.ToTree()
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	loaded := New()
	if err := loaded.FromTree(first); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	second, err := loaded.ToTree()
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	if !first.Equal(second) {
		t.Fatalf("serialized tree changed across a round trip")
	}
}

func TestFromTreeVerifies(t *testing.T) {
	tree, err := fluidScenario(t).ToTree()
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	// Dropping the timestep node leaves the defaults, which have no
	// end time and must fail the final verification.
	tree.Set("timestep", sfile.Int(0))
	if err := New().FromTree(tree); !errors.Is(err, conferr.Err) {
		t.Fatalf("FromTree on broken tree: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.sfile")

	s := fluidScenario(t)
	if err := s.Save(ctx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want, err := s.ToTree()
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	got, err := loaded.ToTree()
	if err != nil {
		t.Fatalf("ToTree: %v", err)
	}
	if !want.Equal(got) {
		t.Fatalf("loaded settings serialize differently")
	}

	if _, err := Load(ctx, filepath.Join(t.TempDir(), "missing.sfile")); err == nil {
		t.Fatalf("Load of missing store succeeded")
	}
}

func TestSaveRefusesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.sfile")
	if err := New().Save(context.Background(), path); !errors.Is(err, conferr.Err) {
		t.Fatalf("Save of unverifiable settings: %v", err)
	}
}
