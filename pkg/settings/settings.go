// Package settings assembles the full configuration of a simulation:
// the time stepper, the radial and momentum grids, the background
// plasma, the kinetic distributions and the runaway density, plus the
// solver and auxiliary output selection. The aggregate serializes to a
// settings store the kernel reads back, and verifies both every
// component and the rules coupling them before anything is written.
package settings

import (
	"context"

	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/distfunc"
	"rekindle/pkg/settings/runaway"
	"rekindle/pkg/settings/timestep"
	"rekindle/pkg/sfile"
)

// Settings is the root configuration object. Components are exported
// and configured in place.
type Settings struct {
	TimeStep    *timestep.Settings
	RadialGrid  *RadialGrid
	HotTailGrid *MomentumGridSettings
	RunawayGrid *MomentumGridSettings

	EField *ElectricField
	TCold  *Temperature
	Ions   *Ions
	FHot   *distfunc.Settings
	FRe    *distfunc.Settings
	NRe    *runaway.Settings

	Solver *Solver
	Other  *OtherOptions
}

// New returns a configuration with both kinetic grids disabled and
// every component at its defaults. The runaway distribution absorbs at
// its momentum boundary instead of extrapolating, since whatever leaves
// the runaway grid is lost rather than re-thermalized.
func New() *Settings {
	s := &Settings{
		TimeStep:    timestep.New(),
		RadialGrid:  NewRadialGrid(),
		HotTailGrid: newMomentumGrid("hottailgrid"),
		RunawayGrid: newMomentumGrid("runawaygrid"),
		EField:      NewElectricField(),
		TCold:       NewTemperature(),
		Ions:        NewIons(),
		FHot:        distfunc.New("f_hot"),
		FRe:         distfunc.New("f_re"),
		NRe:         runaway.New(),
		Solver:      NewSolver(),
		Other:       NewOtherOptions(),
	}
	s.FRe.SetBoundaryCondition(distfunc.BCF0)
	return s
}

// EnableHottail selects a hot-tail generation model and, for any active
// model, switches the hot electron population to its analytical
// representation, which the model samples from.
func (s *Settings) EnableHottail(m runaway.Hottail) {
	s.NRe.SetHottail(m)
	if m != runaway.HottailDisabled {
		s.FHot.EnableAnalyticalDistribution(true)
	}
}

// Verify checks every component and then the rules that couple them.
// The first violation is returned.
func (s *Settings) Verify() error {
	for _, v := range []interface{ Verify() error }{
		s.TimeStep, s.RadialGrid, s.HotTailGrid, s.RunawayGrid,
		s.EField, s.TCold, s.Ions,
	} {
		if err := v.Verify(); err != nil {
			return err
		}
	}
	if err := s.FHot.Verify(s.HotTailGrid.Enabled()); err != nil {
		return err
	}
	if err := s.FRe.Verify(s.RunawayGrid.Enabled()); err != nil {
		return err
	}
	if err := s.NRe.Verify(); err != nil {
		return err
	}
	if err := s.Solver.Verify(); err != nil {
		return err
	}

	if s.NRe.Hottail() != runaway.HottailDisabled && s.FHot.Mode() == distfunc.ModeNumerical {
		return conferr.New(conferr.ErrConsistency, "n_re", "hottail",
			"hot-tail generation requires the analytical hot electron mode")
	}
	if s.NRe.Avalanche() == runaway.AvalancheKinetic &&
		!s.HotTailGrid.Enabled() && !s.RunawayGrid.Enabled() {
		return conferr.New(conferr.ErrConsistency, "n_re", "avalanche",
			"kinetic avalanche source requires an enabled kinetic grid")
	}
	if c, _ := s.NRe.Compton(); c == runaway.ComptonKinetic && !s.HotTailGrid.Enabled() {
		return conferr.New(conferr.ErrConsistency, "n_re", "compton",
			"kinetic Compton source requires the hot-tail grid")
	}
	return nil
}

// ToTree verifies the configuration and serializes it as a store tree.
func (s *Settings) ToTree() (*sfile.Tree, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	root := sfile.NewTree()
	root.PutChild("timestep", s.TimeStep.ToTree())
	root.PutChild("radialgrid", s.RadialGrid.ToTree())
	root.PutChild("hottailgrid", s.HotTailGrid.ToTree())
	root.PutChild("runawaygrid", s.RunawayGrid.ToTree())
	root.PutChild("solver", s.Solver.ToTree())

	eqsys := root.EnsureChild("eqsys")
	eqsys.PutChild("E_field", s.EField.ToTree())
	eqsys.PutChild("T_cold", s.TCold.ToTree())
	eqsys.PutChild("n_i", s.Ions.ToTree())
	eqsys.PutChild("f_hot", s.FHot.ToTree(s.HotTailGrid.Enabled()))
	eqsys.PutChild("f_re", s.FRe.ToTree(s.RunawayGrid.Enabled()))
	eqsys.PutChild("n_re", s.NRe.ToTree())

	root.PutChild("other", s.Other.ToTree())
	return root, nil
}

// FromTree loads the configuration from a store tree. Absent nodes keep
// their defaults; the result is fully verified.
func (s *Settings) FromTree(root *sfile.Tree) error {
	for _, e := range []struct {
		name string
		load func(*sfile.Tree) error
	}{
		{"timestep", s.TimeStep.FromTree},
		{"radialgrid", s.RadialGrid.FromTree},
		{"hottailgrid", s.HotTailGrid.FromTree},
		{"runawaygrid", s.RunawayGrid.FromTree},
		{"solver", s.Solver.FromTree},
		{"other", s.Other.FromTree},
	} {
		if child, ok := root.Child(e.name); ok {
			if err := e.load(child); err != nil {
				return err
			}
		}
	}
	if eqsys, ok := root.Child("eqsys"); ok {
		for _, e := range []struct {
			name string
			load func(*sfile.Tree) error
		}{
			{"E_field", s.EField.FromTree},
			{"T_cold", s.TCold.FromTree},
			{"n_i", s.Ions.FromTree},
			{"f_hot", s.FHot.FromTree},
			{"f_re", s.FRe.FromTree},
			{"n_re", s.NRe.FromTree},
		} {
			if child, ok := eqsys.Child(e.name); ok {
				if err := e.load(child); err != nil {
					return err
				}
			}
		}
	}
	return s.Verify()
}

// Save verifies the configuration and writes it to a settings store at
// path, replacing any previous content.
func (s *Settings) Save(ctx context.Context, path string) error {
	tree, err := s.ToTree()
	if err != nil {
		return err
	}
	return sfile.Save(ctx, path, tree)
}

// Load reads a configuration from the settings store at path and
// verifies it.
func Load(ctx context.Context, path string) (*Settings, error) {
	tree, err := sfile.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	s := New()
	if err := s.FromTree(tree); err != nil {
		return nil, err
	}
	return s, nil
}
