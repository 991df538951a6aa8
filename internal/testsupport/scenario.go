package testsupport

import (
	"testing"

	"rekindle/pkg/settings"
	"rekindle/pkg/settings/coeff"
)

// Scenario returns a minimal verifiable simulation: constant stepping,
// a cylindrical five-cell grid, prescribed background, one dynamic
// deuterium species, both kinetic grids disabled.
func Scenario(t *testing.T) *settings.Settings {
	t.Helper()

	s := settings.New()
	for _, err := range []error{
		s.TimeStep.SetTmax(1e-3),
		s.TimeStep.SetNt(10),
		s.RadialGrid.SetNr(5),
		s.RadialGrid.SetMinorRadius(2.0),
		s.RadialGrid.SetWallRadius(2.15),
		s.RadialGrid.SetB0(5.3),
		s.EField.SetPrescribedData(coeff.Scalar(3e-4), nil, nil),
		s.TCold.SetPrescribedData(coeff.Scalar(20e3), nil, nil),
		s.Ions.AddSpecies("D", 1, settings.IonDynamic, coeff.Scalar(1e20), nil),
	} {
		if err != nil {
			t.Fatalf("testsupport: configure scenario: %v", err)
		}
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("testsupport: scenario does not verify: %v", err)
	}
	return s
}
