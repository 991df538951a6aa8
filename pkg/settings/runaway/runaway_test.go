package runaway

import (
	"errors"
	"testing"

	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
)

func TestDefaults(t *testing.T) {
	s := New()
	if s.Avalanche() != AvalancheNeglect || s.Dreicer() != DreicerDisabled ||
		s.Hottail() != HottailDisabled {
		t.Fatalf("generation mechanisms not off by default")
	}
	if c, _ := s.Compton(); c != ComptonNeglect {
		t.Fatalf("default Compton mode = %d, want neglect", c)
	}
	if s.Eceff() != EceffFull {
		t.Fatalf("default Eceff = %d, want full", s.Eceff())
	}
	init := s.InitialProfile()
	if len(init.Data) != 1 || init.Data[0] != 0 || init.Radius[0] != 0 {
		t.Fatalf("default initial profile = %+v, want zero at r=0", init)
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("verify defaults: %v", err)
	}
}

func TestComptonITERDefaults(t *testing.T) {
	s := New()
	if err := s.SetCompton(ComptonRateITERDMS, 0); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}
	mode, flux := s.Compton()
	if mode != ComptonFluid {
		t.Fatalf("mode = %d, want fluid", mode)
	}
	if flux != ITERPhotonFluxDensity {
		t.Fatalf("flux = %g, want %g", flux, ITERPhotonFluxDensity)
	}

	// An explicit flux overrides the ITER default.
	if err := s.SetCompton(ComptonRateITERDMS, 5e17); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}
	if _, flux := s.Compton(); flux != 5e17 {
		t.Fatalf("flux = %g, want 5e17", flux)
	}
}

func TestComptonRequiresFlux(t *testing.T) {
	s := New()
	if err := s.SetCompton(ComptonKinetic, 0); !errors.Is(err, conferr.Err) {
		t.Fatalf("active Compton without flux: %v", err)
	}
	if mode, _ := s.Compton(); mode != ComptonNeglect {
		t.Fatalf("failed SetCompton changed the mode to %d", mode)
	}
	if err := s.SetCompton(Compton(11), 1e18); !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("unknown Compton mode: %v", err)
	}
	if err := s.SetCompton(ComptonKinetic, 2e18); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}
	// Switching the source off keeps the flux for later.
	if err := s.SetCompton(ComptonNeglect, 0); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}
	if _, flux := s.Compton(); flux != 2e18 {
		t.Fatalf("flux = %g, want 2e18", flux)
	}
}

func TestKineticAvalancheNeedsCutoff(t *testing.T) {
	s := New()
	s.SetAvalanche(AvalancheKinetic)
	if err := s.Verify(); !errors.Is(err, conferr.Err) {
		t.Fatalf("kinetic avalanche without cutoff: %v", err)
	}
	s.SetPCutAvalanche(0.1)
	if err := s.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsUnknownModels(t *testing.T) {
	s := New()
	s.SetDreicer(Dreicer(9))
	if err := s.Verify(); !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("unknown Dreicer model: %v", err)
	}
	s.SetDreicer(DreicerNeuralNetwork)
	s.SetHottail(Hottail(5))
	if err := s.Verify(); !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("unknown hottail model: %v", err)
	}
}

func TestInitialProfile(t *testing.T) {
	s := New()
	err := s.SetInitialProfile(coeff.Vector([]float64{1e16, 5e15}), []float64{0, 1})
	if err != nil {
		t.Fatalf("SetInitialProfile: %v", err)
	}
	if err := s.SetInitialProfile(coeff.Vector([]float64{1e16, 5e15}), nil); !errors.Is(err, conferr.ErrShape) {
		t.Fatalf("profile without radial grid: %v", err)
	}
	// The failed call keeps the previous profile.
	if got := s.InitialProfile().Data; len(got) != 2 || got[0] != 1e16 {
		t.Fatalf("initial profile = %v", got)
	}
}

func TestTreeLayout(t *testing.T) {
	s := New()
	s.SetAvalanche(AvalancheFluidHesslow)
	s.SetTritium(true)
	if err := s.SetCompton(ComptonFluid, 3e17); err != nil {
		t.Fatalf("SetCompton: %v", err)
	}

	node := s.ToTree()
	if v, err := node.Int("avalanche"); err != nil || Avalanche(v) != AvalancheFluidHesslow {
		t.Fatalf("avalanche = %d (%v)", v, err)
	}
	if v, err := node.Bool("tritium"); err != nil || !v {
		t.Fatalf("tritium = %t (%v)", v, err)
	}
	compton, ok := node.Child("compton")
	if !ok {
		t.Fatalf("missing compton child")
	}
	if v, err := compton.Float("flux"); err != nil || v != 3e17 {
		t.Fatalf("compton flux = %g (%v)", v, err)
	}
	for _, name := range []string{"init", "adv_interp", "transport"} {
		if _, ok := node.Child(name); !ok {
			t.Fatalf("missing child %q", name)
		}
	}
}

func TestTreeRoundTrip(t *testing.T) {
	s := New()
	s.SetAvalanche(AvalancheKinetic)
	s.SetPCutAvalanche(0.05)
	s.SetDreicer(DreicerConnorHastie)
	s.SetEceff(EceffCylindrical)
	s.SetHottail(HottailAnalyticAltPc)
	s.SetNegativeRunaways(true)
	if err := s.SetInitialProfile(coeff.Scalar(1e15), []float64{0, 0.5, 1}); err != nil {
		t.Fatalf("SetInitialProfile: %v", err)
	}
	if err := s.Transport().PrescribeDiffusion(coeff.Scalar(0.3), coeff.Axes{}); err != nil {
		t.Fatalf("PrescribeDiffusion: %v", err)
	}

	restored := New()
	if err := restored.FromTree(s.ToTree()); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if restored.Avalanche() != AvalancheKinetic || restored.PCutAvalanche() != 0.05 ||
		restored.Dreicer() != DreicerConnorHastie || restored.Eceff() != EceffCylindrical ||
		restored.Hottail() != HottailAnalyticAltPc || !restored.NegativeRunaways() {
		t.Fatalf("round trip changed models: %+v", restored)
	}
	if !restored.InitialProfile().Equal(s.InitialProfile()) {
		t.Fatalf("round trip changed the initial profile")
	}
	if restored.Transport().Type() != transport.Prescribed {
		t.Fatalf("round trip lost the transport prescription")
	}
	if err := restored.Verify(); err != nil {
		t.Fatalf("verify restored: %v", err)
	}
}
