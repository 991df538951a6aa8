package transport_test

import (
	"errors"
	"testing"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
)

func TestDisabledTransportVerifies(t *testing.T) {
	s := transport.New("n_re", coeff.Fluid)
	if s.Type() != transport.None {
		t.Fatalf("fresh type = %v, want None", s.Type())
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestPrescribeDiffusionSwitchesType(t *testing.T) {
	s := transport.New("n_re", coeff.Fluid)
	if err := s.PrescribeDiffusion(coeff.Scalar(1.5), coeff.Axes{}); err != nil {
		t.Fatalf("PrescribeDiffusion: %v", err)
	}
	if s.Type() != transport.Prescribed {
		t.Fatalf("type = %v, want Prescribed", s.Type())
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	c := s.Diffusion()
	if c == nil || c.Data.At(0, 0) != 1.5 {
		t.Fatal("scalar diffusion coefficient not normalized")
	}
}

func TestKineticCoefficientRequiresMomentumPair(t *testing.T) {
	s := transport.New("f_hot", coeff.Kinetic)
	data := ndarray.New(1, 1, 2, 2)
	err := s.PrescribeAdvection(coeff.Array(data), coeff.Axes{
		Time:   []float64{0},
		Radius: []float64{0},
	})
	if !errors.Is(err, conferr.ErrExclusive) {
		t.Fatalf("err = %v, want ErrExclusive", err)
	}
}

func TestMagneticPerturbationUsesFluidShapeForKineticQuantities(t *testing.T) {
	s := transport.New("f_re", coeff.Kinetic)
	dBB, _ := ndarray.FromSlice([]float64{1e-3, 2e-3, 1e-3, 3e-3}, 2, 2)
	err := s.SetMagneticPerturbation(coeff.Array(dBB), []float64{0, 1}, []float64{0, 0.5})
	if err != nil {
		t.Fatalf("SetMagneticPerturbation: %v", err)
	}
	if s.Type() != transport.RechesterRosenbluth {
		t.Fatalf("type = %v, want RechesterRosenbluth", s.Type())
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestInactivePrescriptionIsNotSerialized(t *testing.T) {
	s := transport.New("n_re", coeff.Fluid)
	if err := s.PrescribeDiffusion(coeff.Scalar(1), coeff.Axes{}); err != nil {
		t.Fatalf("PrescribeDiffusion: %v", err)
	}
	if err := s.SetMagneticPerturbation(coeff.Scalar(1e-3), nil, nil); err != nil {
		t.Fatalf("SetMagneticPerturbation: %v", err)
	}

	node := s.ToTree()
	if _, ok := node.Child("drr"); ok {
		t.Fatal("inactive diffusion coefficient serialized")
	}
	if _, ok := node.Child("dBB"); !ok {
		t.Fatal("active perturbation level missing")
	}
}

func TestVerifyRejectsUnknownBoundaryCondition(t *testing.T) {
	s := transport.New("n_re", coeff.Fluid)
	if err := s.PrescribeDiffusion(coeff.Scalar(1), coeff.Axes{}); err != nil {
		t.Fatalf("PrescribeDiffusion: %v", err)
	}
	s.SetBoundaryCondition(transport.BC(9))
	if err := s.Verify(); !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("err = %v, want ErrOption", err)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	s := transport.New("f_hot", coeff.Kinetic)
	data := ndarray.New(2, 3, 4, 5)
	for i := 0; i < data.Len(); i++ {
		data.Values()[i] = float64(i) / 10
	}
	err := s.PrescribeDiffusion(coeff.Array(data), coeff.Axes{
		Time:   []float64{0, 1},
		Radius: []float64{0, 0.5, 1},
		MomentumAxes: coeff.MomentumAxes{
			P:  []float64{0, 1, 2, 3, 4},
			Xi: []float64{-1, -0.5, 0.5, 1},
		},
	})
	if err != nil {
		t.Fatalf("PrescribeDiffusion: %v", err)
	}
	s.SetBoundaryCondition(transport.BCF0)

	back := transport.New("f_hot", coeff.Kinetic)
	if err := back.FromTree(s.ToTree()); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if err := back.Verify(); err != nil {
		t.Fatalf("Verify after load: %v", err)
	}
	if !s.ToTree().Equal(back.ToTree()) {
		t.Fatal("transport settings changed across a tree round trip")
	}
}
