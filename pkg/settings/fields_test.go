package settings

import (
	"errors"
	"testing"

	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
)

func TestElectricFieldModes(t *testing.T) {
	e := NewElectricField()
	if err := e.Verify(); !errors.Is(err, conferr.Err) {
		t.Fatalf("prescribed field without data: %v", err)
	}
	if err := e.SetPrescribedData(coeff.Scalar(3.2e-4), nil, nil); err != nil {
		t.Fatalf("SetPrescribedData: %v", err)
	}
	if err := e.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Switching to self-consistent evolution needs an initial profile.
	e.SetMode(ModeSelfConsistent)
	if err := e.Verify(); !errors.Is(err, conferr.Err) {
		t.Fatalf("self-consistent field without initial profile: %v", err)
	}
	if err := e.SetInitialProfile(coeff.Scalar(0), nil); err != nil {
		t.Fatalf("SetInitialProfile: %v", err)
	}
	if err := e.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestElectricFieldPrescribedShape(t *testing.T) {
	e := NewElectricField()
	err := e.SetPrescribedData(coeff.Matrix([][]float64{{1, 2, 3}}), []float64{0}, []float64{0, 1})
	if !errors.Is(err, conferr.ErrShape) {
		t.Fatalf("mismatched radius axis: %v", err)
	}
	err = e.SetPrescribedData(coeff.Matrix([][]float64{{1, 2}}), []float64{0}, []float64{0, 1})
	if err != nil {
		t.Fatalf("SetPrescribedData: %v", err)
	}
	if got := e.PrescribedData().Data.Shape(); got[0] != 1 || got[1] != 2 {
		t.Fatalf("data shape = %v, want [1 2]", got)
	}
}

func TestElectricFieldRoundTrip(t *testing.T) {
	e := NewElectricField()
	if err := e.SetPrescribedData(coeff.Matrix([][]float64{{1, 2}, {3, 4}}),
		[]float64{0, 1e-3}, []float64{0, 2}); err != nil {
		t.Fatalf("SetPrescribedData: %v", err)
	}

	restored := NewElectricField()
	if err := restored.FromTree(e.ToTree()); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if restored.Mode() != ModePrescribed {
		t.Fatalf("mode = %d", restored.Mode())
	}
	if !restored.PrescribedData().Equal(e.PrescribedData()) {
		t.Fatalf("round trip changed prescribed data")
	}
}

func TestTemperatureRejectsNegative(t *testing.T) {
	temp := NewTemperature()
	err := temp.SetPrescribedData(coeff.Scalar(-5), nil, nil)
	if !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("negative temperature: %v", err)
	}
	err = temp.SetInitialProfile(coeff.Vector([]float64{100, -1}), []float64{0, 1})
	if !errors.Is(err, conferr.ErrOption) {
		t.Fatalf("negative initial temperature: %v", err)
	}
	if err := temp.SetPrescribedData(coeff.Scalar(25e3), nil, nil); err != nil {
		t.Fatalf("SetPrescribedData: %v", err)
	}
	if err := temp.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestTemperatureTransportRoundTrip(t *testing.T) {
	temp := NewTemperature()
	if err := temp.SetInitialProfile(coeff.Scalar(20e3), []float64{0, 1, 2}); err != nil {
		t.Fatalf("SetInitialProfile: %v", err)
	}
	if err := temp.Transport().SetMagneticPerturbation(coeff.Scalar(1e-3), nil, nil); err != nil {
		t.Fatalf("SetMagneticPerturbation: %v", err)
	}

	restored := NewTemperature()
	if err := restored.FromTree(temp.ToTree()); err != nil {
		t.Fatalf("FromTree: %v", err)
	}
	if restored.Mode() != ModeSelfConsistent {
		t.Fatalf("mode = %d, want self-consistent", restored.Mode())
	}
	if !restored.InitialProfile().Equal(temp.InitialProfile()) {
		t.Fatalf("round trip changed initial profile")
	}
	if restored.Transport().Type() != transport.RechesterRosenbluth {
		t.Fatalf("round trip lost the transport prescription")
	}
	if err := restored.Verify(); err != nil {
		t.Fatalf("verify restored: %v", err)
	}
}
