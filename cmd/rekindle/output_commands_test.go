package main

import (
	"strings"
	"testing"
)

func TestOutputSummaryListsQuantities(t *testing.T) {
	store := writeOutputStore(t, t.TempDir())

	out, _, err := runCLI(t, []string{"output", "summary", store}, "")
	if err != nil {
		t.Fatalf("output summary: %v", err)
	}
	requireContains(t, out, "Time steps:   3")
	requireContains(t, out, "Radial cells: 2")
	requireContains(t, out, "I_p")
	requireContains(t, out, "scalar")
	requireContains(t, out, "n_cold")
	requireContains(t, out, "fluid")
}

func TestOutputIntegrateFluidQuantity(t *testing.T) {
	store := writeOutputStore(t, t.TempDir())

	out, _, err := runCLI(t, []string{"output", "integrate", store, "n_cold"}, "")
	if err != nil {
		t.Fatalf("output integrate: %v", err)
	}
	// dV = Vprime*dr = [1,2], endpoint weights halved: [0.5, 1].
	// Uniform profiles 10/20/30 integrate to 15/30/45.
	for _, want := range []string{"15", "30", "45"} {
		requireContains(t, out, want)
	}
}

func TestOutputIntegrateRejectsScalar(t *testing.T) {
	store := writeOutputStore(t, t.TempDir())

	_, _, err := runCLI(t, []string{"output", "integrate", store, "I_p"}, "")
	if err == nil || !strings.Contains(err.Error(), "scalar") {
		t.Fatalf("scalar quantity integrated: %v", err)
	}
}

func TestOutputSummaryRejectsMissingStore(t *testing.T) {
	if _, _, err := runCLI(t, []string{"output", "summary", "/no/such/store.sfile"}, ""); err == nil {
		t.Fatalf("missing store accepted")
	}
}
