package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"rekindle/pkg/settings"
	"rekindle/pkg/sfile"
)

func TestSettingsInitWritesVerifiableStore(t *testing.T) {
	target := filepath.Join(t.TempDir(), "scenario.sfile")

	out, _, err := runCLI(t, []string{"settings", "init", target}, "")
	if err != nil {
		t.Fatalf("settings init: %v", err)
	}
	requireContains(t, out, "Wrote template scenario")

	s, err := settings.Load(context.Background(), target)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if err := s.Verify(); err != nil {
		t.Fatalf("template does not verify: %v", err)
	}

	if _, _, err := runCLI(t, []string{"settings", "init", target}, ""); err == nil {
		t.Fatalf("second init overwrote existing store")
	}
}

func TestSettingsValidateReportsResult(t *testing.T) {
	target := filepath.Join(t.TempDir(), "scenario.sfile")
	if _, _, err := runCLI(t, []string{"settings", "init", target}, ""); err != nil {
		t.Fatalf("settings init: %v", err)
	}

	out, _, err := runCLI(t, []string{"settings", "validate", target}, "")
	if err != nil {
		t.Fatalf("settings validate: %v", err)
	}
	requireContains(t, out, "is valid")
}

func TestSettingsValidateRejectsBrokenStore(t *testing.T) {
	// A store whose time stepper carries both dt and nt.
	tree := sfile.NewTree()
	ts := tree.EnsureChild("timestep")
	ts.Set("type", sfile.Int(1))
	ts.Set("tmax", sfile.Float(1e-3))
	ts.Set("dt", sfile.Float(1e-5))
	ts.Set("nt", sfile.Int(10))

	target := filepath.Join(t.TempDir(), "broken.sfile")
	if err := sfile.Save(context.Background(), target, tree); err != nil {
		t.Fatalf("save store: %v", err)
	}

	_, _, err := runCLI(t, []string{"settings", "validate", target}, "")
	if err == nil {
		t.Fatalf("broken store validated")
	}
	if !strings.Contains(err.Error(), "dt") && !strings.Contains(err.Error(), "nt") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSettingsDescribeListsNodes(t *testing.T) {
	target := filepath.Join(t.TempDir(), "scenario.sfile")
	if _, _, err := runCLI(t, []string{"settings", "init", target}, ""); err != nil {
		t.Fatalf("settings init: %v", err)
	}

	out, _, err := runCLI(t, []string{"settings", "describe", target}, "")
	if err != nil {
		t.Fatalf("settings describe: %v", err)
	}
	requireContains(t, out, "timestep/tmax")
	requireContains(t, out, "eqsys/n_i/")
	requireContains(t, out, "datasets")
}
