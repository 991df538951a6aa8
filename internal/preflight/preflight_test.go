package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"rekindle/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "runs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	exe := filepath.Join(base, "fake-kernel")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	cfg.Kernel.Binary = exe
	return &cfg
}

func TestRunPasses(t *testing.T) {
	results := Run(testConfig(t))
	if !AllPassed(results) {
		t.Fatalf("checks failed: %+v", results)
	}
}

func TestMissingKernelBinaryFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Kernel.Binary = "/no/such/kernel"
	results := Run(cfg)
	if AllPassed(results) {
		t.Fatalf("missing binary passed preflight")
	}
	if results[0].Passed {
		t.Fatalf("kernel check passed: %+v", results[0])
	}
}

func TestMissingDirectoryFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.WorkDir = filepath.Join(t.TempDir(), "absent")
	if AllPassed(Run(cfg)) {
		t.Fatalf("absent work directory passed preflight")
	}
}

func TestDirectoryAccessDetails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if r := CheckDirectoryAccess("work directory", file); r.Passed {
		t.Fatalf("regular file passed as directory: %+v", r)
	}
}
