// Package testsupport provides shared fixtures for the tool packages:
// validated configurations on temporary directories and a small
// runnable simulation scenario.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"rekindle/internal/config"
)

// NewConfig returns a validated configuration rooted in temporary
// directories, with a stub kernel binary that exists and is executable.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "runs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Kernel.Binary = StubKernel(t)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("testsupport: ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("testsupport: config invalid: %v", err)
	}
	return &cfg
}

// StubKernel writes an executable no-op script and returns its path.
func StubKernel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-kernel")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("testsupport: write stub kernel: %v", err)
	}
	return path
}
