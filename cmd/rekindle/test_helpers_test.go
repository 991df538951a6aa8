package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rekindle/internal/config"
	"rekindle/internal/testsupport"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/sfile"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfg := testsupport.NewConfig(t)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nwork_dir = %q\nlog_dir = %q\n\n[kernel]\nbinary = %q\ntimeout_seconds = %d\n\n[logging]\nformat = %q\nlevel = %q\n",
		cfg.Paths.WorkDir,
		cfg.Paths.LogDir,
		cfg.Kernel.Binary,
		cfg.Kernel.TimeoutSeconds,
		cfg.Logging.Format,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeOutputStore builds a small fluid-only output store: three time
// steps, two radial cells, one scalar and one profile quantity.
func writeOutputStore(t *testing.T, dir string) string {
	t.Helper()

	tree := sfile.NewTree()
	grid := tree.EnsureChild("grid")
	grid.Set("t", sfile.Floats([]float64{0, 0.5, 1}))
	grid.Set("r", sfile.Floats([]float64{0.25, 0.75}))
	grid.Set("dr", sfile.Floats([]float64{1, 2}))
	grid.Set("Vprime", sfile.Floats([]float64{1, 1}))

	eqsys := tree.EnsureChild("eqsys")
	eqsys.Set("I_p", sfile.Floats([]float64{1e5, 2e5, 3e5}))
	nCold, err := ndarray.From2D([][]float64{{10, 10}, {20, 20}, {30, 30}})
	if err != nil {
		t.Fatalf("build n_cold: %v", err)
	}
	eqsys.Set("n_cold", sfile.Arr(nCold))

	path := filepath.Join(dir, "output.sfile")
	if err := sfile.Save(context.Background(), path, tree); err != nil {
		t.Fatalf("save output store: %v", err)
	}
	return path
}
