// Package kernel invokes the external solver binary on a serialized
// settings store and hands back the path of the output store it wrote.
package kernel

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rekindle/internal/config"
	"rekindle/internal/logging"
	"rekindle/pkg/sfile"
)

var commandContext = exec.CommandContext

// stderrTailLines bounds how much solver stderr is carried into errors.
const stderrTailLines = 8

// Progress is one progress event decoded from the kernel's stdout.
type Progress struct {
	Step    int     `json:"step"`
	Time    float64 `json:"time"`
	Tmax    float64 `json:"tmax"`
	Message string  `json:"message"`
}

// Result describes a completed kernel run.
type Result struct {
	RunID      string
	OutputPath string
	Elapsed    time.Duration
}

// RunOptions adjusts a single invocation.
type RunOptions struct {
	// OutputPath overrides the generated output store location.
	OutputPath string
	// Progress receives decoded progress events as the run advances.
	Progress func(Progress)
}

// Option configures the runner.
type Option func(*Runner)

// WithBinary overrides the configured solver binary.
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithLogger attaches a logger; without one the runner is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.log = logger
		}
	}
}

// Runner drives the external solver. One run executes at a time per
// work directory, enforced with a lock file.
type Runner struct {
	binary  string
	workDir string
	timeout time.Duration
	log     *slog.Logger
}

// New builds a runner from the tool configuration.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		binary:  cfg.Kernel.Binary,
		workDir: cfg.Paths.WorkDir,
		timeout: time.Duration(cfg.Kernel.TimeoutSeconds) * time.Second,
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the kernel on the settings store at settingsPath and
// verifies the output store it produced.
func (r *Runner) Run(ctx context.Context, settingsPath string, opts RunOptions) (Result, error) {
	if _, err := os.Stat(settingsPath); err != nil {
		return Result{}, fmt.Errorf("settings store: %w", err)
	}
	if err := os.MkdirAll(r.workDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create work directory: %w", err)
	}

	lock := flock.New(filepath.Join(r.workDir, "kernel.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Result{}, fmt.Errorf("another kernel run holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(r.workDir, "output-"+runID[:8]+".sfile")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log := r.log.With(logging.String("run", runID[:8]))
	log.Info("kernel starting",
		logging.String("settings", settingsPath),
		logging.String("output", outputPath))

	started := time.Now()
	args := []string{"--settings", settingsPath, "--output", outputPath, "--progress-json"}
	cmd := commandContext(ctx, r.binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start kernel: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Bytes()
		var p Progress
		if err := json.Unmarshal(line, &p); err != nil {
			log.Debug("kernel output", logging.String("line", string(line)))
			continue
		}
		if opts.Progress != nil {
			opts.Progress(p)
		}
		log.Debug("kernel progress",
			logging.Int("step", p.Step),
			logging.Float64("time", p.Time),
			logging.Float64("tmax", p.Tmax))
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return Result{}, fmt.Errorf("read kernel output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if tail := stderrTail(stderr.String()); tail != "" {
			return Result{}, fmt.Errorf("kernel run %s: %w: %s", runID[:8], err, tail)
		}
		return Result{}, fmt.Errorf("kernel run %s: %w", runID[:8], err)
	}

	if err := verifyOutput(ctx, outputPath); err != nil {
		return Result{}, fmt.Errorf("kernel run %s: %w", runID[:8], err)
	}

	elapsed := time.Since(started)
	log.Info("kernel finished", logging.Duration("elapsed", elapsed))
	return Result{RunID: runID, OutputPath: outputPath, Elapsed: elapsed}, nil
}

// verifyOutput confirms the kernel left a readable store with a grid
// node behind, so downstream parsing fails here rather than deep in an
// analysis script.
func verifyOutput(ctx context.Context, path string) error {
	tree, err := sfile.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("output store: %w", err)
	}
	if _, ok := tree.Child("grid"); !ok {
		return fmt.Errorf("output store %s has no grid node", path)
	}
	return nil
}

func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	out := strings.Join(lines, "; ")
	return strings.TrimSpace(out)
}
