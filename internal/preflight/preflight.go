// Package preflight runs the checks that must pass before a kernel
// invocation: the solver binary resolves and the run directories are
// usable. Catching a bad environment here is much cheaper than a failed
// run after minutes of solving.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"rekindle/internal/config"
	"rekindle/internal/deps"
)

// Result reports one preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run performs every preflight check for the configuration.
func Run(cfg *config.Config) []Result {
	return []Result{
		CheckKernelBinary(cfg),
		CheckDirectoryAccess("work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("log directory", cfg.Paths.LogDir),
	}
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// CheckKernelBinary verifies the configured solver binary resolves.
func CheckKernelBinary(cfg *config.Config) Result {
	status := deps.CheckBinaries([]deps.Requirement{{
		Name:        "kernel",
		Command:     cfg.Kernel.Binary,
		Description: "runs the simulation",
	}})[0]
	detail := status.Detail
	if detail == "" {
		detail = status.Command
	}
	return Result{Name: "kernel binary", Passed: status.Available, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable, writable, and traversable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s does not exist", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s: stat: %v", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not a directory", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s: insufficient permissions: %v", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
