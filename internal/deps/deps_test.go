package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "fake-kernel")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries([]Requirement{
		{Name: "kernel", Command: exe},
		{Name: "missing", Command: "/no/such/binary"},
		{Name: "unset", Command: ""},
		{Name: "on-path", Command: "sh"},
	})

	if !results[0].Available {
		t.Fatalf("absolute executable unavailable: %+v", results[0])
	}
	if results[1].Available || results[2].Available {
		t.Fatalf("missing binaries reported available: %+v %+v", results[1], results[2])
	}
	if !results[3].Available || results[3].Detail == "" {
		t.Fatalf("PATH lookup failed: %+v", results[3])
	}
}
