package main

import (
	"testing"

	"github.com/urfave/cli/v2"
)

// TestAllFlagsExist verifies every flag name flagsSlice draws from exists
// in appFlagsMap, preventing typos in the per-command subset lists.
func TestAllFlagsExist(t *testing.T) {
	expected := []string{
		"instance", "time", "explore-time", "compress-time",
		"early-termination", "seed", "output", "log-file",
		"svg-final", "svg-every-feasible", "svg-live", "runs",
	}
	for _, name := range expected {
		if _, ok := appFlagsMap[name]; !ok {
			t.Errorf("expected flag %q not found in appFlagsMap", name)
		}
	}
}

// TestFlagDefaults verifies the handful of flags with non-zero defaults.
func TestFlagDefaults(t *testing.T) {
	if f, ok := appFlagsMap["output"].(*cli.StringFlag); !ok || f.Value != "solution.json" {
		t.Errorf("output flag default = %v, want solution.json", appFlagsMap["output"])
	}
	if f, ok := appFlagsMap["runs"].(*cli.IntFlag); !ok || f.Value != 5 {
		t.Errorf("runs flag default = %v, want 5", appFlagsMap["runs"])
	}
	if f, ok := appFlagsMap["seed"].(*cli.Int64Flag); !ok || f.Value != 0 {
		t.Errorf("seed flag default = %v, want 0", appFlagsMap["seed"])
	}
}

// TestFlagsSliceSubset verifies flagsSlice returns exactly the requested
// flags, in order, ignoring unknown keys.
func TestFlagsSliceSubset(t *testing.T) {
	got := flagsSlice("instance", "seed", "nonexistent")
	if len(got) != 2 {
		t.Fatalf("flagsSlice returned %d flags, want 2", len(got))
	}
	if got[0].Names()[0] != "instance" || got[1].Names()[0] != "seed" {
		t.Errorf("flagsSlice returned flags in wrong order: %v, %v", got[0].Names(), got[1].Names())
	}
}
