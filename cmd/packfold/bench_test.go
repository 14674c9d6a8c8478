package main

import (
	"testing"
)

func TestBenchActionRejectsZeroRuns(t *testing.T) {
	c := newTestContext(t, "-instance=testdata/does-not-matter.json")
	if err := benchAction(c); err == nil {
		t.Error("benchAction() = nil, want error when --runs resolves to 0")
	}
}
