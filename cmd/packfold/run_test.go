package main

import (
	"flag"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/instance"
	"github.com/erlendvik/packfold/internal/model"
)

// newTestContext builds a *cli.Context with the given flags already
// parsed, mirroring how run/bench's Action hooks receive one.
func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	app := &cli.App{Flags: flagsSlice("instance", "time", "explore-time", "compress-time", "seed")}
	for _, f := range app.Flags {
		if err := f.Apply(set); err != nil {
			t.Fatalf("applying flag: %v", err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parsing args: %v", err)
	}
	return cli.NewContext(app, set, nil)
}

func TestTimeSplitGlobal(t *testing.T) {
	c := newTestContext(t, "-time=100")
	explore, compress := timeSplit(c)
	if explore != 80*time.Second || compress != 20*time.Second {
		t.Errorf("timeSplit(-t 100) = (%s, %s), want (80s, 20s)", explore, compress)
	}
}

func TestTimeSplitExplicit(t *testing.T) {
	c := newTestContext(t, "-explore-time=30", "-compress-time=10")
	explore, compress := timeSplit(c)
	if explore != 30*time.Second || compress != 10*time.Second {
		t.Errorf("timeSplit(-e 30 -c 10) = (%s, %s), want (30s, 10s)", explore, compress)
	}
}

func TestTimeSplitFallback(t *testing.T) {
	c := newTestContext(t)
	explore, compress := timeSplit(c)
	if explore != 480*time.Second || compress != 120*time.Second {
		t.Errorf("timeSplit(no flags) = (%s, %s), want (480s, 120s)", explore, compress)
	}
}

func TestValidateRunFlagsRejectsGlobalWithExplicit(t *testing.T) {
	c := newTestContext(t, "-time=100", "-explore-time=30", "-compress-time=10")
	if err := validateRunFlags(c); err == nil {
		t.Error("validateRunFlags() = nil, want error for -t combined with -e/-c")
	}
}

func TestValidateRunFlagsRejectsLoneExplore(t *testing.T) {
	c := newTestContext(t, "-explore-time=30")
	if err := validateRunFlags(c); err == nil {
		t.Error("validateRunFlags() = nil, want error for -e without -c")
	}
}

func TestValidateRunFlagsAcceptsNone(t *testing.T) {
	c := newTestContext(t)
	if err := validateRunFlags(c); err != nil {
		t.Errorf("validateRunFlags() = %v, want nil", err)
	}
}

func TestResolveSeedZeroFallsBackToTime(t *testing.T) {
	before := uint64(time.Now().UnixNano())
	got := resolveSeed(0)
	after := uint64(time.Now().UnixNano())
	if got < before || got > after {
		t.Errorf("resolveSeed(0) = %d, want value between %d and %d", got, before, after)
	}
}

func TestResolveSeedNonzeroPassesThrough(t *testing.T) {
	if got := resolveSeed(42); got != 42 {
		t.Errorf("resolveSeed(42) = %d, want 42", got)
	}
}

func TestTotalItemArea(t *testing.T) {
	square := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	item := model.NewItem(0, "square", square, model.FixedRotation(), 3)
	inst := &instance.Instance{Items: []*model.Item{item}}

	got := totalItemArea(inst)
	want := 4.0 * 3
	if got != want {
		t.Errorf("totalItemArea() = %v, want %v", got, want)
	}
}
