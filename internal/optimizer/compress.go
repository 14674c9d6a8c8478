package optimizer

import (
	"math"
	"math/rand"
	"time"

	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/terminator"
)

// DecayKind selects how the compression phase's shrink step size
// decays between attempts (spec §4.13).
type DecayKind int

const (
	// TimeBased decays step linearly from hi to lo over the phase's
	// time budget, independent of attempt outcomes.
	TimeBased DecayKind = iota
	// FailureBased decays step geometrically by FailureRatio on every
	// failed attempt (spec §6: "-x ... switches compression to
	// FailureBased decay with ratio 0.9").
	FailureBased
)

// CompressParams are spec §4.13/§6's compression tunables.
type CompressParams struct {
	ShrinkRangeHi float64
	ShrinkRangeLo float64
	Decay         DecayKind
	FailureRatio  float64
	TimeLimit     time.Duration
}

// DefaultCompressParams matches spec §6's compress defaults (TimeBased
// decay; FailureBased is only selected in -x mode).
var DefaultCompressParams = CompressParams{
	ShrinkRangeHi: 0.0005,
	ShrinkRangeLo: 0.00001,
	Decay:         TimeBased,
	FailureRatio:  0.9,
}

// CompressionResult is the compression phase's outcome.
type CompressionResult struct {
	Best *solutionGenome
}

// RunCompression implements spec §4.13: given an initial feasible
// solution, repeatedly resets to the best-known feasible state, shrinks
// the strip by a decaying step at a random split point, and re-runs the
// separator, keeping every attempt that clears to zero loss. Runs until
// the step decays below ShrinkRangeLo or the terminator fires.
func RunCompression(rng *rand.Rand, sep *Separator, initial *solutionGenome, term terminator.Terminator, listener report.Listener, params CompressParams) *CompressionResult {
	best := initial
	start := time.Now()
	failedAttempts := 0

	for !term.ShouldTerminate() {
		step := nextShrinkStep(params, start, failedAttempts)
		if step < params.ShrinkRangeLo {
			break
		}

		sep.Layout.Restore(best.layout)
		sep.CT.RestoreButKeepWeights(best.ct, sep.Layout)

		splitX := rng.Float64() * sep.Layout.Width()
		newWidth := best.width * (1 - step)
		sep.ChangeStripWidth(newWidth, &splitX)

		layoutSnap, ctSnap, loss := sep.Separate(term, listener)
		if loss == 0 {
			best = &solutionGenome{layout: layoutSnap, ct: ctSnap, width: newWidth, loss: 0}
			failedAttempts = 0
			listener.OnSolution(report.SolutionEvent{Kind: report.CompressionFeasible, Width: newWidth, Loss: 0, Layout: layoutSnap})
		} else {
			failedAttempts++
		}
	}

	return &CompressionResult{Best: best}
}

func nextShrinkStep(params CompressParams, start time.Time, failedAttempts int) float64 {
	hi, lo := params.ShrinkRangeHi, params.ShrinkRangeLo
	switch params.Decay {
	case FailureBased:
		return hi * math.Pow(params.FailureRatio, float64(failedAttempts))
	default:
		if params.TimeLimit <= 0 {
			return hi
		}
		frac := float64(time.Since(start)) / float64(params.TimeLimit)
		if frac > 1 {
			frac = 1
		}
		return hi + frac*(lo-hi)
	}
}
