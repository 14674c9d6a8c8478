package optimizer

import (
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/erlendvik/packfold/internal/quantify"
	"github.com/erlendvik/packfold/internal/rngx"
	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/sample"
	"github.com/erlendvik/packfold/internal/striplayout"
	"github.com/erlendvik/packfold/internal/terminator"
)

// SeparatorParams are spec §6's exploration defaults, reused verbatim
// by the compression phase with its own strike/iter limits.
type SeparatorParams struct {
	NumWorkers       int
	IterNoImproveLim int
	StrikeLimit      int
	SampleConfig     sample.Config
}

// DefaultSeparatorParams matches spec §6: "3 workers ... iter-no-improve
// 200, strike limit 3."
var DefaultSeparatorParams = SeparatorParams{
	NumWorkers:       3,
	IterNoImproveLim: 200,
	StrikeLimit:      3,
	SampleConfig:     sample.DefaultConfig,
}

// workerRand builds a worker's deterministic RNG from the root seed
// and its index (spec §5).
func workerRand(rootSeed uint64, index int) *rand.Rand {
	seed := rngx.ChildSeed(rootSeed, "worker", index)
	return rand.New(rngx.NewXoshiro256(seed))
}

// Separator orchestrates N parallel workers at a fixed strip width
// (spec §4.11). It exclusively owns the "master" layout and CT.
type Separator struct {
	Layout *striplayout.Layout
	CT     *quantify.Tracker

	rootSeed uint64
	workers  []*Worker
	params   SeparatorParams
}

// NewSeparator builds a Separator over layout, deriving CT fresh from
// it and spawning params.NumWorkers workers seeded from rootSeed.
func NewSeparator(layout *striplayout.Layout, rootSeed uint64, params SeparatorParams) *Separator {
	s := &Separator{
		Layout:   layout,
		CT:       quantify.NewTracker(layout),
		rootSeed: rootSeed,
		params:   params,
	}
	s.workers = make([]*Worker, params.NumWorkers)
	for i := range s.workers {
		s.workers[i] = NewWorker(rootSeed, i)
	}
	return s
}

// ChangeStripWidth rebuilds the master layout and CT (and, by
// extension, every worker clone at the next sweep) at a new width
// (spec §4.11 `change_strip_width`).
func (s *Separator) ChangeStripWidth(newWidth float64, splitX *float64) {
	s.Layout.ChangeStripWidth(newWidth, splitX)
	s.CT = quantify.NewTracker(s.Layout)
}

// Separate runs the strike loop of spec §4.11 until the terminator
// fires or the strike limit is reached, reporting progress to
// listener. Returns the best (layout snapshot, CT snapshot, total
// loss) observed.
func (s *Separator) Separate(term terminator.Terminator, listener report.Listener) (*striplayout.Snapshot, *quantify.Snapshot, float64) {
	strikes := 0

	bestLayout := s.Layout.Save()
	bestCT := s.CT.Save()
	bestLoss := s.CT.GetTotalLoss()

	for strikes < s.params.StrikeLimit && !term.ShouldTerminate() {
		initialStrikeLoss := s.CT.GetTotalLoss()
		minLoss := initialStrikeLoss
		noImprove := 0

		for noImprove < s.params.IterNoImproveLim && !term.ShouldTerminate() {
			beforeWeighted := s.CT.GetTotalWeightedLoss()

			snapLayout := s.Layout.Save()
			for _, w := range s.workers {
				w.ResetFrom(s.Layout, s.CT)
			}
			_ = snapLayout // each worker clones s.Layout directly in ResetFrom

			var g errgroup.Group
			for _, w := range s.workers {
				w := w
				g.Go(func() error {
					w.MoveItems(s.params.SampleConfig)
					return nil
				})
			}
			_ = g.Wait()

			bestWorker := s.pickBestWorker()
			s.Layout = bestWorker.Layout
			s.CT = bestWorker.CT

			total := s.CT.GetTotalLoss()
			if total == 0 {
				listener.OnSeparatorProgress(report.SeparatorEvent{TotalLoss: 0, Strikes: strikes})
				return s.Layout.Save(), s.CT.Save(), 0
			}
			if total < minLoss {
				improvement := (minLoss - total) / maxPositive(minLoss)
				minLoss = total
				if improvement >= 0.02 {
					noImprove = 0
				} else {
					noImprove++
				}
			} else {
				noImprove++
			}

			afterWeighted := s.CT.GetTotalWeightedLoss()
			assertNoStrikeLossIncrease(beforeWeighted, afterWeighted)

			s.CT.UpdateWeights()

			if total < bestLoss {
				bestLoss = total
				bestLayout = s.Layout.Save()
				bestCT = s.CT.Save()
			}
		}

		if minLoss >= 0.98*initialStrikeLoss {
			strikes++
		} else {
			strikes = 0
		}

		s.Layout.Restore(bestLayout)
		s.CT.RestoreButKeepWeights(bestCT, s.Layout)
	}

	return bestLayout, bestCT, bestLoss
}

func maxPositive(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// pickBestWorker returns the worker with the lowest weighted total
// loss, ties broken by worker index (spec §5: "deterministic given
// the tuple of worker results").
func (s *Separator) pickBestWorker() *Worker {
	best := s.workers[0]
	bestLoss := best.CT.GetTotalWeightedLoss()
	for _, w := range s.workers[1:] {
		if l := w.CT.GetTotalWeightedLoss(); l < bestLoss {
			best = w
			bestLoss = l
		}
	}
	return best
}
