package optimizer

import (
	"math/rand"

	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/quantify"
	"github.com/erlendvik/packfold/internal/sample"
	"github.com/erlendvik/packfold/internal/striplayout"
)

// lossRegressionTolerance is spec §4.11's per-item assertion: "weighted
// loss of the moved item must not increase by more than 0.1%."
const lossRegressionTolerance = 1.001

// Worker owns an independent clone of the master layout, tracker, and
// RNG for one sweep (spec §3 Ownership, §5 Scheduling model).
type Worker struct {
	Layout *striplayout.Layout
	CT     *quantify.Tracker
	RNG    *rand.Rand

	Moves int
	Evals int
}

// NewWorker seeds a worker's RNG deterministically from the
// orchestrator's root seed and this worker's index (spec §5: "spawns
// child seeds for each worker").
func NewWorker(rootSeed uint64, index int) *Worker {
	return &Worker{RNG: workerRand(rootSeed, index)}
}

// ResetFrom overwrites the worker's layout/tracker from the master
// snapshot at the start of a sweep (spec §3: "overwritten from the
// master at the start of every sweep").
func (w *Worker) ResetFrom(masterLayout *striplayout.Layout, masterCT *quantify.Tracker) {
	w.Layout = masterLayout.Clone()
	w.CT = masterCT.Clone()
	w.Moves = 0
	w.Evals = 0
}

// weightFuncFor builds the collector.WeightFunc closure consulting the
// worker's own tracker for the item currently being moved.
func (w *Worker) weightFuncFor(pk model.PlacementKey) sample.WeightFunc {
	return func(id cde.HazardID) float64 {
		if id == cde.ExteriorHazard {
			return w.CT.ContainerWeight(pk)
		}
		return w.CT.PairWeight(pk, model.PlacementKey(id))
	}
}

// MoveItems is spec §4.11's worker sweep: collect every placement
// whose per-item loss > 0, shuffle, and for each (re-checking the loss
// is still > 0, since earlier moves may have cleared it) run placement
// search with the reference set to the current placement, moving to
// the best sample even if weighted loss doesn't strictly improve.
func (w *Worker) MoveItems(cfg sample.Config) {
	candidates := w.collectPositiveLossKeys()
	w.RNG.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, pk := range candidates {
		if w.CT.GetLoss(pk) <= 0 {
			continue
		}
		w.moveOne(pk, cfg)
	}
}

func (w *Worker) collectPositiveLossKeys() []model.PlacementKey {
	var out []model.PlacementKey
	for _, pk := range w.Layout.Keys() {
		if w.CT.GetLoss(pk) > 0 {
			out = append(out, pk)
		}
	}
	return out
}

func (w *Worker) moveOne(pk model.PlacementKey, cfg sample.Config) {
	item := w.Layout.ItemAt(pk)
	curTransform := w.Layout.TransformAt(pk)
	curBBox := item.Shape.Transformed(curTransform).BBox()

	evaluator := &sample.SeparationEvaluator{
		Tree:      w.Layout.Tree(),
		Container: w.Layout.ContainerBBox(),
		Exclude:   cde.HazardID(pk),
		Weight:    w.weightFuncFor(pk),
	}

	beforeWeighted := w.CT.GetWeightedLoss(pk)

	ref := &sample.Reference{Transform: curTransform, BBox: curBBox}
	t, _, evals := sample.Search(w.RNG, item, w.Layout.ContainerBBox(), ref, evaluator, cfg)
	w.Evals += evals

	newPk := w.Layout.Move(pk, t)
	w.CT.RegisterItemMove(w.Layout, pk, newPk)
	w.Moves++

	afterWeighted := w.CT.GetWeightedLoss(newPk)
	assertNoRegression(beforeWeighted, afterWeighted)
}
