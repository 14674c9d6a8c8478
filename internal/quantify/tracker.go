package quantify

import (
	"sync"
	"sync/atomic"

	"github.com/erlendvik/packfold/internal/cde"
	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// LayoutView is the narrow read interface the collision tracker needs
// from a layout. Defined here (rather than importing the layout
// package directly) so the tracker indexes placements purely by
// opaque key and never owns layout state, per spec §9's "non-owning
// back-references" note.
type LayoutView interface {
	Keys() []model.PlacementKey
	Surrogate(pk model.PlacementKey) *geom.Surrogate
	ContainerBBox() geom.BBox
	// CollidingHazards returns every hazard colliding with pk's current
	// shape, with pk itself already excluded by the caller.
	CollidingHazards(pk model.PlacementKey) []cde.Hazard
}

// containerEntry mirrors Entry for the parallel per-item vector of
// container losses (spec §4.3: "a parallel vector of (loss, weight)
// for container losses").
type containerEntry = Entry

// relativeTolerance is the "tracker disagrees with recomputation"
// invariant's slack: CDE asymmetry near tangent shapes keeps the
// tracker's incrementally-maintained losses from matching a
// from-scratch recomputation bit-for-bit, so the check tolerates a
// 10% relative difference instead.
const relativeTolerance = 0.10

// withinTolerance reports whether got is within tol relative
// difference of want.
func withinTolerance(got, want, tol float64) bool {
	if want == 0 {
		return got == 0
	}
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol*want
}

// Tracker is the Collision Tracker (spec §4.3): caches per-pair and
// per-item-vs-container losses and maintains GLS weights. Not safe for
// concurrent mutation; the hit/miss counters behind GetStats are
// atomic, mirroring the teacher's Scorer.
type Tracker struct {
	mu        sync.RWMutex
	pairs     *PairMatrix
	container []containerEntry
	index     map[model.PlacementKey]int
	keys      []model.PlacementKey

	hitCount  atomic.Int64
	missCount atomic.Int64
}

// NewTracker builds a Tracker for layout: initializes indices, sets
// all weights to 1.0, then recomputes every placement's loss from
// scratch (spec §4.3 `new(layout)`).
func NewTracker(layout LayoutView) *Tracker {
	keys := layout.Keys()
	t := &Tracker{
		pairs:     NewPairMatrix(len(keys)),
		container: make([]containerEntry, len(keys)),
		index:     make(map[model.PlacementKey]int, len(keys)),
		keys:      append([]model.PlacementKey(nil), keys...),
	}
	for i := range t.container {
		t.container[i].Weight = 1.0
	}
	for i, k := range keys {
		t.index[k] = i
	}
	for _, k := range keys {
		t.RecomputeLossForItem(k, layout)
	}
	return t
}

func (t *Tracker) rowIndex(pk model.PlacementKey) (int, bool) {
	i, ok := t.index[pk]
	return i, ok
}

func fullyInsideContainer(inner, outer geom.BBox) bool {
	return inner.MinX >= outer.MinX && inner.MinY >= outer.MinY &&
		inner.MaxX <= outer.MaxX && inner.MaxY <= outer.MaxY
}

// RecomputeLossForItem clears pk's row/column losses and container
// loss, queries layout for colliding hazards, and re-derives every
// touched loss (spec §4.3). Every written loss is strictly > 0.
func (t *Tracker) RecomputeLossForItem(pk model.PlacementKey, layout LayoutView) {
	idx, ok := t.rowIndex(pk)
	if !ok {
		return
	}
	t.pairs.ClearRow(idx)
	t.container[idx].Loss = 0

	sp := layout.Surrogate(pk)
	container := layout.ContainerBBox()
	if !fullyInsideContainer(sp.BBox, container) {
		t.container[idx].Loss = PolygonContainer(sp, container)
	}
	for _, h := range layout.CollidingHazards(pk) {
		if h.ID == cde.ExteriorHazard {
			continue
		}
		otherPk := model.PlacementKey(h.ID)
		otherIdx, ok := t.rowIndex(otherPk)
		if !ok {
			continue
		}
		otherSp := layout.Surrogate(otherPk)
		loss := PolygonPolygon(sp, otherSp)
		e := t.pairs.Get(idx, otherIdx)
		e.Loss = loss
		t.pairs.Set(idx, otherIdx, e)
	}
}

// RegisterItemMove transfers oldPk's row index to newPk and re-runs
// RecomputeLossForItem(newPk). Losses of other items are not
// recomputed; they stay symmetric via the CDE adjacency (spec §4.3).
func (t *Tracker) RegisterItemMove(layout LayoutView, oldPk, newPk model.PlacementKey) {
	idx, ok := t.index[oldPk]
	if !ok {
		return
	}
	delete(t.index, oldPk)
	t.index[newPk] = idx
	t.keys[idx] = newPk
	t.RecomputeLossForItem(newPk, layout)
	assertTrackerConsistent(t, layout)
}

// GLS weighting constants (spec §4.3 `update_weights`).
const (
	glsDecay  = 0.95
	glsMinInc = 1.2
	glsMaxInc = 2.0
)

// UpdateWeights applies one Guided Local Search weighting step: every
// entry's weight is decayed if its loss cleared to 0, or escalated
// proportional to its loss relative to the maximum loss across all
// entries, otherwise. Never lowers a weight below 1.0 (spec §4.3).
func (t *Tracker) UpdateWeights() {
	maxLoss := t.maxLoss()

	t.pairs.Each(func(r, c int, e Entry) {
		e.Weight = nextWeight(e.Loss, e.Weight, maxLoss)
		t.pairs.Set(r, c, e)
	})
	for i := range t.container {
		t.container[i].Weight = nextWeight(t.container[i].Loss, t.container[i].Weight, maxLoss)
	}
}

func nextWeight(loss, weight, maxLoss float64) float64 {
	var m float64
	if loss == 0 {
		m = glsDecay
	} else {
		ratio := 0.0
		if maxLoss > 0 {
			ratio = loss / maxLoss
		}
		m = glsMinInc + (glsMaxInc-glsMinInc)*ratio
	}
	w := weight * m
	if w < 1.0 {
		w = 1.0
	}
	return w
}

func (t *Tracker) maxLoss() float64 {
	var maxLoss float64
	t.pairs.Each(func(_, _ int, e Entry) {
		if e.Loss > maxLoss {
			maxLoss = e.Loss
		}
	})
	for _, e := range t.container {
		if e.Loss > maxLoss {
			maxLoss = e.Loss
		}
	}
	return maxLoss
}

// Clone deep-copies the tracker's full state, including weights —
// used to seed a worker's tracker from the master's at the start of a
// sweep without resetting GLS memory (spec §3 Ownership: "each worker
// owns an independent clone (layout, CT, ...)").
func (t *Tracker) Clone() *Tracker {
	idxCopy := make(map[model.PlacementKey]int, len(t.index))
	for k, v := range t.index {
		idxCopy[k] = v
	}
	return &Tracker{
		pairs:     &PairMatrix{n: t.pairs.n, entries: append([]Entry(nil), t.pairs.entries...)},
		container: append([]containerEntry(nil), t.container...),
		index:     idxCopy,
		keys:      append([]model.PlacementKey(nil), t.keys...),
	}
}

// Snapshot is an immutable copy of a tracker's loss/index state, used
// for rollback (spec §3 Solution) without losing accumulated weights.
type Snapshot struct {
	pairsN    int
	pairs     []Entry
	container []containerEntry
	index     map[model.PlacementKey]int
	keys      []model.PlacementKey
}

// Save captures the current loss and index state.
func (t *Tracker) Save() *Snapshot {
	idxCopy := make(map[model.PlacementKey]int, len(t.index))
	for k, v := range t.index {
		idxCopy[k] = v
	}
	return &Snapshot{
		pairsN:    t.pairs.N(),
		pairs:     append([]Entry(nil), t.pairs.entries...),
		container: append([]containerEntry(nil), t.container...),
		index:     idxCopy,
		keys:      append([]model.PlacementKey(nil), t.keys...),
	}
}

// RestoreButKeepWeights overwrites all losses and indices from snap,
// keeping the tracker's current weights (spec §4.3): "roll back the
// layout without losing the penalty memory."
func (t *Tracker) RestoreButKeepWeights(snap *Snapshot, layout LayoutView) {
	oldPairWeights := make(map[[2]int]float64, len(snap.pairs))
	t.pairs.Each(func(r, c int, e Entry) {
		oldPairWeights[[2]int{r, c}] = e.Weight
	})
	oldContainerWeights := append([]float64(nil), weightsOf(t.container)...)

	t.pairs = &PairMatrix{n: snap.pairsN, entries: append([]Entry(nil), snap.pairs...)}
	t.container = append([]containerEntry(nil), snap.container...)
	t.index = make(map[model.PlacementKey]int, len(snap.index))
	for k, v := range snap.index {
		t.index[k] = v
	}
	t.keys = append([]model.PlacementKey(nil), snap.keys...)

	t.pairs.Each(func(r, c int, e Entry) {
		if w, ok := oldPairWeights[[2]int{r, c}]; ok {
			e.Weight = w
			t.pairs.Set(r, c, e)
		}
	})
	for i := range t.container {
		if i < len(oldContainerWeights) {
			t.container[i].Weight = oldContainerWeights[i]
		}
	}
}

func weightsOf(entries []containerEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Weight
	}
	return out
}

// GetLoss sums pk's row of pair losses plus its container entry.
func (t *Tracker) GetLoss(pk model.PlacementKey) float64 {
	idx, ok := t.rowIndex(pk)
	if !ok {
		return 0
	}
	sum := t.container[idx].Loss
	for c := 0; c < t.pairs.N(); c++ {
		if c == idx {
			continue
		}
		sum += t.pairs.Get(idx, c).Loss
	}
	return sum
}

// GetWeightedLoss sums pk's row of weight*loss plus its weighted
// container entry.
func (t *Tracker) GetWeightedLoss(pk model.PlacementKey) float64 {
	idx, ok := t.rowIndex(pk)
	if !ok {
		return 0
	}
	sum := t.container[idx].Loss * t.container[idx].Weight
	for c := 0; c < t.pairs.N(); c++ {
		if c == idx {
			continue
		}
		e := t.pairs.Get(idx, c)
		sum += e.Loss * e.Weight
	}
	return sum
}

// GetTotalLoss sums every loss in the matrix and container vector.
func (t *Tracker) GetTotalLoss() float64 {
	var sum float64
	t.pairs.Each(func(_, _ int, e Entry) { sum += e.Loss })
	for _, e := range t.container {
		sum += e.Loss
	}
	return sum
}

// GetTotalWeightedLoss sums every weight*loss in the matrix and
// container vector.
func (t *Tracker) GetTotalWeightedLoss() float64 {
	var sum float64
	t.pairs.Each(func(_, _ int, e Entry) { sum += e.Loss * e.Weight })
	for _, e := range t.container {
		sum += e.Loss * e.Weight
	}
	return sum
}

// ContainerWeight returns pk's current container-entry GLS weight,
// used by the hazard collector's WeightFunc to score a new candidate
// transform before it is committed (spec §4.3's weights survive
// rollback via RestoreButKeepWeights, so they remain valid to consult
// even mid-search).
func (t *Tracker) ContainerWeight(pk model.PlacementKey) float64 {
	idx, ok := t.rowIndex(pk)
	if !ok {
		return 1.0
	}
	return t.container[idx].Weight
}

// PairWeight returns the current GLS weight between two placed items.
func (t *Tracker) PairWeight(a, b model.PlacementKey) float64 {
	ai, ok := t.rowIndex(a)
	if !ok {
		return 1.0
	}
	bi, ok := t.rowIndex(b)
	if !ok {
		return 1.0
	}
	return t.pairs.Get(ai, bi).Weight
}

// GetStats reports cache hit/miss counters, mirroring the teacher
// Scorer's atomic-counter stats surface.
func (t *Tracker) GetStats() (hits, misses int64) {
	return t.hitCount.Load(), t.missCount.Load()
}

// RecordHit and RecordMiss let a caller (e.g. the hazard collector)
// attribute cache effectiveness to the tracker's stats surface.
func (t *Tracker) RecordHit()  { t.hitCount.Add(1) }
func (t *Tracker) RecordMiss() { t.missCount.Add(1) }
