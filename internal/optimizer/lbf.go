// Package optimizer implements the LBF constructor, Separator, and the
// two-phase driver (exploration, compression) spec §4.10-§4.13
// describe: everything that actually minimizes strip width on top of
// internal/sample and internal/quantify.
package optimizer

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/sample"
	"github.com/erlendvik/packfold/internal/striplayout"
)

// growthFactor is the strip-width multiplier LBF applies after a
// failed placement attempt (spec §4.10).
const growthFactor = 1.2

// BuildLBF sorts instances in decreasing order of convex-hull-area *
// diameter (largest-hardest-first), places each with the LBF
// evaluator, growing the strip width on failure, and fits the final
// strip to its minimum enclosing width (spec §4.10). rng drives the
// uniform samplers used during placement search.
func BuildLBF(rng *rand.Rand, instances []model.Instance, height float64, initialWidth float64) (*striplayout.Layout, error) {
	ordered := append([]model.Instance(nil), instances...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Item.ConvexHullArea()*ordered[i].Item.Diameter >
			ordered[j].Item.ConvexHullArea()*ordered[j].Item.Diameter
	})

	totalDiameter := 0.0
	for _, inst := range ordered {
		totalDiameter += inst.Item.Diameter
	}
	maxAdmissibleWidth := 2 * totalDiameter

	width := initialWidth
	if width <= 0 {
		width = height
	}
	layout := striplayout.New(width, height)

	for _, inst := range ordered {
		for {
			evaluator := &sample.LBFEvaluator{Tree: layout.Tree(), Container: layout.ContainerBBox()}
			t, eval, _ := sample.Search(rng, inst.Item, layout.ContainerBBox(), nil, evaluator, sample.DefaultConfig)
			if eval.Kind == sample.Clear {
				layout.Insert(inst.Item, t, inst.Copy)
				break
			}
			width *= growthFactor
			if width > maxAdmissibleWidth {
				return nil, fmt.Errorf("optimizer: strip width %.4g exceeded safety bound %.4g (2x sum of item diameters) while placing item %q copy %d", width, maxAdmissibleWidth, inst.Item.Name, inst.Copy)
			}
			layout.ChangeStripWidth(width, nil)
		}
	}

	layout.FitToMinimumWidth()
	return layout, nil
}

// ExpandInstances expands each item's demand quantity into one
// Instance per copy, the form LBF and the Separator consume (spec §3
// "Ownership: Items are shared (read-only) references").
func ExpandInstances(items []*model.Item) []model.Instance {
	var out []model.Instance
	for _, it := range items {
		for c := 0; c < it.Quantity; c++ {
			out = append(out, model.Instance{Item: it, Copy: c})
		}
	}
	return out
}
