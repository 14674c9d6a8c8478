package instance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erlendvik/packfold/internal/model"
	"github.com/erlendvik/packfold/internal/striplayout"
)

// Load reads and parses an SPP instance from path, applying opts'
// preprocessing to every item's polygon (spec §7: malformed JSON,
// non-polygon shapes, and zero-area items are input errors — fail fast
// with a descriptive message).
func Load(path string, opts PreprocessOptions) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: opening %q: %w", path, err)
	}
	defer f.Close()

	return Decode(bufio.NewReader(f), opts)
}

// Decode parses an instance document from r.
func Decode(r io.Reader, opts PreprocessOptions) (*Instance, error) {
	var raw rawInstance
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("instance: not a valid strip packing instance: %w", err)
	}
	if raw.StripHeight <= 0 {
		return nil, fmt.Errorf("instance: strip_height must be positive, got %g", raw.StripHeight)
	}

	merged := opts
	if raw.PolySimplTolerance != nil {
		merged.SimplifyTolerance = raw.PolySimplTolerance
	}
	if raw.NarrowConcavityCutoffRatio != nil {
		merged.NarrowConcavityCutoffRatio = raw.NarrowConcavityCutoffRatio
	}
	if raw.MinItemSeparation != nil {
		merged.MinItemSeparation = raw.MinItemSeparation
	}

	items := make([]*model.Item, 0, len(raw.Items))
	for _, ri := range raw.Items {
		shape, err := polygonFromVertices(ri.Vertices)
		if err != nil {
			return nil, fmt.Errorf("instance: item %d (%s): %w", ri.ID, ri.Name, err)
		}
		shape = Preprocess(shape, merged)

		rotation, err := ri.AllowedRotations.toPolicy()
		if err != nil {
			return nil, fmt.Errorf("instance: item %d (%s): %w", ri.ID, ri.Name, err)
		}
		if ri.Quantity <= 0 {
			return nil, fmt.Errorf("instance: item %d (%s): quantity must be positive, got %d", ri.ID, ri.Name, ri.Quantity)
		}
		items = append(items, model.NewItem(model.ItemID(ri.ID), ri.Name, shape, rotation, ri.Quantity))
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("instance: no items")
	}

	return &Instance{StripHeight: raw.StripHeight, Items: items, Preprocess: merged}, nil
}

func (inst *Instance) toRaw() rawInstance {
	raw := rawInstance{StripHeight: inst.StripHeight, Items: make([]rawItem, len(inst.Items))}
	for i, it := range inst.Items {
		vs := make([][2]float64, len(it.Shape.Vertices))
		for j, v := range it.Shape.Vertices {
			vs[j] = [2]float64{v.X, v.Y}
		}
		raw.Items[i] = rawItem{
			ID:               int(it.ID),
			Name:             it.Name,
			Quantity:         it.Quantity,
			Vertices:         vs,
			AllowedRotations: rotationToRaw(it.Rotation),
		}
	}
	return raw
}

// PlacementRecord is one placed (item, copy, transform) in the output
// solution document.
type PlacementRecord struct {
	ItemID int     `json:"item_id"`
	Copy   int     `json:"copy"`
	Theta  float64 `json:"theta"`
	TX     float64 `json:"tx"`
	TY     float64 `json:"ty"`
}

// Solution is the output document's solution half: the best strip
// width found, its placements, and the wall-clock time it was reached
// (spec §6 Outputs: "instance echo and the placement list plus elapsed
// time from epoch").
type Solution struct {
	StripWidth  float64           `json:"strip_width"`
	Placements  []PlacementRecord `json:"placements"`
	EpochTimeMs int64             `json:"epoch_time_ms"`
}

// rawOutput flattens the instance echo and the solution into one
// document, the same `#[serde(flatten)]` shape the original's
// `SPOutput` uses.
type rawOutput struct {
	rawInstance
	Solution Solution `json:"solution"`
}

// BuildSolution captures layout's current placements as a Solution,
// reading each placement's (item id, copy index) straight off the
// layout (copy identity travels with the placement across Move, so no
// external bookkeeping is needed).
func BuildSolution(layout *striplayout.Layout) Solution {
	keys := layout.Keys()
	placements := make([]PlacementRecord, 0, len(keys))
	for _, pk := range keys {
		item := layout.ItemAt(pk)
		t := layout.TransformAt(pk)
		placements = append(placements, PlacementRecord{
			ItemID: int(item.ID),
			Copy:   layout.CopyAt(pk),
			Theta:  t.Theta,
			TX:     t.TX,
			TY:     t.TY,
		})
	}
	return Solution{
		StripWidth:  layout.Width(),
		Placements:  placements,
		EpochTimeMs: time.Now().UnixMilli(),
	}
}

// BuildSolutionFromSnapshot is BuildSolution over a rolled-back
// striplayout.Snapshot rather than a live Layout, used to capture the
// exploration/compression phases' best-known result once the separator
// has moved the live layout on to later attempts.
func BuildSolutionFromSnapshot(snap *striplayout.Snapshot) Solution {
	snapPlacements := snap.Placements()
	placements := make([]PlacementRecord, 0, len(snapPlacements))
	for _, p := range snapPlacements {
		placements = append(placements, PlacementRecord{
			ItemID: int(p.Item.ID),
			Copy:   p.Copy,
			Theta:  p.Transform.Theta,
			TX:     p.Transform.TX,
			TY:     p.Transform.TY,
		})
	}
	return Solution{
		StripWidth:  snap.Width(),
		Placements:  placements,
		EpochTimeMs: time.Now().UnixMilli(),
	}
}

// Save writes the instance echo plus sol as pretty-printed JSON to
// path. It does not create missing parent directories.
func Save(inst *Instance, sol Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("instance: creating %q: %w", path, err)
	}
	defer f.Close()

	out := rawOutput{rawInstance: inst.toRaw(), Solution: sol}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("instance: writing %q: %w", path, err)
	}
	return nil
}
