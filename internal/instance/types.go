// Package instance is the JSON instance I/O and preprocessing layer
// spec §6 specifies only by its external shape: container height,
// items with polygon vertices/quantities/rotation policies, optional
// pre-processing knobs, and the best-solution-plus-epoch-time output
// echo.
package instance

import (
	"fmt"

	"github.com/erlendvik/packfold/internal/geom"
	"github.com/erlendvik/packfold/internal/model"
)

// Instance is the parsed, in-memory form of an SPP instance (spec §6
// Inputs).
type Instance struct {
	StripHeight float64
	Items       []*model.Item
	Preprocess  PreprocessOptions
}

// PreprocessOptions are spec §6's default "polygon simplification
// tolerance, narrow-concavity cutoff, min-item-separation" knobs,
// recovered in full from `original_source/src/config.rs`'s
// `poly_simpl_tolerance`/`narrow_concavity_cutoff_ratio`/
// `min_item_separation` (all `Option<f32>`, disabled when absent).
type PreprocessOptions struct {
	SimplifyTolerance          *float64
	NarrowConcavityCutoffRatio *float64
	MinItemSeparation          *float64
}

// DefaultPreprocessOptions matches spec §6: "Polygon simplification
// tolerance 0.001; narrow-concavity cutoff 0.01; min-item-separation
// disabled."
func DefaultPreprocessOptions() PreprocessOptions {
	simpl := 0.001
	cutoff := 0.01
	return PreprocessOptions{SimplifyTolerance: &simpl, NarrowConcavityCutoffRatio: &cutoff}
}

// rawInstance is the external JSON schema (spec §6): a flat document
// with the container height, the item list, and optional preprocessing
// knobs alongside it (mirrors the original's `#[serde(flatten)]`
// instance-echo convention carried into the output file too).
type rawInstance struct {
	StripHeight                float64   `json:"strip_height"`
	Items                      []rawItem `json:"items"`
	PolySimplTolerance         *float64  `json:"poly_simpl_tolerance,omitempty"`
	NarrowConcavityCutoffRatio *float64  `json:"narrow_concavity_cutoff_ratio,omitempty"`
	MinItemSeparation          *float64  `json:"min_item_separation,omitempty"`
}

type rawItem struct {
	ID               int          `json:"id"`
	Name             string       `json:"name,omitempty"`
	Quantity         int          `json:"quantity"`
	Vertices         [][2]float64 `json:"vertices"`
	AllowedRotations rawRotation  `json:"allowed_rotations"`
}

// rawRotation is the JSON form of a rotation policy: the
// "fixed"/"discrete"/"continuous" kind and its angle/sample payload are
// plain struct fields encoded by encoding/json as one compact object
// (it has no MarshalJSON/UnmarshalJSON methods of its own), and are
// converted to and from model.RotationPolicy by toPolicy and
// rotationToRaw.
type rawRotation struct {
	Kind    string    `json:"kind"`
	Angles  []float64 `json:"angles,omitempty"`
	Samples int       `json:"samples,omitempty"`
}

func (r rawRotation) toPolicy() (model.RotationPolicy, error) {
	switch r.Kind {
	case "", "fixed":
		return model.FixedRotation(), nil
	case "discrete":
		if len(r.Angles) == 0 {
			return model.RotationPolicy{}, fmt.Errorf("instance: discrete rotation with no angles")
		}
		return model.DiscreteRotation(r.Angles), nil
	case "continuous":
		return model.ContinuousRotation(r.Samples), nil
	default:
		return model.RotationPolicy{}, fmt.Errorf("instance: unknown rotation kind %q", r.Kind)
	}
}

func rotationToRaw(r model.RotationPolicy) rawRotation {
	switch {
	case r.IsFixed():
		return rawRotation{Kind: "fixed"}
	case r.IsContinuous():
		return rawRotation{Kind: "continuous", Samples: len(r.Angles())}
	default:
		return rawRotation{Kind: "discrete", Angles: r.Angles()}
	}
}

func polygonFromVertices(vs [][2]float64) (*geom.Polygon, error) {
	if len(vs) < 3 {
		return nil, fmt.Errorf("instance: polygon needs at least 3 vertices, got %d", len(vs))
	}
	pts := make([]geom.Point, len(vs))
	for i, v := range vs {
		pts[i] = geom.Point{X: v[0], Y: v[1]}
	}
	poly := geom.NewPolygon(pts)
	if poly.AbsArea() == 0 {
		return nil, fmt.Errorf("instance: zero-area item")
	}
	return poly, nil
}
