// Package cde implements the Collision Detection Engine spec §2
// describes as an external geometry dependency: a quadtree-indexed
// registry of "hazards" (placed items or the container exterior)
// answering "what hazards collide with this query shape or edge?".
// No spatial-index library appears anywhere in the retrieval pack, so
// this quadtree is hand-built against the defaults spec §6 fixes
// (depth 4, node threshold 16).
package cde

import "github.com/erlendvik/packfold/internal/geom"

// HazardID identifies a registered hazard: either a placed item
// (via its PlacementKey, encoded by the caller) or the reserved
// ExteriorHazard sentinel for the container boundary.
type HazardID uint64

// ExteriorHazard is the reserved id for the container's exterior, the
// "hazard" a polygon-container collision is quantified against.
const ExteriorHazard HazardID = 0

// Presence classifies how thoroughly a quadtree node has been proven
// to interact with a hazard's registered shape.
type Presence int

const (
	// PresenceNone means the hazard does not appear in this node at all.
	PresenceNone Presence = iota
	// PresencePartial means the hazard's bounding box intersects the
	// node but full containment has not been verified.
	PresencePartial
	// PresenceFull means the hazard's shape is entirely inside the node.
	PresenceFull
)

// Hazard is one entry registered with the engine: an id and the
// surrogate (transformed polygon, poles, bbox, POI) the collector and
// quantifier need. The container exterior is never registered as a
// spatial entry here — its infinite extent does not fit the quadtree
// model — so a Hazard always carries a concrete Surrogate.
type Hazard struct {
	ID        HazardID
	Surrogate *geom.Surrogate
}

// BBox returns the hazard's registered bounding box.
func (h Hazard) BBox() geom.BBox { return h.Surrogate.BBox }
