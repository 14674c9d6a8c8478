package model

import "github.com/erlendvik/packfold/internal/geom"

// PlacementKey is an opaque handle to a placement within a Layout. A
// key identifies a placement until that placement is moved or removed:
// Layout.Move reinserts the item and returns a fresh key. The zero
// value is never issued by a Layout.
type PlacementKey uint64

// Placement pairs an item id with its decomposed transform.
type Placement struct {
	Item      ItemID
	Transform geom.Transform
}

// Instance describes (item, copy index) once demand quantities have
// been expanded, the form the LBF constructor and Separator consume.
type Instance struct {
	Item *Item
	Copy int
}
