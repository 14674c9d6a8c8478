//go:build !packfold_debug

package quantify

// assertTrackerConsistent is a no-op in release builds; see
// debug_assertions.go for the packfold_debug variant.
func assertTrackerConsistent(t *Tracker, layout LayoutView) {}
