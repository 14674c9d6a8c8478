//go:build !packfold_debug

package optimizer

// assertNoRegression is a no-op in release builds; see
// debug_assertions.go for the packfold_debug variant.
func assertNoRegression(before, after float64) {}

// assertNoStrikeLossIncrease is a no-op in release builds.
func assertNoStrikeLossIncrease(before, after float64) {}
