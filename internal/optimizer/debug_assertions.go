//go:build packfold_debug

package optimizer

import "fmt"

// assertNoRegression enforces spec §4.11's per-item invariant ("weighted
// loss of the moved item must not increase by more than 0.1%") and
// §9's "internal consistency violations ... surfaced only in debug
// builds via assertions, elided in release."
func assertNoRegression(before, after float64) {
	if after > before*lossRegressionTolerance {
		panic(fmt.Sprintf("optimizer: moved-item weighted loss regressed from %g to %g (tolerance x%g)", before, after, lossRegressionTolerance))
	}
}

// assertNoStrikeLossIncrease enforces spec §4.11 step 5: "weighted
// total loss must not increase more than 0.1% per inner iteration."
func assertNoStrikeLossIncrease(before, after float64) {
	if after > before*lossRegressionTolerance {
		panic(fmt.Sprintf("optimizer: strike-loop total weighted loss regressed from %g to %g (tolerance x%g)", before, after, lossRegressionTolerance))
	}
}
