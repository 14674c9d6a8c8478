package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/erlendvik/packfold/internal/reportx"
	"github.com/erlendvik/packfold/internal/rngx"
)

// benchCommand reruns one instance N times with independently-derived
// seeds and prints per-run plus aggregate width/density statistics
// (original_source/src/bench.rs). It does not honor -x, SVG, or
// log-file flags: a bench run measures the stock exploration/compression
// pipeline, not a specific run's artifacts.
var benchCommand = &cli.Command{
	Name:   "bench",
	Usage:  "run one instance N times and report width/density statistics",
	Flags:  flagsSlice("instance", "time", "explore-time", "compress-time", "seed", "runs"),
	Before: validateRunFlags,
	Action: benchAction,
}

func benchAction(c *cli.Context) error {
	exploreDur, compressDur := timeSplit(c)
	rootSeed := resolveSeed(c.Int64("seed"))
	n := c.Int("runs")
	if n <= 0 {
		return fmt.Errorf("packfold: --runs must be at least 1, got %d", n)
	}

	fmt.Printf("bench: %d runs, seed %d, explore %s, compress %s\n", n, rootSeed, exploreDur, compressDur)

	runs := make([]reportx.BenchRun, 0, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		runSeed := rngx.ChildSeed(rootSeed, "bench", i)

		inst, sol, err := runPacking(runConfig{
			instancePath: c.String("instance"),
			seed:         runSeed,
			exploreDur:   exploreDur,
			compressDur:  compressDur,
			numWorkers:   1,
		})
		if err != nil {
			fmt.Printf("run %d/%d failed: %v\n", i+1, n, err)
			continue
		}
		elapsed := time.Since(start)

		totalArea := totalItemArea(inst)
		density := 0.0
		if area := sol.StripWidth * inst.StripHeight; area > 0 {
			density = totalArea / area
		}

		runs = append(runs, reportx.BenchRun{
			InstanceName: c.String("instance"),
			FinalWidth:   sol.StripWidth,
			Density:      density,
			Elapsed:      elapsed,
		})
		fmt.Printf("run %d/%d: width=%.4f density=%.2f%% elapsed=%s\n", i+1, n, sol.StripWidth, 100*density, elapsed.Round(time.Millisecond))
	}

	if len(runs) == 0 {
		return fmt.Errorf("packfold: every bench run failed")
	}

	fmt.Println(reportx.RenderBenchTable(runs))
	return nil
}
