package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/erlendvik/packfold/internal/instance"
	"github.com/erlendvik/packfold/internal/optimizer"
	"github.com/erlendvik/packfold/internal/report"
	"github.com/erlendvik/packfold/internal/rngx"
	"github.com/erlendvik/packfold/internal/striplayout"
	"github.com/erlendvik/packfold/internal/svgexport"
	"github.com/erlendvik/packfold/internal/terminator"
)

// defaultTotalSeconds is the fallback time budget when neither -t nor
// -e/-c is given (original_source/src/main.rs warns and falls back to
// 600s, split the same 80/20 way as -t).
const defaultTotalSeconds = 600

// exploreTimeRatio/compressTimeRatio are -t's 80/20 split
// (original_source/src/consts.rs DEFAULT_EXPLORE_TIME_RATIO/DEFAULT_COMPRESS_TIME_RATIO).
const (
	exploreTimeRatio  = 0.8
	compressTimeRatio = 0.2
)

// maxConseqFailsExplore is -x's exploration tabu-pool cap
// (original_source/src/consts.rs DEFAULT_MAX_CONSEQ_FAILS_EXPL).
const maxConseqFailsExplore = 10

// earlyTerminationFailureRatio is -x's compression decay ratio
// (original_source/src/consts.rs DEFAULT_FAIL_DECAY_RATIO_CMPR, already
// DefaultCompressParams.FailureRatio's value).
const earlyTerminationFailureRatio = 0.9

// compressIterNoImproveLim/compressStrikeLimit are spec §6's
// compression row, distinct from exploration's {200, 3}.
const (
	compressIterNoImproveLim = 100
	compressStrikeLimit      = 5
)

// runCommand is the packfold binary's default action: load one
// instance, run exploration then compression, and write the best
// solution found (spec §6 Outputs).
var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "pack one strip packing instance",
	Flags:  flagsSlice("instance", "time", "explore-time", "compress-time", "early-termination", "seed", "output", "log-file", "svg-final", "svg-every-feasible", "svg-live"),
	Before: validateRunFlags,
	Action: runAction,
}

func validateRunFlags(c *cli.Context) error {
	global, explore, compress := c.IsSet("time"), c.IsSet("explore-time"), c.IsSet("compress-time")
	if global && (explore || compress) {
		return fmt.Errorf("-t cannot be combined with -e/-c")
	}
	if explore != compress {
		return fmt.Errorf("-e and -c must be given together")
	}
	return nil
}

// timeSplit resolves -t/-e/-c into (explore, compress) durations per
// spec §6, falling back to defaultTotalSeconds split 80/20 when no time
// flag is given at all.
func timeSplit(c *cli.Context) (time.Duration, time.Duration) {
	switch {
	case c.IsSet("time"):
		total := time.Duration(c.Float64("time") * float64(time.Second))
		return time.Duration(float64(total) * exploreTimeRatio), time.Duration(float64(total) * compressTimeRatio)
	case c.IsSet("explore-time"):
		return time.Duration(c.Float64("explore-time") * float64(time.Second)), time.Duration(c.Float64("compress-time") * float64(time.Second))
	default:
		total := time.Duration(defaultTotalSeconds * float64(time.Second))
		return time.Duration(float64(total) * exploreTimeRatio), time.Duration(float64(total) * compressTimeRatio)
	}
}

// resolveSeed falls back to the current time when raw is 0, matching
// the teacher's "-s uses current timestamp if 0" convention.
func resolveSeed(raw int64) uint64 {
	if raw != 0 {
		return uint64(raw)
	}
	return uint64(time.Now().UnixNano())
}

func runAction(c *cli.Context) error {
	exploreDur, compressDur := timeSplit(c)
	seed := resolveSeed(c.Int64("seed"))

	listener, cleanup, err := buildListener(c)
	if err != nil {
		return err
	}
	defer cleanup()

	sigTerm := terminator.NewSignalTerminator()
	defer sigTerm.Close()

	inst, sol, err := runPacking(runConfig{
		instancePath:     c.String("instance"),
		seed:             seed,
		exploreDur:       exploreDur,
		compressDur:      compressDur,
		earlyTermination: c.Bool("early-termination"),
		numWorkers:       optimizer.DefaultSeparatorParams.NumWorkers,
		listener:         listener,
		extTerm:          sigTerm,
	})
	if err != nil {
		return err
	}

	outPath := c.String("output")
	if err := instance.Save(inst, sol, outPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s (strip width %.4f)\n", outPath, sol.StripWidth)
	return nil
}

// runConfig is one run's parameters, shared between the run and bench
// commands (bench pins numWorkers to 1 and skips SVG/log wiring per
// spec §7's supplemented-features bench description).
type runConfig struct {
	instancePath     string
	seed             uint64
	exploreDur       time.Duration
	compressDur      time.Duration
	earlyTermination bool
	numWorkers       int
	listener         report.Listener
	// extTerm is an external terminator (SIGINT, typically) combined
	// with each phase's own deadline; nil disables it (bench runs).
	extTerm terminator.Terminator
}

// runPacking loads an instance and drives LBF construction, exploration,
// and compression to completion, returning the loaded instance and its
// best solution.
func runPacking(cfg runConfig) (*instance.Instance, instance.Solution, error) {
	if cfg.listener == nil {
		cfg.listener = report.NullListener{}
	}
	extTerm := cfg.extTerm
	if extTerm == nil {
		extTerm = terminator.Never
	}

	inst, err := instance.Load(cfg.instancePath, instance.DefaultPreprocessOptions())
	if err != nil {
		return nil, instance.Solution{}, err
	}

	expanded := optimizer.ExpandInstances(inst.Items)

	lbfRand := rand.New(rngx.NewXoshiro256(rngx.ChildSeed(cfg.seed, "lbf", 0)))
	layout, err := optimizer.BuildLBF(lbfRand, expanded, inst.StripHeight, 0)
	if err != nil {
		return nil, instance.Solution{}, err
	}

	exploreParams := optimizer.DefaultExploreParams
	if cfg.earlyTermination {
		maxFails := maxConseqFailsExplore
		exploreParams.MaxConseqFailedAttempts = &maxFails
	}
	exploreTerm := terminator.Combine(terminator.NewDeadline(cfg.exploreDur), extTerm)
	exploreSep := optimizer.NewSeparator(layout, rngx.ChildSeed(cfg.seed, "explore-separator", 0), optimizer.SeparatorParams{
		NumWorkers:       cfg.numWorkers,
		IterNoImproveLim: optimizer.DefaultSeparatorParams.IterNoImproveLim,
		StrikeLimit:      optimizer.DefaultSeparatorParams.StrikeLimit,
		SampleConfig:     optimizer.DefaultSeparatorParams.SampleConfig,
	})
	exploreRand := rand.New(rngx.NewXoshiro256(rngx.ChildSeed(cfg.seed, "explore", 0)))
	exploreResult := optimizer.RunExploration(exploreRand, exploreSep, exploreTerm, cfg.listener, exploreParams)

	best := exploreResult.Best()
	if best == nil {
		return nil, instance.Solution{}, fmt.Errorf("packfold: no feasible solution found during exploration")
	}

	compressParams := optimizer.DefaultCompressParams
	compressParams.TimeLimit = cfg.compressDur
	if cfg.earlyTermination {
		compressParams.Decay = optimizer.FailureBased
		compressParams.FailureRatio = earlyTerminationFailureRatio
	}
	compressTerm := terminator.Combine(terminator.NewDeadline(cfg.compressDur), extTerm)

	compressLayout := striplayout.New(best.Width(), inst.StripHeight)
	compressLayout.Restore(best.Layout())
	compressSep := optimizer.NewSeparator(compressLayout, rngx.ChildSeed(cfg.seed, "compress-separator", 0), optimizer.SeparatorParams{
		NumWorkers:       cfg.numWorkers,
		IterNoImproveLim: compressIterNoImproveLim,
		StrikeLimit:      compressStrikeLimit,
		SampleConfig:     optimizer.DefaultSeparatorParams.SampleConfig,
	})
	compressRand := rand.New(rngx.NewXoshiro256(rngx.ChildSeed(cfg.seed, "compress", 0)))
	compressResult := optimizer.RunCompression(compressRand, compressSep, best, compressTerm, cfg.listener, compressParams)

	finalSnap := compressResult.Best.Layout()
	cfg.listener.OnSolution(report.SolutionEvent{Kind: report.Final, Width: finalSnap.Width(), Loss: compressResult.Best.Loss(), Layout: finalSnap})

	sol := instance.BuildSolutionFromSnapshot(finalSnap)
	return inst, sol, nil
}

// totalItemArea sums each item's polygon area across its full demand
// quantity, used to compute a solution's density.
func totalItemArea(inst *instance.Instance) float64 {
	total := 0.0
	for _, it := range inst.Items {
		total += it.Shape.AbsArea() * float64(it.Quantity)
	}
	return total
}

// buildListener wires the console/JSONL logger and optional SVG
// exporters from c's flags into a single report.Listener (spec §2
// "Logging / reporting" + §6 Outputs' SVG cadences).
func buildListener(c *cli.Context) (report.Listener, func(), error) {
	var listeners report.MultiListener
	var logFile *os.File

	logFilePath := c.String("log-file")
	if logFilePath != "" {
		f, err := os.Create(logFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("packfold: creating log file %q: %w", logFilePath, err)
		}
		logFile = f
	}

	var logger *report.RunLogger
	if logFile != nil {
		logger = report.NewRunLogger(os.Stdout, logFile)
	} else {
		logger = report.NewRunLogger(os.Stdout, nil)
	}
	listeners = append(listeners, logger.AsListener())

	finalPath := c.String("svg-final")
	liveDir := c.String("svg-every-feasible")
	livePath := c.String("svg-live")
	if finalPath != "" || liveDir != "" || livePath != "" {
		exporter, err := svgexport.NewExporter(finalPath, liveDir, livePath)
		if err != nil {
			return nil, nil, err
		}
		listeners = append(listeners, exporter)
	}

	cleanup := func() {
		if logFile != nil {
			logFile.Close()
		}
	}
	return listeners, cleanup, nil
}
