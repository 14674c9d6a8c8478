package main

import (
	"github.com/urfave/cli/v2"
)

// appFlagsMap centralizes every CLI flag the packfold and bench commands
// draw from, the way the teacher's cmd/keycraft/main.go's appFlagsMap
// does, so both commands pick a subset instead of redeclaring flags.
var appFlagsMap = map[string]cli.Flag{
	"instance": &cli.StringFlag{
		Name:     "instance",
		Aliases:  []string{"i"},
		Usage:    "strip packing instance file (JSON)",
		Required: true,
	},
	"time": &cli.Float64Flag{
		Name:    "time",
		Aliases: []string{"t"},
		Usage:   "total time budget in seconds, split 80/20 between exploration and compression",
	},
	"explore-time": &cli.Float64Flag{
		Name:    "explore-time",
		Aliases: []string{"e"},
		Usage:   "exploration phase time budget in seconds (paired with -c)",
	},
	"compress-time": &cli.Float64Flag{
		Name:    "compress-time",
		Aliases: []string{"c"},
		Usage:   "compression phase time budget in seconds (paired with -e)",
	},
	"early-termination": &cli.BoolFlag{
		Name:    "early-termination",
		Aliases: []string{"x"},
		Usage:   "set a max-consecutive-failure limit in exploration and switch compression to FailureBased decay",
	},
	"seed": &cli.Int64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "deterministic random seed; uses the current time if 0",
		Value:   0,
	},
	"output": &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "solution output path",
		Value:   "solution.json",
	},
	"log-file": &cli.StringFlag{
		Name:  "log-file",
		Usage: "JSONL log file path for detailed run events",
	},
	"svg-final": &cli.StringFlag{
		Name:  "svg-final",
		Usage: "write the final packing to this SVG file",
	},
	"svg-every-feasible": &cli.StringFlag{
		Name:  "svg-every-feasible",
		Usage: "write one SVG file per feasible/compression event into this directory",
	},
	"svg-live": &cli.StringFlag{
		Name:  "svg-live",
		Usage: "overwrite this SVG file on every reported solution event",
	},
	"runs": &cli.IntFlag{
		Name:    "runs",
		Aliases: []string{"n"},
		Usage:   "number of independently-seeded runs over the instance (bench)",
		Value:   5,
	},
}

// flagsSlice returns a slice of cli.Flag pointers for the given keys
// from appFlagsMap.
func flagsSlice(keys ...string) []cli.Flag {
	flags := make([]cli.Flag, 0, len(keys))
	for _, k := range keys {
		if f, ok := appFlagsMap[k]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
