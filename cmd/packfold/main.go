// Package main provides the CLI entrypoint for the packfold binary: a
// "run" command that packs one instance and writes its best solution,
// plus a "bench" subcommand that reruns an instance N times to report
// width/density statistics.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main sets up the CLI application and registers commands.
func main() {
	app := &cli.App{
		Name:  "packfold",
		Usage: "solve the 2D strip packing problem with irregular polygons",
		Commands: []*cli.Command{
			runCommand,
			benchCommand,
		},
		// running "packfold -i instance.json ..." without a subcommand
		// behaves the same as "packfold run -i instance.json ...".
		Flags:  runCommand.Flags,
		Before: validateRunFlags,
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
