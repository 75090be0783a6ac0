// Command irtrace replays one of testdata/scenarios' YAML IR programs
// through a fresh analyzer.Analyzer, printing each variable's type as it
// changes. It's the debugging counterpart to internal/irtest's
// Run/Check: irtest asks "does the final state match", irtrace asks
// "what happened, instruction by instruction, on the way there".
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jsfuzz/irtypes/internal/analyzer"
	"github.com/jsfuzz/irtypes/internal/env"
	"github.com/jsfuzz/irtypes/internal/ir"
	"github.com/jsfuzz/irtypes/internal/irtest"
	"github.com/jsfuzz/irtypes/internal/lattice"
	"github.com/jsfuzz/irtypes/internal/obslog"
)

func main() {
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	checkAssertions := flag.Bool("check", true, "evaluate the scenario's own assertions after replay")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] scenario.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := obslog.New(os.Stderr, obslog.ParseLevel(*logLevel))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	scenario, err := irtest.Load(path)
	if err != nil {
		log.Error("loading scenario: %v", err)
		os.Exit(1)
	}
	log.Info("loaded scenario %q from %s", scenario.Name, path)

	colorize := colorEnabled()
	a := analyzer.New(env.NewStatic(), nil)
	a.AddObserver(func(v ir.Variable, old, newT lattice.Type) {
		printTransition(colorize, v, old, newT)
	})

	for i, spec := range scenario.Instructions {
		inst, err := spec.Build()
		if err != nil {
			log.Error("instruction %d: building: %v", i, err)
			os.Exit(1)
		}
		fmt.Printf("#%-3d %s\n", inst.Index, inst.Opcode)
		if err := a.Analyze(inst); err != nil {
			log.Error("instruction %d (%s): %v", i, inst.Opcode, err)
			os.Exit(1)
		}
	}

	if !*checkAssertions {
		return
	}
	if failures := irtest.Check(a, scenario.Assertions); len(failures) > 0 {
		for _, f := range failures {
			log.Error("assertion failed: %s", f)
		}
		os.Exit(1)
	}
	log.Info("all %d assertions passed", len(scenario.Assertions))
}

// printTransition renders one variable's old -> new type change,
// coloring the variable and new type and dimming the arrow when
// colorize is true; otherwise it prints plain text, so redirected output
// carries no escape codes.
func printTransition(colorize bool, v ir.Variable, old, newT lattice.Type) {
	if colorize {
		fmt.Printf("  \x1b[36mv%d\x1b[0m: %s \x1b[90m->\x1b[0m \x1b[32m%s\x1b[0m\n", v, old, newT)
		return
	}
	fmt.Printf("  v%d: %s -> %s\n", v, old, newT)
}

// colorEnabled follows the NO_COLOR convention (https://no-color.org/)
// and otherwise only colorizes when stdout is an interactive terminal.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
