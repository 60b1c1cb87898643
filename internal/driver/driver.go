// Package driver wires together the scan/parse/analyse/evaluate
// pipeline (§5, §A) into the handful of whole-program operations
// cmd/curv's subcommands need: evaluating a file to a final value,
// running its `test name = expr` assertions, a REPL loop, and a
// watch-and-rerun mode. Each of these is a thin orchestration over
// internal/parser, internal/analyser, internal/meaning and
// internal/system — none of that pipeline logic is duplicated here.
package driver

import (
	"fmt"
	"os"

	"github.com/curv-lang/curv/internal/analyser"
	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/parser"
	"github.com/curv-lang/curv/internal/system"
	"github.com/curv-lang/curv/internal/value"
)

// Driver holds the one System a process builds (§6.4) and runs
// programs against it.
type Driver struct {
	Sys *system.System
}

func New(sys *system.System) *Driver {
	return &Driver{Sys: sys}
}

// EvalFile runs path end to end: read, scan+parse, analyse, evaluate.
// This is the same pipeline internal/system's `.curv` importer drives
// for `import`, reused here as the top-level entry point so a file
// behaves identically whether it's the program being run or a library
// another program imports.
func (d *Driver) EvalFile(path string) (value.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return value.Missing, fmt.Errorf("reading %s: %w", path, err)
	}
	return d.EvalString(path, string(src))
}

// EvalString parses and evaluates text as though it were the contents
// of a file named name (used by EvalFile and by the REPL, which has
// no file on disk for a one-line input).
func (d *Driver) EvalString(name, text string) (value.Value, error) {
	op, err := d.Analyse(name, text)
	if err != nil {
		return value.Missing, err
	}
	return meaning.Eval(op, meaning.NewFrame(nil, nil, 0))
}

// Analyse runs scan+parse+analyse without evaluating, the shared
// prefix RunTests needs in order to inspect the program's top-level
// RecursiveLetOp before running anything.
func (d *Driver) Analyse(name, text string) (meaning.Operation, error) {
	p, err := parser.ParseString(name, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	op, err := analyser.AnalyseProgram(p, d.Sys.Lookup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return op, nil
}
