package driver

import (
	"bufio"
	"fmt"
	"io"

	"github.com/curv-lang/curv/internal/printer"
)

// REPL reads one line at a time from in, evaluates it as a complete
// program, and prints its result to out in the given style — a
// read-eval-print loop with no persistent bindings across lines,
// matching §A.1's `curv repl` (each line starts a fresh top-level
// program, the same as `curv eval` would on that one line).
type REPL struct {
	Driver *Driver
	Style  printer.Style
	In     io.Reader
	Out    io.Writer
}

// Run drives the loop until In is exhausted (EOF on stdin, or the
// user's terminal closing), printing a `curv> ` prompt before each
// line and a result or error after it.
func (r *REPL) Run() {
	scanner := bufio.NewScanner(r.In)
	for {
		fmt.Fprint(r.Out, "curv> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.Out)
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := r.Driver.EvalString("<repl>", line)
		if err != nil {
			fmt.Fprintln(r.Out, err)
			continue
		}
		fmt.Fprintln(r.Out, printer.Print(v, r.Style))
	}
}
