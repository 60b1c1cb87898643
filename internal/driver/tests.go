package driver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/curv-lang/curv/internal/meaning"
)

// TestResult is the outcome of one `test name = expr` assertion (§C).
type TestResult struct {
	Name   string
	Passed bool
	Err    error
}

// RunTests analyses path (without evaluating its trailing body
// expression) and runs every top-level `test` definition: each one's
// value must evaluate to the boolean true for the assertion to pass,
// matching flattenDefs' "test "+name naming convention for a TestDef.
// Results are reported in declaration order, not run until all
// sibling definitions are bound (a test may reference a function
// defined later in the same file, same as any other letrec binding).
func (d *Driver) RunTests(path string) ([]TestResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	op, err := d.Analyse(path, string(src))
	if err != nil {
		return nil, err
	}
	root, ok := op.(*meaning.RecursiveLetOp)
	if !ok {
		return nil, nil
	}
	module, err := meaning.BuildModule(root.Defs, root.Captures, nil)
	if err != nil {
		return nil, err
	}
	var results []TestResult
	for _, def := range root.Defs {
		name := string(def.Name)
		testName, ok := strings.CutPrefix(name, "test ")
		if !ok {
			continue
		}
		idx := module.Dict[def.Name]
		v, err := module.GetSlot(idx)
		if err != nil {
			results = append(results, TestResult{Name: testName, Err: err})
			continue
		}
		b, isBool := v.AsBool()
		if !isBool {
			results = append(results, TestResult{Name: testName, Err: fmt.Errorf("test did not evaluate to a boolean")})
			continue
		}
		results = append(results, TestResult{Name: testName, Passed: b})
	}
	return results, nil
}

// PrintTestResults writes a one-line summary per result plus a final
// pass/fail tally to w, the style cmd/curv's `test` subcommand uses.
func PrintTestResults(w io.Writer, results []TestResult) (allPassed bool) {
	allPassed = true
	passed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "FAIL %s: %v\n", r.Name, r.Err)
			allPassed = false
		case r.Passed:
			fmt.Fprintf(w, "ok   %s\n", r.Name)
			passed++
		default:
			fmt.Fprintf(w, "FAIL %s\n", r.Name)
			allPassed = false
		}
	}
	fmt.Fprintf(w, "%d/%d tests passed\n", passed, len(results))
	return allPassed
}
