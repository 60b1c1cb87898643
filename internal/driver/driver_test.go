package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/curv-lang/curv/internal/printer"
	"github.com/curv-lang/curv/internal/system"
)

func newTestDriver() *Driver {
	return New(system.New(&bytes.Buffer{}))
}

func TestEvalStringArithmetic(t *testing.T) {
	d := newTestDriver()
	v, err := d.EvalString("<test>", "1 + 2 * 3")
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	n, ok := v.AsNum()
	if !ok || n != 7 {
		t.Fatalf("EvalString(1 + 2 * 3) = %v, want 7", v)
	}
}

func TestEvalStringUsesStdNamespace(t *testing.T) {
	d := newTestDriver()
	v, err := d.EvalString("<test>", "sqrt 16")
	if err != nil {
		t.Fatalf("EvalString: %v", err)
	}
	n, ok := v.AsNum()
	if !ok || n != 4 {
		t.Fatalf("EvalString(sqrt 16) = %v, want 4", v)
	}
}

func TestEvalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.curv")
	if err := os.WriteFile(path, []byte("let x = 10 in x * x"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newTestDriver()
	v, err := d.EvalFile(path)
	if err != nil {
		t.Fatalf("EvalFile: %v", err)
	}
	n, ok := v.AsNum()
	if !ok || n != 100 {
		t.Fatalf("EvalFile = %v, want 100", v)
	}
}

func TestRunTests(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.curv")
	src := "test basic = (1 + 1 == 2);\ntest broken = (1 == 2);\n42"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newTestDriver()
	results, err := d.RunTests(path)
	if err != nil {
		t.Fatalf("RunTests: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("RunTests returned %d results, want 2", len(results))
	}
	var buf bytes.Buffer
	passed := PrintTestResults(&buf, results)
	if passed {
		t.Fatalf("expected PrintTestResults to report failure, got pass; output:\n%s", buf.String())
	}
}

func TestREPLEvaluatesEachLine(t *testing.T) {
	d := newTestDriver()
	in := bytes.NewBufferString("1 + 1\n2 * 3\n")
	var out bytes.Buffer
	r := &REPL{Driver: d, Style: printer.StyleC, In: in, Out: &out}
	r.Run()
	got := out.String()
	if !bytes.Contains([]byte(got), []byte("2")) || !bytes.Contains([]byte(got), []byte("6")) {
		t.Fatalf("REPL output missing expected results:\n%s", got)
	}
}
