package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/curv-lang/curv/internal/value"
)

func TestLookupStdNames(t *testing.T) {
	sys := New(&bytes.Buffer{})
	v, err := sys.Lookup("pi")
	if err != nil {
		t.Fatalf("Lookup(pi): %v", err)
	}
	n, ok := v.AsNum()
	if !ok || n < 3.14 || n > 3.15 {
		t.Fatalf("Lookup(pi) = %v, want ~3.14159", v)
	}
}

func TestLookupSuggestsClosestName(t *testing.T) {
	sys := New(&bytes.Buffer{})
	_, err := sys.Lookup("sqtr")
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
	if !strings.Contains(err.Error(), "sqrt") {
		t.Fatalf("error %q does not suggest sqrt", err.Error())
	}
}

func TestLookupUnrelatedNameHasNoSuggestion(t *testing.T) {
	sys := New(&bytes.Buffer{})
	_, err := sys.Lookup("zzzzzzzzzz")
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("error %q should not guess a suggestion for an unrelated name", err.Error())
	}
}

func TestImportChildCurvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.curv")
	if err := os.WriteFile(path, []byte("1 + 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	sys := New(&bytes.Buffer{})
	v, err := sys.ImportChild(dir, "lib.curv")
	if err != nil {
		t.Fatalf("ImportChild: %v", err)
	}
	n, ok := v.AsNum()
	if !ok || n != 3 {
		t.Fatalf("ImportChild(lib.curv) = %v, want 3", v)
	}
}

func TestImportChildDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	sys := New(&bytes.Buffer{})
	v, err := sys.ImportChild(dir, "pkg")
	if err != nil {
		t.Fatalf("ImportChild: %v", err)
	}
	r, ok := v.AsRef()
	if !ok {
		t.Fatalf("ImportChild(pkg) is not a ref")
	}
	if _, ok := r.(*value.DirRecord); !ok {
		t.Fatalf("ImportChild(pkg) = %T, want *value.DirRecord", r)
	}
}

func TestImportCycleDetected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.curv")
	b := filepath.Join(dir, "b.curv")
	if err := os.WriteFile(a, []byte(`import "b.curv"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(`import "a.curv"`), 0o644); err != nil {
		t.Fatal(err)
	}
	sys := New(&bytes.Buffer{})
	_, err := sys.ImportChild(dir, "a.curv")
	if err == nil {
		t.Fatal("expected an import cycle error")
	}
}
