// Package system implements the mutable collaborator bag every Curv
// program runs against (§5, §6.4): the std namespace consulted once a
// name isn't lexically bound, the file importer that value.DirRecord
// field reads dispatch through, a console writer, and the
// in-flight-import set that makes recursive imports fail cleanly
// instead of looping forever. The language has no `import` form and
// no `print`/`echo` actions.
package system

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/xrash/smetrics"

	"github.com/curv-lang/curv/internal/value"
)

// System is built once per process (by cmd/curv) and threaded through
// the analyser (as an analyser.SystemLookup) and the evaluator (as the
// value.Importer behind DirRecord field reads).
type System struct {
	Console  io.Writer
	std      map[string]value.Value
	stdNames []string
	active   *ActiveFiles
}

// New builds a System with the standard namespace preloaded and an
// empty import-cycle guard. console is stored as System.Console; pass
// os.Stdout for the CLI, a bytes.Buffer for tests. Nothing in the
// evaluator writes to it.
func New(console io.Writer) *System {
	std, names := buildStd()
	sort.Strings(names)
	return &System{
		Console:  console,
		std:      std,
		stdNames: names,
		active:   NewActiveFiles(),
	}
}

// NewDefault is New(os.Stdout), the constructor cmd/curv uses.
func NewDefault() *System {
	return New(os.Stdout)
}

// Lookup resolves a name against the std namespace. Its signature is
// exactly analyser.SystemLookup, so a *System is passed straight to
// analyser.AnalyseProgram without an adapter. A miss returns an error
// naming the closest std identifier (by Jaro-Winkler similarity) as a
// "did you mean" hint, the same courtesy a misspelled flag gets from
// most CLI tools.
func (s *System) Lookup(name string) (value.Value, error) {
	if v, ok := s.std[name]; ok {
		return v, nil
	}
	best, bestScore := "", 0.0
	for _, candidate := range s.stdNames {
		score := smetrics.JaroWinkler(name, candidate, 0.7, 4)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore >= 0.85 {
		return value.Missing, fmt.Errorf("undefined name %q (did you mean %q?)", name, best)
	}
	return value.Missing, fmt.Errorf("undefined name %q", name)
}
