package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"github.com/curv-lang/curv/internal/analyser"
	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/parser"
	"github.com/curv-lang/curv/internal/value"
)

// System is the Importer implementation value.DirRecord defers to
// (§3.4, §6.4): ImportChild dispatches on the child's extension (or
// the empty string for a subdirectory): a subdirectory becomes a
// DirRecord, a `.curv` file is evaluated, and any other extension is
// an error; ListChildren reads a directory, retrying transient
// filesystem errors with an exponential backoff instead of a
// hand-rolled retry loop (§5).
var _ value.Importer = (*System)(nil)

func (s *System) ImportChild(dirPath, childName string) (value.Value, error) {
	full := filepath.Join(dirPath, childName)
	info, err := s.statWithRetry(full)
	if err != nil {
		return value.Missing, err
	}
	ext := ""
	if !info.IsDir() {
		ext = strings.ToLower(filepath.Ext(full))
	}
	switch ext {
	case "":
		return value.FromRef(&value.DirRecord{Path: full, Importer: s}), nil
	case ".curv":
		return s.importCurvFile(full)
	default:
		return value.Missing, fmt.Errorf("no importer registered for %q files", ext)
	}
}

func (s *System) ListChildren(dirPath string) ([]string, error) {
	entries, err := s.readDirWithRetry(dirPath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.ToLower(filepath.Ext(name)) != ".curv" {
			continue
		}
		if e.IsDir() {
			names = append(names, name)
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return names, nil
}

// importCurvFile scans, parses, analyses and evaluates a `.curv` file
// end to end — the same pipeline cmd/curv's `eval` subcommand drives,
// reached when a DirRecord field names a `.curv` child (§6.4).
// ActiveFiles guards against import cycles.
func (s *System) importCurvFile(path string) (value.Value, error) {
	if err := s.active.Push(path); err != nil {
		return value.Missing, err
	}
	defer s.active.Pop(path)

	bytes, err := os.ReadFile(path)
	if err != nil {
		return value.Missing, err
	}
	p, err := parser.ParseString(path, string(bytes))
	if err != nil {
		return value.Missing, err
	}
	op, err := analyser.AnalyseProgram(p, s.Lookup)
	if err != nil {
		return value.Missing, err
	}
	return meaning.Eval(op, meaning.NewFrame(nil, nil, 0))
}

// transient reports whether err is the kind of filesystem error worth
// retrying (resource exhaustion / a directory mutated mid-read) rather
// than a permanent one (not found, permission denied).
func transient(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "too many open files") ||
		strings.Contains(err.Error(), "resource temporarily unavailable") ||
		strings.Contains(err.Error(), "interrupted system call")
}

func (s *System) readDirWithRetry(path string) ([]os.DirEntry, error) {
	b := &backoff.Backoff{Min: 10 * time.Millisecond, Max: 200 * time.Millisecond, Factor: 2, Jitter: true}
	for {
		entries, err := os.ReadDir(path)
		if err == nil || !transient(err) || b.Attempt() >= 4 {
			return entries, err
		}
		time.Sleep(b.Duration())
	}
}

func (s *System) statWithRetry(path string) (os.FileInfo, error) {
	b := &backoff.Backoff{Min: 10 * time.Millisecond, Max: 200 * time.Millisecond, Factor: 2, Jitter: true}
	for {
		info, err := os.Stat(path)
		if err == nil || !transient(err) || b.Attempt() >= 4 {
			return info, err
		}
		time.Sleep(b.Duration())
	}
}
