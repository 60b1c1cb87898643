// Package errctx implements Curv's error taxonomy: a uniform
// Exception type carrying a message and a stack of source locations,
// and a composable Context that decorates a message with "at field
// .x", "argument #2 of f", and similar lexical-site prefixes (§7).
//
// Grounded on the teacher's pkg/visitors/semantic_analyzer.go
// SemanticError (Position + Message, with an Error() method), widened
// from a single flat position string into a composing Context chain
// and a Func_Loc call stack per spec.md §6.3/§7.
package errctx

import (
	"fmt"
	"strings"

	"github.com/curv-lang/curv/internal/source"
)

// Category is the abstract error taxonomy of §7; it is informational
// only, never surfaced verbatim to the user as a type name.
type Category int

const (
	CatLexical Category = iota
	CatSyntax
	CatAnalysis
	CatDomain
	CatRuntimeStructural
	CatShapeCompiler
)

// FuncLoc is one stack frame of an Exception's propagation trace: the
// name of the function being evaluated (if any) plus the call-site
// location (§6.3).
type FuncLoc struct {
	FuncName string
	Loc      source.SrcLoc
}

// Exception is the single error type every stage of the pipeline
// raises (§7: "All errors raise the same Exception type").
type Exception struct {
	Category Category
	Message  string
	Stack    []FuncLoc
}

func (e *Exception) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Stack {
		if f.FuncName != "" {
			fmt.Fprintf(&b, "\n  at %s (%s)", f.FuncName, f.Loc)
		} else {
			fmt.Fprintf(&b, "\n  at %s", f.Loc)
		}
	}
	return b.String()
}

// New builds a bare Exception with no stack; callers normally go
// through a Context instead (see Context.Error below) so the message
// is already decorated with its lexical site.
func New(cat Category, message string) *Exception {
	return &Exception{Category: cat, Message: message}
}

// PushFrame records one more level of call-stack unwinding as the
// exception propagates out through a Closure call boundary (§C of
// SPEC_FULL.md, "Func_Loc stack frames").
func (e *Exception) PushFrame(funcName string, loc source.SrcLoc) {
	e.Stack = append(e.Stack, FuncLoc{FuncName: funcName, Loc: loc})
}

// Context describes the lexical site and enclosing operation for an
// error, composable so that nested contexts accumulate a prefix like
// "at index [2]: at field .bbox: …" (§7).
type Context interface {
	// Rewrite decorates message with this context's site description,
	// then defers to any parent context to add its own prefix.
	Rewrite(message string) string
	Loc() source.SrcLoc
}

// rootContext is a Context with no parent: just a source location.
type rootContext struct {
	loc source.SrcLoc
}

func Root(loc source.SrcLoc) Context { return rootContext{loc: loc} }

func (r rootContext) Rewrite(message string) string { return message }
func (r rootContext) Loc() source.SrcLoc             { return r.loc }

// AtField wraps a parent Context, prepending "at field .name: ".
type AtField struct {
	Parent Context
	Name   string
}

func (a AtField) Rewrite(message string) string {
	return a.Parent.Rewrite(fmt.Sprintf("at field .%s: %s", a.Name, message))
}
func (a AtField) Loc() source.SrcLoc { return a.Parent.Loc() }

// AtIndex wraps a parent Context, prepending "at index [n]: ".
type AtIndex struct {
	Parent Context
	Index  int
}

func (a AtIndex) Rewrite(message string) string {
	return a.Parent.Rewrite(fmt.Sprintf("at index [%d]: %s", a.Index, message))
}
func (a AtIndex) Loc() source.SrcLoc { return a.Parent.Loc() }

// AtArg wraps a parent Context, prepending "argument #n of f: ".
type AtArg struct {
	Parent Context
	Index  int
	Func   string
}

func (a AtArg) Rewrite(message string) string {
	return a.Parent.Rewrite(fmt.Sprintf("argument #%d of %s: %s", a.Index, a.Func, message))
}
func (a AtArg) Loc() source.SrcLoc { return a.Parent.Loc() }

// Fail raises an Exception of the given category at cx's site, with
// the message rewritten through the full Context chain. This is the
// "hard failure" half of §4.5's Fail discipline.
func Fail(cx Context, cat Category, message string) *Exception {
	return &Exception{Category: cat, Message: cx.Rewrite(message), Stack: []FuncLoc{{Loc: cx.Loc()}}}
}

// Shape is a convenience for §4.8 shape-compiler errors, which are
// reported at the offending phrase with a "Shape Compiler: …" prefix.
func Shape(cx Context, message string) *Exception {
	return Fail(cx, CatShapeCompiler, "Shape Compiler: "+message)
}
