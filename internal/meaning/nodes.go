package meaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/curv-lang/curv/internal/arrayop"
	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/lens"
	"github.com/curv-lang/curv/internal/source"
	"github.com/curv-lang/curv/internal/value"
)

// base embeds the source span every Operation node carries for
// error re-quoting (§6.3); mirrors phrase.base one layer down the
// pipeline.
type base struct {
	Loc source.SrcLoc
}

func (b base) Location() source.SrcLoc { return b.Loc }

// SetLoc lets the analyser attach a source location once a node is
// built (every concrete node's composite literal is written from
// another package, which cannot name the unexported `base` field
// directly).
func (b *base) SetLoc(loc source.SrcLoc) { b.Loc = loc }

// Locatable is implemented by every Operation via its embedded base.
type Locatable interface {
	SetLoc(loc source.SrcLoc)
}

// finish is the common "I'm done, here's my value" trampoline step: no
// NextOp, just a Result.
func finish(f *Frame, v value.Value) {
	f.Result = v
}

func fail(f *Frame, err error) {
	f.Err = err
}

// ---- literals and references ----

// Constant wraps an already-boxed Value computed at analysis time
// (numerals, symbol literals, string literals with no interpolation).
type Constant struct {
	base
	Val value.Value
}

func (n *Constant) TailEval(f *Frame) { finish(f, n.Val) }

// LocalDataRef reads slot Slot of the current Frame (a `let`/lambda
// parameter binding in the innermost scope, §4.3).
type LocalDataRef struct {
	base
	Slot int
}

func (n *LocalDataRef) TailEval(f *Frame) { finish(f, f.Slots[n.Slot]) }

// NonlocalDataRef reads slot Slot of the enclosing Frame's captured
// Nonlocals Module (a variable captured across a lambda/let boundary,
// §4.3/§4.5).
type NonlocalDataRef struct {
	base
	Slot int
}

func (n *NonlocalDataRef) TailEval(f *Frame) {
	v, err := f.Nonlocals.GetSlot(n.Slot)
	if err != nil {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, err.Error()))
		return
	}
	finish(f, v)
}

// ModuleDataRef reads a named field out of a module value already
// computed into another slot (a `lib.name` reference where lib is a
// module-valued local, §4.5). The field is looked up by name with
// value.Record.Get each time the node runs.
type ModuleDataRef struct {
	base
	Base  Operation
	Field value.Symbol
}

func (n *ModuleDataRef) TailEval(f *Frame) {
	baseVal, err := Eval(n.Base, f)
	if err != nil {
		fail(f, err)
		return
	}
	r, ok := baseVal.AsRef()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "not a module"))
		return
	}
	rec, ok := r.(value.Record)
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "not a record"))
		return
	}
	v, gerr := rec.Get(n.Field)
	if gerr != nil {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, gerr.Error()))
		return
	}
	finish(f, v)
}

// SymbolicRef reads a name from the ambient System namespace (e.g.
// `pi`, `len`) rather than a lexical slot — resolved by the analyser
// only when no enclosing scope binds the name (§4.3, §6.1).
type SymbolicRef struct {
	base
	Lookup func() (value.Value, error)
}

func (n *SymbolicRef) TailEval(f *Frame) {
	v, err := n.Lookup()
	if err != nil {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, err.Error()))
		return
	}
	finish(f, v)
}

// ---- arithmetic / comparison / logic, built on arrayop ----

var numKernels = map[string]arrayop.NumKernel{
	"+":   func(a, b float64) float64 { return a + b },
	"-":   func(a, b float64) float64 { return a - b },
	"*":   func(a, b float64) float64 { return a * b },
	"/":   func(a, b float64) float64 { return a / b },
	"^":   math.Pow,
	"mod": math.Mod,
}

var compareKernels = map[string]arrayop.CompareKernel{
	"==": func(a, b float64) bool { return a == b },
	"!=": func(a, b float64) bool { return a != b },
	"<":  func(a, b float64) bool { return a < b },
	"<=": func(a, b float64) bool { return a <= b },
	">":  func(a, b float64) bool { return a > b },
	">=": func(a, b float64) bool { return a >= b },
}

var unaryKernels = map[string]arrayop.UnaryKernel{
	"-": func(a float64) float64 { return -a },
	"+": func(a float64) float64 { return a },
}

// ArithOp is a broadcasting binary numeric operator (§4.6).
type ArithOp struct {
	base
	Op          string
	Left, Right Operation
	React       arrayop.ReactiveBuilder
}

func (n *ArithOp) TailEval(f *Frame) {
	a, err := Eval(n.Left, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, err := Eval(n.Right, f)
	if err != nil {
		fail(f, err)
		return
	}
	kernel, ok := numKernels[n.Op]
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, fmt.Sprintf("unknown arithmetic operator %q", n.Op)))
		return
	}
	v, err := arrayop.Binary(n.Op, kernel, a, b, errctx.Root(n.Loc), n.React)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// CompareOp is a broadcasting binary comparison operator (§4.6).
type CompareOp struct {
	base
	Op          string
	Left, Right Operation
}

func (n *CompareOp) TailEval(f *Frame) {
	a, err := Eval(n.Left, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, err := Eval(n.Right, f)
	if err != nil {
		fail(f, err)
		return
	}
	if n.Op == "==" || n.Op == "!=" {
		eq := value.Equal(a, b)
		result := eq == value.TTrue
		if n.Op == "!=" {
			result = eq == value.TFalse
		}
		finish(f, value.Bool(result))
		return
	}
	kernel, ok := compareKernels[n.Op]
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, fmt.Sprintf("unknown comparison operator %q", n.Op)))
		return
	}
	v, err := arrayop.Compare(n.Op, kernel, a, b, errctx.Root(n.Loc))
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// UnaryArithOp is a broadcasting unary numeric operator (`-x`, `+x`).
type UnaryArithOp struct {
	base
	Op    string
	Arg   Operation
	React arrayop.ReactiveBuilder
}

func (n *UnaryArithOp) TailEval(f *Frame) {
	a, err := Eval(n.Arg, f)
	if err != nil {
		fail(f, err)
		return
	}
	kernel, ok := unaryKernels[n.Op]
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, fmt.Sprintf("unknown unary operator %q", n.Op)))
		return
	}
	v, err := arrayop.Unary(n.Op, kernel, a, errctx.Root(n.Loc), n.React)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// NotExpr is boolean negation (`!x`).
type NotExpr struct {
	base
	Arg Operation
}

func (n *NotExpr) TailEval(f *Frame) {
	v, err := Eval(n.Arg, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, ok := v.AsBool()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "! requires a boolean operand"))
		return
	}
	finish(f, value.Bool(!b))
}

// AndExpr short-circuits: if Left is false, Right is never evaluated
// (§4.2).
type AndExpr struct {
	base
	Left, Right Operation
}

func (n *AndExpr) TailEval(f *Frame) {
	a, err := Eval(n.Left, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, ok := a.AsBool()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "&& requires boolean operands"))
		return
	}
	if !b {
		finish(f, value.False)
		return
	}
	f.NextOp = n.Right
}

// OrExpr short-circuits: if Left is true, Right is never evaluated.
type OrExpr struct {
	base
	Left, Right Operation
}

func (n *OrExpr) TailEval(f *Frame) {
	a, err := Eval(n.Left, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, ok := a.AsBool()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "|| requires boolean operands"))
		return
	}
	if b {
		finish(f, value.True)
		return
	}
	f.NextOp = n.Right
}

// ---- aggregates ----

// ListExpr builds a List value, flattening any generating ForOp
// sub-elements (§4.4's "list comprehension").
type ListExpr struct {
	base
	Elems []Operation
}

func (n *ListExpr) TailEval(f *Frame) {
	var out []value.Value
	for _, e := range n.Elems {
		v, err := Eval(e, f)
		if err != nil {
			fail(f, err)
			return
		}
		if g, ok := v.AsRef(); ok {
			if gen, ok := g.(generatedList); ok {
				out = append(out, gen.items...)
				continue
			}
		}
		out = append(out, v)
	}
	finish(f, value.FromRef(value.NewList(out)))
}

// generatedList is the internal marker a ForOp used in a list
// comprehension splices into its enclosing ListExpr, rather than
// nesting as a single list element (§4.4).
type generatedList struct {
	items []value.Value
}

func (generatedList) RefKind() value.RefKind { return value.RList }

// RecordExpr builds a DRecord value from a fixed set of named fields
// (§3.4/§4.4).
type RecordExpr struct {
	base
	Fields []RecordField
}

type RecordField struct {
	Name  value.Symbol
	Value Operation
}

func (n *RecordExpr) TailEval(f *Frame) {
	rec := value.NewDRecord()
	for _, field := range n.Fields {
		v, err := Eval(field.Value, f)
		if err != nil {
			fail(f, err)
			return
		}
		rec.Set(field.Name, v)
	}
	finish(f, value.FromRef(rec))
}

// ---- indexing ----

// IndexExpr is `a@i`, built on the lens layer (§4.7); `r.field` is
// DotExpr.
type IndexExpr struct {
	base
	Arg   Operation
	Index Operation
}

func (n *IndexExpr) TailEval(f *Frame) {
	a, err := Eval(n.Arg, f)
	if err != nil {
		fail(f, err)
		return
	}
	i, err := Eval(n.Index, f)
	if err != nil {
		fail(f, err)
		return
	}
	v, err := lens.Fetch(a, value.AsIndex(i), errctx.Root(n.Loc))
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// DotExpr is `r.field` with the field name fixed at analysis time.
type DotExpr struct {
	base
	Arg   Operation
	Field value.Symbol
}

func (n *DotExpr) TailEval(f *Frame) {
	a, err := Eval(n.Arg, f)
	if err != nil {
		fail(f, err)
		return
	}
	v, err := lens.Fetch(a, value.ScalarIndex{V: value.FromRef(n.Field)}, errctx.Root(n.Loc))
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// ---- control flow ----

// IfElseOp is `if (cond) then else else`; the taken branch is run as a
// tail position (no extra Go-level Eval recursion), per §5.
type IfElseOp struct {
	base
	Cond, Then, Else Operation
}

func (n *IfElseOp) TailEval(f *Frame) {
	c, err := Eval(n.Cond, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, ok := c.AsBool()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "if condition must be a boolean"))
		return
	}
	if b {
		f.NextOp = n.Then
		return
	}
	if n.Else == nil {
		finish(f, value.Missing)
		return
	}
	f.NextOp = n.Else
}

// ForOp iterates Pattern over Seq's elements, evaluating Body once per
// iteration; used both as an action (side effects only, §4.4 `do`
// blocks) and as a list-comprehension generator spliced by ListExpr.
type ForOp struct {
	base
	Pat      Pattern
	Seq      Operation
	Body     Operation
	Generate bool // true inside a list literal: collect Body's results
}

func (n *ForOp) TailEval(f *Frame) {
	seq, err := Eval(n.Seq, f)
	if err != nil {
		fail(f, err)
		return
	}
	r, ok := seq.AsRef()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "for requires a list to iterate over"))
		return
	}
	list, ok := r.(*value.List)
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "for requires a list to iterate over"))
		return
	}
	var collected []value.Value
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.At(i)
		if err := n.Pat.Bind(elem, f, errctx.Root(n.Loc)); err != nil {
			fail(f, err)
			return
		}
		v, err := Eval(n.Body, f)
		if err != nil {
			fail(f, err)
			return
		}
		if n.Generate {
			collected = append(collected, v)
		}
	}
	if n.Generate {
		finish(f, value.FromRef(generatedList{items: collected}))
		return
	}
	finish(f, value.Missing)
}

// WhileOp evaluates Body repeatedly while Cond holds (§4.4's `do`
// action form); yields Missing (used only for its side effects via
// `var`-mutation, since while has no useful result value).
type WhileOp struct {
	base
	Cond Operation
	Body Operation
}

func (n *WhileOp) TailEval(f *Frame) {
	for {
		c, err := Eval(n.Cond, f)
		if err != nil {
			fail(f, err)
			return
		}
		b, ok := c.AsBool()
		if !ok {
			fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "while condition must be a boolean"))
			return
		}
		if !b {
			break
		}
		if _, err := Eval(n.Body, f); err != nil {
			fail(f, err)
			return
		}
	}
	finish(f, value.Missing)
}

// CompoundOp runs Items in order for effect, then runs Last in tail
// position (`a; b; c` in action position, §4.4's Sequence/`do`).
type CompoundOp struct {
	base
	Items []Operation
	Last  Operation
}

func (n *CompoundOp) TailEval(f *Frame) {
	for _, it := range n.Items {
		if _, err := Eval(it, f); err != nil {
			fail(f, err)
			return
		}
	}
	if n.Last == nil {
		finish(f, value.Missing)
		return
	}
	f.NextOp = n.Last
}

// AssignOp is `lhs := rhs` against a `var` slot, or `lhs@i := rhs` /
// `lhs.field := rhs` against an indexed locative, rebuilding the
// target via lens.Amend copy-on-write and writing the amended value
// back to the root slot (§4.4, §4.7).
type AssignOp struct {
	base
	Slot     int         // the var slot the (possibly indexed) lhs roots at
	Nonlocal bool        // true when Slot indexes f.Nonlocals instead of f.Slots (a `var` bound by an enclosing let, §4.5)
	Index    []Operation // empty for a bare `x := v`; one Index op per `@`/`.` step otherwise
	Value    Operation
}

func (n *AssignOp) root(f *Frame) (value.Value, error) {
	if n.Nonlocal {
		return f.Nonlocals.GetSlot(n.Slot)
	}
	return f.Slots[n.Slot], nil
}

func (n *AssignOp) setRoot(f *Frame, v value.Value) {
	if n.Nonlocal {
		f.Nonlocals.SetSlot(n.Slot, v)
		return
	}
	f.Slots[n.Slot] = v
}

func (n *AssignOp) TailEval(f *Frame) {
	v, err := Eval(n.Value, f)
	if err != nil {
		fail(f, err)
		return
	}
	if len(n.Index) == 0 {
		n.setRoot(f, v)
		finish(f, value.Missing)
		return
	}
	idx := value.Index(value.TId{})
	for _, iop := range n.Index {
		iv, err := Eval(iop, f)
		if err != nil {
			fail(f, err)
			return
		}
		idx = value.TPath{I: idx, J: value.AsIndex(iv)}
	}
	old, err := n.root(f)
	if err != nil {
		fail(f, err)
		return
	}
	amended, err := lens.Amend(old, idx, v, errctx.Root(n.Loc))
	if err != nil {
		fail(f, err)
		return
	}
	n.setRoot(f, amended)
	finish(f, value.Missing)
}

// ---- functions ----

// LambdaExpr evaluates to a Closure value, capturing the current
// Frame's Nonlocals as the closure's free-variable environment (§5).
type LambdaExpr struct {
	base
	Lam *Lambda
}

func (n *LambdaExpr) TailEval(f *Frame) {
	nonlocals, err := captureModule(n.Lam, f)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, value.FromRef(&Closure{Lam: n.Lam, Nonlocals: nonlocals, Name: n.Lam.Name}))
}

// PiecewiseExpr evaluates to a PiecewiseFunction value combining
// several function-literal cases written with `;` (§4.4). All cases
// are required to be written in the same lexical scope, so they share
// one capture set. Nothing checks this: the analyser never builds a
// PiecewiseExpr.
type PiecewiseExpr struct {
	base
	Cases []*Lambda
	Name  string
}

func (n *PiecewiseExpr) TailEval(f *Frame) {
	if len(n.Cases) == 0 {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatAnalysis, "empty piecewise function"))
		return
	}
	nonlocals, err := captureModule(n.Cases[0], f)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, value.FromRef(&PiecewiseFunction{Cases: n.Cases, Nonlocals: nonlocals, Name: n.Name}))
}

// ComposeExpr is `f >> g`: function composition (§4.4).
type ComposeExpr struct {
	base
	Left, Right Operation
}

func (n *ComposeExpr) TailEval(f *Frame) {
	a, err := Eval(n.Left, f)
	if err != nil {
		fail(f, err)
		return
	}
	b, err := Eval(n.Right, f)
	if err != nil {
		fail(f, err)
		return
	}
	ac, aok := asCallable(a)
	bc, bok := asCallable(b)
	if !aok || !bok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, ">> requires two functions"))
		return
	}
	finish(f, value.FromRef(&CompositeFunction{First: ac, Second: bc}))
}

func asCallable(v value.Value) (Callable, bool) {
	r, ok := v.AsRef()
	if !ok {
		return nil, false
	}
	c, ok := r.(Callable)
	return c, ok
}

// CallExpr applies Fn to Arg (`f x`, §4.4).
type CallExpr struct {
	base
	Fn, Arg Operation
}

func (n *CallExpr) TailEval(f *Frame) {
	fn, err := Eval(n.Fn, f)
	if err != nil {
		fail(f, err)
		return
	}
	arg, err := Eval(n.Arg, f)
	if err != nil {
		fail(f, err)
		return
	}
	r, ok := fn.AsRef()
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "not callable"))
		return
	}
	callable, ok := r.(Callable)
	if !ok {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "not callable"))
		return
	}
	v, err := callable.Call(arg, n.Loc)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}

// StringInterpOp concatenates a string literal's literal runs and
// interpolated sub-expressions left to right (§3.2, §4.2). Each
// interpolated part is stringified the way `repr` displays a bare
// string (no quoting): a string passes through unchanged, a char
// becomes a one-byte string, and a number/bool render as their usual
// text form.
type StringInterpOp struct {
	base
	Parts []Operation
}

func (n *StringInterpOp) TailEval(f *Frame) {
	var b strings.Builder
	for _, part := range n.Parts {
		v, err := Eval(part, f)
		if err != nil {
			fail(f, err)
			return
		}
		s, err := stringify(v, n.Loc)
		if err != nil {
			fail(f, err)
			return
		}
		b.WriteString(s)
	}
	finish(f, value.FromRef(value.NewString(b.String())))
}

func stringify(v value.Value, loc source.SrcLoc) (string, error) {
	switch {
	case v.IsNum():
		f, _ := v.AsNum()
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case v.IsBool():
		b, _ := v.AsBool()
		return strconv.FormatBool(b), nil
	case v.IsChar():
		c, _ := v.AsChar()
		return string(rune(c)), nil
	case v.IsRef():
		r, _ := v.AsRef()
		if s, ok := r.(*value.String); ok {
			return s.Go(), nil
		}
	}
	return "", errctx.Fail(errctx.Root(loc), errctx.CatDomain, "value cannot be interpolated into a string")
}

// RangeOp builds the list denoted by `lo .. hi` / `lo ..< hi [by
// step]` (§4.4). Step defaults to 1; HalfOpen excludes Hi.
type RangeOp struct {
	base
	Lo, Hi, Step Operation
	HalfOpen     bool
}

func (n *RangeOp) TailEval(f *Frame) {
	lo, err := Eval(n.Lo, f)
	if err != nil {
		fail(f, err)
		return
	}
	hi, err := Eval(n.Hi, f)
	if err != nil {
		fail(f, err)
		return
	}
	step := 1.0
	if n.Step != nil {
		sv, err := Eval(n.Step, f)
		if err != nil {
			fail(f, err)
			return
		}
		s, ok := sv.AsNum()
		if !ok {
			fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "range step must be a number"))
			return
		}
		step = s
	}
	loN, ok1 := lo.AsNum()
	hiN, ok2 := hi.AsNum()
	if !ok1 || !ok2 {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "range bounds must be numbers"))
		return
	}
	if step == 0 {
		fail(f, errctx.Fail(errctx.Root(n.Loc), errctx.CatDomain, "range step must not be zero"))
		return
	}
	var out []value.Value
	if step > 0 {
		for x := loN; n.within(x, hiN, true); x += step {
			out = append(out, value.Num(x))
		}
	} else {
		for x := loN; n.within(x, hiN, false); x += step {
			out = append(out, value.Num(x))
		}
	}
	finish(f, value.FromRef(value.NewList(out)))
}

// within reports whether x is still inside the range bound hi, given
// the range's HalfOpen flag and the iteration direction (ascending
// when asc is true).
func (n *RangeOp) within(x, hi float64, asc bool) bool {
	const eps = 1e-9
	if asc {
		if n.HalfOpen {
			return x < hi-eps
		}
		return x <= hi+eps
	}
	if n.HalfOpen {
		return x > hi+eps
	}
	return x >= hi-eps
}
