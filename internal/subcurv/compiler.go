package subcurv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/value"
)

// Value is a SubCurv-compiled value: the C++ expression naming it
// (always a bare variable once Compiler.emit has run, never a
// re-evaluated sub-expression) plus its static Type.
type Value struct {
	Expr string
	Type *Type
}

// Frame mirrors meaning.Frame for the abstract compiler: compile-time
// Values standing in for runtime value.Value, indexed the same way by
// local slot and by captured Nonlocals slot (§4.8).
type Frame struct {
	Slots     []Value
	Nonlocals []Value
}

// cacheKey identifies one inlining of a Lambda body: the Lambda
// (pointer identity — the analyser builds exactly one per source
// lambda) and the C++ expression naming the argument it was called
// with. Two calls of the same lambda on the same already-named
// argument share one inlining (§4.8's diamond-DAG sharing).
type cacheKey struct {
	lam *meaning.Lambda
	arg string
}

type opCache struct {
	entries map[cacheKey]Value
}

func newOpCache() *opCache { return &opCache{entries: make(map[cacheKey]Value)} }

// intrinsic is implemented by internal/system.NativeFunc, duck-typed
// here so this package never imports internal/system (which would
// otherwise need to import subcurv back, for the Program test harness
// exercised from system's own tests): a native function that names
// itself this way compiles to a direct C++ math-library call instead
// of requiring a Curv-level body to inline.
type intrinsic interface {
	IntrinsicName() string
}

var cMathIntrinsics = map[string]string{
	"sqrt": "std::sqrt", "sin": "std::sin", "cos": "std::cos", "tan": "std::tan",
	"abs": "std::abs", "floor": "std::floor", "ceil": "std::ceil",
	"log": "std::log", "exp": "std::exp",
}

// Compiler abstractly re-interprets a meaning.Operation tree,
// appending one C++ statement per sub-expression to an accumulating
// buffer rather than producing a value.Value (§4.8). Grounded on
// pkg/codegen/wgsl_generator.go's write/writeln/indent emission
// style, retargeted from WGSL text to a C++ translation unit.
type Compiler struct {
	buf    strings.Builder
	indent int
	n      int
	cache  *opCache
}

func NewCompiler() *Compiler {
	return &Compiler{cache: newOpCache()}
}

func (c *Compiler) write(s string) {
	c.buf.WriteString(strings.Repeat("  ", c.indent))
	c.buf.WriteString(s)
}

func (c *Compiler) writeln(format string, args ...interface{}) {
	c.write(fmt.Sprintf(format, args...))
	c.buf.WriteByte('\n')
}

func (c *Compiler) increaseIndent() { c.indent++ }
func (c *Compiler) decreaseIndent() { c.indent-- }

func (c *Compiler) temp() string {
	c.n++
	return fmt.Sprintf("_v%d", c.n)
}

// emit declares a new named temporary initialised from expr, so a
// later reference re-reads a bare variable name instead of
// re-evaluating (and, for a call, re-running the side effects of
// inlining) expr a second time.
func (c *Compiler) emit(t *Type, expr string) Value {
	name := c.temp()
	c.writeln("const %s %s = %s;", t.CType(), name, expr)
	return Value{Expr: name, Type: t}
}

// Eval abstractly interprets op against f, the same dispatch shape as
// meaning.Eval but over Values instead of value.Value, and emitting
// C++ statements as a side effect instead of returning immediately
// computed results.
func (c *Compiler) Eval(op meaning.Operation, f *Frame) (Value, error) {
	switch n := op.(type) {
	case *meaning.Constant:
		return c.evalConstant(n)
	case *meaning.LocalDataRef:
		return f.Slots[n.Slot], nil
	case *meaning.NonlocalDataRef:
		if n.Slot >= len(f.Nonlocals) {
			return Value{}, errctx.Shape(errctx.Root(n.Location()), "captured value is not a SubCurv-compilable constant")
		}
		return f.Nonlocals[n.Slot], nil
	case *meaning.ArithOp:
		return c.evalArith(n, f)
	case *meaning.CompareOp:
		return c.evalCompare(n, f)
	case *meaning.UnaryArithOp:
		return c.evalUnary(n, f)
	case *meaning.NotExpr:
		return c.evalNot(n, f)
	case *meaning.AndExpr:
		return c.evalAnd(n, f)
	case *meaning.OrExpr:
		return c.evalOr(n, f)
	case *meaning.IfElseOp:
		return c.evalIf(n, f)
	case *meaning.CallExpr:
		return c.evalCall(n, f)
	default:
		return Value{}, errctx.Shape(errctx.Root(op.Location()), fmt.Sprintf("%T is not a SubCurv-compilable operation", op))
	}
}

func (c *Compiler) evalConstant(n *meaning.Constant) (Value, error) {
	v := n.Val
	if f, ok := v.AsNum(); ok {
		return Value{Expr: strconv.FormatFloat(f, 'g', -1, 64), Type: Num}, nil
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return Value{Expr: "true", Type: Bool}, nil
		}
		return Value{Expr: "false", Type: Bool}, nil
	}
	if r, ok := v.AsRef(); ok {
		if list, ok := r.(*value.List); ok {
			return c.constantVector(list, n)
		}
	}
	return Value{}, errctx.Shape(errctx.Root(n.Location()), "only numbers, booleans and numeric vectors compile to SubCurv")
}

// constantVector maps a 2..4 element list of numbers captured into a
// SubCurv function to a fixed-rank vector literal (§4.8's "a literal
// list of 2 to 4 numbers is a vector constant").
func (c *Compiler) constantVector(list *value.List, n *meaning.Constant) (Value, error) {
	rank := list.Len()
	if rank < 2 || rank > 4 {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), fmt.Sprintf("a vector must have 2 to 4 elements, got %d", rank))
	}
	parts := make([]string, rank)
	for i := 0; i < rank; i++ {
		elem, _ := list.At(i)
		f, ok := elem.AsNum()
		if !ok {
			return Value{}, errctx.Shape(errctx.Root(n.Location()), "a vector's elements must all be numbers")
		}
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	t := Vec(rank)
	return Value{Expr: fmt.Sprintf("%s{%s}", t.CType(), strings.Join(parts, ", ")), Type: t}, nil
}

var cArithOps = map[string]string{"+": "+", "-": "-", "*": "*", "/": "/"}

func (c *Compiler) evalArith(n *meaning.ArithOp, f *Frame) (Value, error) {
	a, err := c.Eval(n.Left, f)
	if err != nil {
		return Value{}, err
	}
	b, err := c.Eval(n.Right, f)
	if err != nil {
		return Value{}, err
	}
	t, err := Unify(a.Type, b.Type)
	if err != nil {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), err.Error())
	}
	if n.Op == "^" {
		return c.emit(t, fmt.Sprintf("std::pow(%s, %s)", a.Expr, b.Expr)), nil
	}
	if n.Op == "mod" {
		if t.IsNum() {
			return c.emit(t, fmt.Sprintf("std::fmod(%s, %s)", a.Expr, b.Expr)), nil
		}
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "mod is only defined on scalars in SubCurv")
	}
	sym, ok := cArithOps[n.Op]
	if !ok {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), fmt.Sprintf("unsupported arithmetic operator %q", n.Op))
	}
	return c.emit(t, fmt.Sprintf("%s %s %s", a.Expr, sym, b.Expr)), nil
}

var cCompareOps = map[string]string{"==": "==", "!=": "!=", "<": "<", "<=": "<=", ">": ">", ">=": ">="}

func (c *Compiler) evalCompare(n *meaning.CompareOp, f *Frame) (Value, error) {
	a, err := c.Eval(n.Left, f)
	if err != nil {
		return Value{}, err
	}
	b, err := c.Eval(n.Right, f)
	if err != nil {
		return Value{}, err
	}
	if _, err := Unify(a.Type, b.Type); err != nil {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), err.Error())
	}
	sym, ok := cCompareOps[n.Op]
	if !ok {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), fmt.Sprintf("unsupported comparison operator %q", n.Op))
	}
	return c.emit(Bool, fmt.Sprintf("%s %s %s", a.Expr, sym, b.Expr)), nil
}

func (c *Compiler) evalUnary(n *meaning.UnaryArithOp, f *Frame) (Value, error) {
	a, err := c.Eval(n.Arg, f)
	if err != nil {
		return Value{}, err
	}
	if n.Op == "+" {
		return a, nil
	}
	return c.emit(a.Type, fmt.Sprintf("-%s", a.Expr)), nil
}

func (c *Compiler) evalNot(n *meaning.NotExpr, f *Frame) (Value, error) {
	a, err := c.Eval(n.Arg, f)
	if err != nil {
		return Value{}, err
	}
	if !a.Type.IsBool() {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "! requires a boolean operand")
	}
	return c.emit(Bool, fmt.Sprintf("!%s", a.Expr)), nil
}

// evalAnd/evalOr compile the short-circuit operators to C++'s own
// short-circuiting &&/||, rather than the branching ladder If_Else_Op
// needs, since a SubCurv condition (unlike a runtime Value) never has
// side effects to guard against re-evaluating (§4.8).
func (c *Compiler) evalAnd(n *meaning.AndExpr, f *Frame) (Value, error) {
	a, err := c.Eval(n.Left, f)
	if err != nil {
		return Value{}, err
	}
	b, err := c.Eval(n.Right, f)
	if err != nil {
		return Value{}, err
	}
	if !a.Type.IsBool() || !b.Type.IsBool() {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "&& requires boolean operands")
	}
	return c.emit(Bool, fmt.Sprintf("%s && %s", a.Expr, b.Expr)), nil
}

func (c *Compiler) evalOr(n *meaning.OrExpr, f *Frame) (Value, error) {
	a, err := c.Eval(n.Left, f)
	if err != nil {
		return Value{}, err
	}
	b, err := c.Eval(n.Right, f)
	if err != nil {
		return Value{}, err
	}
	if !a.Type.IsBool() || !b.Type.IsBool() {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "|| requires boolean operands")
	}
	return c.emit(Bool, fmt.Sprintf("%s || %s", a.Expr, b.Expr)), nil
}

// evalIf compiles to a real C++ if/else writing into a result
// variable declared before the branch, since (unlike the dynamic
// trampoline) both arms must be emitted as code even though only one
// runs (§4.8 gives SubCurv "eager" branches, not lazy ones).
func (c *Compiler) evalIf(n *meaning.IfElseOp, f *Frame) (Value, error) {
	cond, err := c.Eval(n.Cond, f)
	if err != nil {
		return Value{}, err
	}
	if !cond.Type.IsBool() {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "if condition must be a boolean")
	}
	if n.Else == nil {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "if without else has no value in SubCurv")
	}
	// Each branch is compiled into its own buffer first, so the result
	// variable's declared type (the branches' Unify'd type) is known
	// before any "T result;" line is emitted into the real buffer.
	thenText, thenV, err := c.captureBlock(func() (Value, error) { return c.Eval(n.Then, f) })
	if err != nil {
		return Value{}, err
	}
	elseText, elseV, err := c.captureBlock(func() (Value, error) { return c.Eval(n.Else, f) })
	if err != nil {
		return Value{}, err
	}
	t, err := Unify(thenV.Type, elseV.Type)
	if err != nil {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), err.Error())
	}

	result := c.temp()
	c.writeln("%s %s;", t.CType(), result)
	c.writeln("if (%s) {", cond.Expr)
	c.buf.WriteString(thenText)
	c.writeIndented("%s = %s;\n", result, thenV.Expr)
	c.writeln("} else {")
	c.buf.WriteString(elseText)
	c.writeIndented("%s = %s;\n", result, elseV.Expr)
	c.writeln("}")
	return Value{Expr: result, Type: t}, nil
}

// captureBlock runs fn with the Compiler's output buffer swapped for
// a fresh one, one indent level deeper, and returns what fn wrote as
// text instead of appending it directly — used to compile both arms
// of an if/else before committing to the enclosing braces, so their
// result type is known up front.
func (c *Compiler) captureBlock(fn func() (Value, error)) (string, Value, error) {
	savedBuf := c.buf
	c.buf = strings.Builder{}
	c.indent++
	v, err := fn()
	text := c.buf.String()
	c.indent--
	c.buf = savedBuf
	return text, v, err
}

// writeIndented writes one already-formatted line at the current
// indent + 1 (the body of an if/else block written via captureBlock's
// sibling call sites above, after the block's own indent has been
// restored).
func (c *Compiler) writeIndented(format string, args ...interface{}) {
	c.buf.WriteString(strings.Repeat("  ", c.indent+1))
	c.buf.WriteString(fmt.Sprintf(format, args...))
}

// evalCall inlines a direct call to a Closure whose parameter is a
// bare SlotPattern — the only pattern shape SubCurv supports binding
// (§4.8) — by pushing a child Frame and evaluating the callee's body
// in place, memoized through the Compiler's opCache so two calls of
// the same lambda on the same argument expression share one set of
// emitted statements. A call through a NativeFunc naming itself a
// known math intrinsic compiles to a direct library call instead.
func (c *Compiler) evalCall(n *meaning.CallExpr, f *Frame) (Value, error) {
	arg, err := c.Eval(n.Arg, f)
	if err != nil {
		return Value{}, err
	}
	fnOp, ok := n.Fn.(*meaning.LambdaExpr)
	if ok {
		key := cacheKey{lam: fnOp.Lam, arg: arg.Expr}
		if cached, ok := c.cache.entries[key]; ok {
			return cached, nil
		}
		v, err := c.inlineCall(fnOp.Lam, arg, f, n)
		if err != nil {
			return Value{}, err
		}
		c.cache.entries[key] = v
		return v, nil
	}
	if sym, ok := n.Fn.(*meaning.SymbolicRef); ok {
		fnVal, err := sym.Lookup()
		if err != nil {
			return Value{}, errctx.Shape(errctx.Root(n.Location()), err.Error())
		}
		if r, ok := fnVal.AsRef(); ok {
			if ic, ok := r.(intrinsic); ok {
				if cname, ok := cMathIntrinsics[ic.IntrinsicName()]; ok {
					return c.emit(arg.Type, fmt.Sprintf("%s(%s)", cname, arg.Expr)), nil
				}
			}
			if closure, ok := r.(*meaning.Closure); ok {
				return c.inlineClosure(closure, arg, n)
			}
		}
	}
	return Value{}, errctx.Shape(errctx.Root(n.Location()), "SubCurv can only call a literal function or a known math intrinsic")
}

func (c *Compiler) inlineClosure(closure *meaning.Closure, arg Value, n *meaning.CallExpr) (Value, error) {
	key := cacheKey{lam: closure.Lam, arg: arg.Expr}
	if cached, ok := c.cache.entries[key]; ok {
		return cached, nil
	}
	nonlocals, err := c.captureConstants(closure.Lam, closure.Nonlocals, n)
	if err != nil {
		return Value{}, err
	}
	v, err := c.inlineCall(closure.Lam, arg, &Frame{Nonlocals: nonlocals}, n)
	if err != nil {
		return Value{}, err
	}
	c.cache.entries[key] = v
	return v, nil
}

func (c *Compiler) inlineCall(lam *meaning.Lambda, arg Value, outer *Frame, n *meaning.CallExpr) (Value, error) {
	slot, ok := lam.Pattern.(meaning.SlotPattern)
	if !ok {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), "SubCurv can only inline a function whose parameter is a bare name")
	}
	child := &Frame{Slots: make([]Value, lam.NSlots), Nonlocals: outer.Nonlocals}
	child.Slots[slot.Slot] = arg
	return c.Eval(lam.Body, child)
}

// captureConstants resolves a closure's dynamically-captured Nonlocals
// module into compile-time Values, the bridge between the dynamic
// evaluator's Module and the abstract compiler's Frame: every
// captured value must reduce to a number, bool or numeric vector, or
// compilation fails with a Shape Compiler error naming the offending
// capture (§4.8).
func (c *Compiler) captureConstants(lam *meaning.Lambda, nonlocals *value.Module, n *meaning.CallExpr) ([]Value, error) {
	out := make([]Value, len(lam.Captures))
	for i := range lam.Captures {
		v, err := nonlocals.GetSlot(i)
		if err != nil {
			return nil, errctx.Shape(errctx.Root(n.Location()), err.Error())
		}
		cv, err := c.constantValue(v, n)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

func (c *Compiler) constantValue(v value.Value, n *meaning.CallExpr) (Value, error) {
	if f, ok := v.AsNum(); ok {
		return Value{Expr: strconv.FormatFloat(f, 'g', -1, 64), Type: Num}, nil
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return Value{Expr: "true", Type: Bool}, nil
		}
		return Value{Expr: "false", Type: Bool}, nil
	}
	if r, ok := v.AsRef(); ok {
		if list, ok := r.(*value.List); ok {
			return c.constantVectorFromList(list, n)
		}
	}
	return Value{}, errctx.Shape(errctx.Root(n.Location()), "a SubCurv function can only capture numbers, booleans and numeric vectors")
}

func (c *Compiler) constantVectorFromList(list *value.List, n *meaning.CallExpr) (Value, error) {
	rank := list.Len()
	if rank < 2 || rank > 4 {
		return Value{}, errctx.Shape(errctx.Root(n.Location()), fmt.Sprintf("a vector must have 2 to 4 elements, got %d", rank))
	}
	parts := make([]string, rank)
	for i := 0; i < rank; i++ {
		elem, _ := list.At(i)
		f, ok := elem.AsNum()
		if !ok {
			return Value{}, errctx.Shape(errctx.Root(n.Location()), "a vector's elements must all be numbers")
		}
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	t := Vec(rank)
	return Value{Expr: fmt.Sprintf("%s{%s}", t.CType(), strings.Join(parts, ", ")), Type: t}, nil
}

// CompileFunction renders a complete C++ translation unit defining
// `double entry(ArgType arg)` (or a vector/matrix-typed signature, per
// argType), ready to hand to Build (§4.8's SubCurv entry
// point, exercised directly by internal/subcurv's own tests and,
// through Program, by the cgo unit-test harness).
func CompileFunction(lam *meaning.Lambda, argType *Type) (string, *Type, error) {
	slot, ok := lam.Pattern.(meaning.SlotPattern)
	if !ok {
		return "", nil, fmt.Errorf("Shape Compiler: a SubCurv entry point's parameter must be a bare name")
	}
	c := NewCompiler()
	f := &Frame{Slots: make([]Value, lam.NSlots)}
	f.Slots[slot.Slot] = Value{Expr: "arg", Type: argType}
	result, err := c.Eval(lam.Body, f)
	if err != nil {
		return "", nil, err
	}
	c.writeln("return %s;", result.Expr)

	var out strings.Builder
	out.WriteString("#include <cmath>\n#include <array>\n#include \"subcurv_runtime.h\"\n\n")
	out.WriteString(fmt.Sprintf("extern \"C\" %s entry(%s arg) {\n", result.Type.CType(), argType.CType()))
	out.WriteString(c.buf.String())
	out.WriteString("}\n")
	return out.String(), result.Type, nil
}
