package system

import (
	"math"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/source"
	"github.com/curv-lang/curv/internal/value"
)

// NativeFunc wraps a Go function as a Curv-callable value, for the std
// namespace's built-in functions (§6.1's "pi", "len", "sqrt" and
// friends). It implements meaning.Callable the same way a Closure
// does, so SymbolicRef's resolved value is indistinguishable from a
// user-defined function at call sites.
type NativeFunc struct {
	name string
	fn   func(value.Value, errctx.Context) (value.Value, error)
}

func (*NativeFunc) RefKind() value.RefKind { return value.RFunction }

func (n *NativeFunc) EqualValue(other value.Ref) value.TernaryBool {
	o, ok := other.(*NativeFunc)
	if !ok || o != n {
		return value.TFalse
	}
	return value.TTrue
}

func (n *NativeFunc) Call(arg value.Value, callLoc source.SrcLoc) (value.Value, error) {
	v, err := n.fn(arg, errctx.Root(callLoc))
	if err != nil {
		if exc, ok := err.(*errctx.Exception); ok {
			exc.PushFrame(n.name, callLoc)
		}
		return value.Missing, err
	}
	return v, nil
}

// IntrinsicName identifies this builtin to internal/subcurv as a
// direct C++ math intrinsic (sqrt, sin, ...) rather than a Curv body
// to inline, without subcurv needing to import this package (§4.8).
func (n *NativeFunc) IntrinsicName() string { return n.name }

var _ meaning.Callable = (*NativeFunc)(nil)

func unaryMath(name string, f func(float64) float64) *NativeFunc {
	return &NativeFunc{name: name, fn: func(arg value.Value, cx errctx.Context) (value.Value, error) {
		n, ok := arg.AsNum()
		if !ok {
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, name+" requires a number")
		}
		return value.Num(f(n)), nil
	}}
}

// buildStd assembles the std namespace (§6.1): mathematical constants
// and functions available to every program without an explicit import,
// resolved through analyser.SystemLookup once no lexical scope binds
// the name.
func buildStd() (map[string]value.Value, []string) {
	m := map[string]value.Value{
		"pi":  value.Num(math.Pi),
		"tau": value.Num(2 * math.Pi),
		"inf": value.Num(math.Inf(1)),
		"sqrt": value.FromRef(unaryMath("sqrt", math.Sqrt)),
		"sin":  value.FromRef(unaryMath("sin", math.Sin)),
		"cos":  value.FromRef(unaryMath("cos", math.Cos)),
		"tan":  value.FromRef(unaryMath("tan", math.Tan)),
		"abs":  value.FromRef(unaryMath("abs", math.Abs)),
		"floor": value.FromRef(unaryMath("floor", math.Floor)),
		"ceil":  value.FromRef(unaryMath("ceil", math.Ceil)),
		"log":  value.FromRef(unaryMath("log", math.Log)),
		"exp":  value.FromRef(unaryMath("exp", math.Exp)),
		"len": value.FromRef(&NativeFunc{name: "len", fn: func(arg value.Value, cx errctx.Context) (value.Value, error) {
			r, ok := arg.AsRef()
			if !ok {
				return value.Missing, errctx.Fail(cx, errctx.CatDomain, "len requires a list, string or record")
			}
			switch l := r.(type) {
			case *value.List:
				return value.Num(float64(l.Len())), nil
			case *value.String:
				return value.Num(float64(l.Len())), nil
			case value.Record:
				return value.Num(float64(len(l.Fields()))), nil
			}
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, "len requires a list, string or record")
		}}),
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return m, names
}
