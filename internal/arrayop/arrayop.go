// Package arrayop implements Curv's array-broadcasting arithmetic
// primitives (§4.6): a scalar kernel is lifted to operate over nested
// Lists, reactive (SubCurv) values, or raise a domain error, uniformly
// for every numeric/boolean primitive in the language.
//
// The scalar/vector/list dispatch table mirrors the teacher's
// pkg/codegen/gpu_types.go classification of scalar vs. vector vs.
// matrix operands before emitting a WGSL op; here the "emission" is a
// Go closure invocation instead of a textual opcode.
package arrayop

import (
	"fmt"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/value"
)

// NumKernel is a scalar numeric kernel: two float64s in, one out.
type NumKernel func(a, b float64) float64

// CompareKernel is a scalar comparison kernel: two float64s in, one bool out.
type CompareKernel func(a, b float64) bool

// UnaryKernel is a scalar unary numeric kernel.
type UnaryKernel func(a float64) float64

// ReactiveBuilder builds a reactive expression node for an operation
// applied to one or two reactive/scalar operands; the caller supplies
// the concrete builder, or nil where no reactive values can occur.
// Left as a hook (func value) rather than an interface so arrayop never
// needs to import the subcurv or meaning packages.
type ReactiveBuilder func(opName string, args ...value.Value) (value.Value, error)

// Binary applies kernel to a and b, broadcasting over Lists per §4.6:
//  1. both scalar numbers -> direct kernel application
//  2. either is a List -> elementwise/broadcast recursion
//  3. either is reactive -> build via react (may be nil, in which
//     case this falls through to a domain error)
//  4. otherwise -> domain error
func Binary(opName string, kernel NumKernel, a, b value.Value, cx errctx.Context, react ReactiveBuilder) (value.Value, error) {
	if af, ok := a.AsNum(); ok {
		if bf, ok := b.AsNum(); ok {
			return value.Num(kernel(af, bf)), nil
		}
	}
	if list, ok := listOf(a); ok {
		return broadcastLeft(opName, kernel, list, b, cx, react)
	}
	if list, ok := listOf(b); ok {
		return broadcastRight(opName, kernel, a, list, cx, react)
	}
	if isReactiveScalar(a) || isReactiveScalar(b) {
		if react != nil {
			return react(opName, a, b)
		}
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("domain error: %s not defined for these operands", opName))
}

// Compare applies a comparison kernel with the same broadcasting rule,
// returning Bool values (or a List of them) instead of Num.
func Compare(opName string, kernel CompareKernel, a, b value.Value, cx errctx.Context) (value.Value, error) {
	if af, ok := a.AsNum(); ok {
		if bf, ok := b.AsNum(); ok {
			return value.Bool(kernel(af, bf)), nil
		}
	}
	if la, ok := listOf(a); ok {
		if lb, ok := listOf(b); ok {
			if la.Len() != lb.Len() {
				return value.Missing, errctx.Fail(cx, errctx.CatDomain, "mismatched list sizes")
			}
			elems := make([]value.Value, la.Len())
			for i := 0; i < la.Len(); i++ {
				v, err := Compare(opName, kernel, at(la, i), at(lb, i), cx)
				if err != nil {
					return value.Missing, err
				}
				elems[i] = v
			}
			return value.FromRef(value.NewList(elems)), nil
		}
	}
	if list, ok := listOf(a); ok {
		elems := make([]value.Value, list.Len())
		for i := 0; i < list.Len(); i++ {
			v, err := Compare(opName, kernel, at(list, i), b, cx)
			if err != nil {
				return value.Missing, err
			}
			elems[i] = v
		}
		return value.FromRef(value.NewList(elems)), nil
	}
	if list, ok := listOf(b); ok {
		elems := make([]value.Value, list.Len())
		for i := 0; i < list.Len(); i++ {
			v, err := Compare(opName, kernel, a, at(list, i), cx)
			if err != nil {
				return value.Missing, err
			}
			elems[i] = v
		}
		return value.FromRef(value.NewList(elems)), nil
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("domain error: %s not defined for these operands", opName))
}

// Unary applies a scalar kernel to a, broadcasting over a List.
func Unary(opName string, kernel UnaryKernel, a value.Value, cx errctx.Context, react ReactiveBuilder) (value.Value, error) {
	if af, ok := a.AsNum(); ok {
		return value.Num(kernel(af)), nil
	}
	if list, ok := listOf(a); ok {
		elems := make([]value.Value, list.Len())
		for i := 0; i < list.Len(); i++ {
			v, err := Unary(opName, kernel, at(list, i), cx, react)
			if err != nil {
				return value.Missing, err
			}
			elems[i] = v
		}
		return value.FromRef(value.NewList(elems)), nil
	}
	if isReactiveScalar(a) && react != nil {
		return react(opName, a)
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("domain error: %s not defined for this operand", opName))
}

// Reduce applies kernel left-to-right over list starting from zero
// (§4.6's "Reduction (zero, list)").
func Reduce(kernel NumKernel, zero float64, list *value.List) (float64, error) {
	acc := zero
	for i := 0; i < list.Len(); i++ {
		f, ok := at(list, i).AsNum()
		if !ok {
			return 0, fmt.Errorf("reduce: non-numeric element at index %d", i)
		}
		acc = kernel(acc, f)
	}
	return acc, nil
}

func broadcastLeft(opName string, kernel NumKernel, a *value.List, b value.Value, cx errctx.Context, react ReactiveBuilder) (value.Value, error) {
	if bl, ok := listOf(b); ok {
		if a.Len() != bl.Len() {
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, "mismatched list sizes")
		}
		elems := make([]value.Value, a.Len())
		for i := 0; i < a.Len(); i++ {
			v, err := Binary(opName, kernel, at(a, i), at(bl, i), cx, react)
			if err != nil {
				return value.Missing, err
			}
			elems[i] = v
		}
		return value.FromRef(value.NewList(elems)), nil
	}
	elems := make([]value.Value, a.Len())
	for i := 0; i < a.Len(); i++ {
		v, err := Binary(opName, kernel, at(a, i), b, cx, react)
		if err != nil {
			return value.Missing, err
		}
		elems[i] = v
	}
	return value.FromRef(value.NewList(elems)), nil
}

func broadcastRight(opName string, kernel NumKernel, a value.Value, b *value.List, cx errctx.Context, react ReactiveBuilder) (value.Value, error) {
	elems := make([]value.Value, b.Len())
	for i := 0; i < b.Len(); i++ {
		v, err := Binary(opName, kernel, a, at(b, i), cx, react)
		if err != nil {
			return value.Missing, err
		}
		elems[i] = v
	}
	return value.FromRef(value.NewList(elems)), nil
}

func listOf(v value.Value) (*value.List, bool) {
	r, ok := v.AsRef()
	if !ok {
		return nil, false
	}
	l, ok := r.(*value.List)
	return l, ok
}

// at fetches element i of l, valid by construction everywhere it is
// called here (i always comes from a `< l.Len()` loop).
func at(l *value.List, i int) value.Value {
	v, _ := l.At(i)
	return v
}

func isReactiveScalar(v value.Value) bool {
	_, ok := value.IsReactive(v)
	return ok
}
