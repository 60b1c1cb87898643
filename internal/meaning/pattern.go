package meaning

import (
	"fmt"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/value"
)

// Pattern is the analysed form of a binding pattern (§4.4): a bare
// identifier, a list/record destructuring, a predicate guard, or a
// literal value to match against. Bind either fills in f.Slots and
// succeeds, or returns an error (a failed match inside a piecewise
// function case is reported as an ordinary error and the caller tries
// the next case — see PiecewiseFunction.Call).
type Pattern interface {
	Bind(arg value.Value, f *Frame, cx errctx.Context) error
}

// SlotPattern binds arg unconditionally to slot index Slot ("x").
type SlotPattern struct {
	Slot int
}

func (p SlotPattern) Bind(arg value.Value, f *Frame, cx errctx.Context) error {
	f.Slots[p.Slot] = arg
	return nil
}

// AnyPattern discards arg ("_").
type AnyPattern struct{}

func (AnyPattern) Bind(value.Value, *Frame, errctx.Context) error { return nil }

// ConstantPattern requires arg to equal Want, binding nothing (a
// numeral/string/symbol literal used in pattern position, §4.4).
type ConstantPattern struct {
	Want value.Value
}

func (p ConstantPattern) Bind(arg value.Value, f *Frame, cx errctx.Context) error {
	if value.Equal(arg, p.Want) != value.TTrue {
		return errctx.Fail(cx, errctx.CatDomain, "argument does not match the required constant pattern")
	}
	return nil
}

// ListPattern destructures arg as an exact-length list, binding each
// element against the corresponding sub-pattern (§4.4's list pattern).
type ListPattern struct {
	Items []Pattern
}

func (p ListPattern) Bind(arg value.Value, f *Frame, cx errctx.Context) error {
	r, ok := arg.AsRef()
	if !ok {
		return errctx.Fail(cx, errctx.CatDomain, "expected a list")
	}
	list, ok := r.(*value.List)
	if !ok {
		return errctx.Fail(cx, errctx.CatDomain, "expected a list")
	}
	if list.Len() != len(p.Items) {
		return errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("expected a list of size %d, got %d", len(p.Items), list.Len()))
	}
	for i, sub := range p.Items {
		elem, _ := list.At(i)
		if err := sub.Bind(elem, f, errctx.AtIndex{Parent: cx, Index: i}); err != nil {
			return err
		}
	}
	return nil
}

// RecordPattern destructures arg as a record, binding each named field
// against its sub-pattern; fields not listed are ignored (§4.4).
type RecordPattern struct {
	Fields []RecordPatternField
}

type RecordPatternField struct {
	Name string
	Sub  Pattern
}

func (p RecordPattern) Bind(arg value.Value, f *Frame, cx errctx.Context) error {
	r, ok := arg.AsRef()
	if !ok {
		return errctx.Fail(cx, errctx.CatDomain, "expected a record")
	}
	rec, ok := r.(value.Record)
	if !ok {
		return errctx.Fail(cx, errctx.CatDomain, "expected a record")
	}
	for _, field := range p.Fields {
		sym := value.Symbol(field.Name)
		if !rec.HasField(sym) {
			return errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("record has no field .%s", field.Name))
		}
		v, err := rec.Get(sym)
		if err != nil {
			return errctx.Fail(cx, errctx.CatDomain, err.Error())
		}
		if err := field.Sub.Bind(v, f, errctx.AtField{Parent: cx, Name: field.Name}); err != nil {
			return err
		}
	}
	return nil
}

// PredicatePattern requires Pred(arg) to evaluate truthy before
// binding via Sub (`pattern :: predicate` guards, §4.4).
type PredicatePattern struct {
	Sub  Pattern
	Pred Operation
	// ArgSlot is a scratch slot the predicate's call argument is
	// written to before Pred runs, so Pred can reference it as a
	// Local_Data_Ref.
	ArgSlot int
}

func (p PredicatePattern) Bind(arg value.Value, f *Frame, cx errctx.Context) error {
	f.Slots[p.ArgSlot] = arg
	result, err := Eval(p.Pred, f)
	if err != nil {
		return err
	}
	b, ok := result.AsBool()
	if !ok || !b {
		return errctx.Fail(cx, errctx.CatDomain, "argument fails its predicate pattern")
	}
	return p.Sub.Bind(arg, f, cx)
}
