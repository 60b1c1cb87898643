package meaning

import "github.com/curv-lang/curv/internal/value"

// ModuleDef is one `name = value` binding inside a mutually-recursive
// scope: the top-level program, or any `let`/module block, where a
// function may reference a sibling defined later in the same block
// (§4.3 "letrec", §4.5). A def whose Value is a bare function literal
// is installed as a lazy LambdaThunk so forward/mutual references
// between functions resolve through Module.GetSlot's on-demand
// forcing; every other def is evaluated eagerly in declaration order.
type ModuleDef struct {
	Name  value.Symbol
	Value Operation
}

// BuildModule assembles defs (plus, after them, one module slot per
// entry of captures — outer free variables this scope's bodies
// reference, copied in from capturedFrom exactly as a Lambda's own
// Captures are, §4.3/§4.5) into one *value.Module. Passing a nil
// capturedFrom is only valid when captures is empty (the top-level
// program has no enclosing Frame to capture from).
func BuildModule(defs []ModuleDef, captures []CaptureSource, capturedFrom *Frame) (*value.Module, error) {
	n := len(defs)
	dict := make(map[value.Symbol]int, n)
	order := make([]value.Symbol, n)
	for i, d := range defs {
		dict[d.Name] = i
		order[i] = d.Name
	}
	m := value.NewModule(dict, order, n+len(captures))
	scratch := NewFrame(nil, m, 0)
	for i, d := range defs {
		switch fn := d.Value.(type) {
		case *LambdaExpr:
			m.SetLazySlot(i, &Closure{Lam: fn.Lam, Name: fn.Lam.Name})
		case *PiecewiseExpr:
			m.SetLazySlot(i, &PiecewiseFunction{Cases: fn.Cases, Name: fn.Name})
		default:
			v, err := Eval(d.Value, scratch)
			if err != nil {
				return nil, err
			}
			m.SetSlot(i, v)
		}
	}
	for j, c := range captures {
		var v value.Value
		if c.FromNonlocals {
			fv, err := capturedFrom.Nonlocals.GetSlot(c.Slot)
			if err != nil {
				return nil, err
			}
			v = fv
		} else {
			v = capturedFrom.Slots[c.Slot]
		}
		m.SetSlot(n+j, v)
	}
	return m, nil
}

// RecursiveLetOp is `let defs in body` (and, with a Missing Constant
// as Body when there is no trailing expression, the top-level program
// itself): Defs are bound into one Module so they may reference each
// other regardless of order, and Body runs in a fresh Frame whose
// Nonlocals is that Module (§4.3).
type RecursiveLetOp struct {
	base
	Defs     []ModuleDef
	Captures []CaptureSource
	Body     Operation
}

func (n *RecursiveLetOp) TailEval(f *Frame) {
	m, err := BuildModule(n.Defs, n.Captures, f)
	if err != nil {
		fail(f, err)
		return
	}
	bodyFrame := NewFrame(nil, m, 0)
	v, err := Eval(n.Body, bodyFrame)
	if err != nil {
		fail(f, err)
		return
	}
	finish(f, v)
}
