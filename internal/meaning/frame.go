// Package meaning implements Curv's Meaning tree: the analyser's
// output, an Operation per syntactic form, plus the Frame/Closure
// machinery that evaluates it.
//
// Operation and Frame are deliberately kept in one package rather than
// split (an earlier plan gave Frame its own internal/frame package):
// Operation.TailEval needs *Frame, and Frame's closures need Operation
// bodies, so splitting them would make the two packages import each
// other. See DESIGN.md's Open Question entry for the full argument.
// This mirrors the teacher's own pkg/codegen package, which keeps its
// IR node types and the WGSLGenerator that walks them together rather
// than in separate packages.
package meaning

import (
	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/source"
	"github.com/curv-lang/curv/internal/value"
)

// Frame is one activation record of the tree-walking evaluator (§5):
// a slot array for this scope's local bindings, a pointer to the
// enclosing (lexically nonlocal) Frame's Module of captured slots, and
// the tail-call trampoline's current operation/result cells.
//
// The trampoline shape (NextOp/Result instead of recursive calls on
// every tail position) keeps tail positions within one Frame from
// growing the Go call stack. A function call is not covered:
// Closure.Call runs the body through a nested Eval on the Go stack.
type Frame struct {
	Parent    *Frame
	Nonlocals *value.Module
	Slots     []value.Value

	// Func names the enclosing closure, if any, for error stack frames
	// (§6.3 Func_Loc).
	Func string

	// NextOp/Result drive the trampoline: TailEval either sets NextOp
	// to continue evaluating in tail position, or sets Result and
	// leaves NextOp nil to finish.
	NextOp Operation
	Result value.Value
	Err    error
}

// NewFrame allocates a Frame with nslots local slots.
func NewFrame(parent *Frame, nonlocals *value.Module, nslots int) *Frame {
	if nonlocals == nil {
		nonlocals = value.NewModule(nil, nil, 0)
	}
	return &Frame{Parent: parent, Nonlocals: nonlocals, Slots: make([]value.Value, nslots)}
}

// Operation is one node of the analysed Meaning tree. TailEval
// advances the trampoline by one step: either it fully resolves and
// sets f.Result, or (for a call/if/let/etc. in tail position) it sets
// f.NextOp to the next operation to run in the same Frame, avoiding a
// recursive Go call.
type Operation interface {
	Location() source.SrcLoc
	TailEval(f *Frame)
}

// Eval drives the trampoline to completion and returns the final
// value, translating f.Err (if the last TailEval step failed) into a
// Go error return.
func Eval(op Operation, f *Frame) (value.Value, error) {
	for op != nil {
		f.NextOp = nil
		f.Result = value.Missing
		f.Err = nil
		op.TailEval(f)
		if f.Err != nil {
			return value.Missing, f.Err
		}
		op = f.NextOp
	}
	return f.Result, nil
}

// Callable is implemented by every value that can appear in function
// position: Closure, PiecewiseFunction, CompositeFunction, and
// subcurv-compiled shapes via value.LambdaThunk elsewhere.
type Callable interface {
	value.Ref
	// Call invokes the function with one argument, in a *new* Frame
	// chained to the closure's captured Nonlocals; callLoc is the call
	// site, pushed onto the exception stack on error (§6.3).
	Call(arg value.Value, callLoc source.SrcLoc) (value.Value, error)
}

// Closure is an ordinary `pattern -> body` lambda value: a Lambda
// operation plus the Module of nonlocal slots captured at the
// definition site (§5's "Lambda_Expr evaluates to a Closure object").
type Closure struct {
	Lam       *Lambda
	Nonlocals *value.Module
	Name      string // for Func_Loc / diagnostics; "" if anonymous
}

func (*Closure) RefKind() value.RefKind { return value.RLambda }

func (c *Closure) EqualValue(other value.Ref) value.TernaryBool {
	o, ok := other.(*Closure)
	if !ok || o != c {
		return value.TFalse
	}
	return value.TTrue
}

func (c *Closure) Call(arg value.Value, callLoc source.SrcLoc) (value.Value, error) {
	f := NewFrame(nil, c.Nonlocals, c.Lam.NSlots)
	f.Func = c.Name
	cx := errctx.Root(callLoc)
	if err := c.Lam.Pattern.Bind(arg, f, cx); err != nil {
		return value.Missing, err
	}
	v, err := Eval(c.Lam.Body, f)
	if err != nil {
		if exc, ok := err.(*errctx.Exception); ok {
			exc.PushFrame(c.Name, callLoc)
		}
		return value.Missing, err
	}
	return v, nil
}

// ForceWithNonlocals implements value.LambdaThunk, letting a Closure
// stand in for the lazy-recursive-binding thunk a Module slot holds
// before its defining Frame's Nonlocals are fully built (§4.3's
// "letrec" mutual-recursion requirement).
func (c *Closure) ForceWithNonlocals(nonlocals *value.Module) (value.Value, error) {
	bound := &Closure{Lam: c.Lam, Nonlocals: nonlocals, Name: c.Name}
	return value.FromRef(bound), nil
}

// Lambda is the shared operation-tree body of a `pattern -> body`
// expression, instantiated into a Closure once its defining Frame's
// Nonlocals are known. NSlots is the number of local slots the body
// and its nested lets/fors need, computed once by the analyser.
// Captures lists, in capture-slot order, where each free variable the
// body references comes from in the *defining* Frame — the analyser
// resolves this once so closure creation is a flat copy, never a
// re-walk of the body (§4.3/§4.5).
type Lambda struct {
	Loc      source.SrcLoc
	Pattern  Pattern
	Body     Operation
	NSlots   int
	Name     string
	Captures []CaptureSource
}

// CaptureSource names one slot of the defining Frame to copy into a
// new Closure's Nonlocals Module at creation time: either a local slot
// of that Frame, or one already captured in that Frame's own
// Nonlocals (pass-through capture, for a lambda nested two levels deep
// referencing a grandparent's variable).
type CaptureSource struct {
	FromNonlocals bool
	Slot          int
}

// captureModule builds the Nonlocals Module a new Closure/
// PiecewiseFunction case over lam captures from the currently
// executing Frame f.
func captureModule(lam *Lambda, f *Frame) (*value.Module, error) {
	m := value.NewModule(nil, nil, len(lam.Captures))
	for i, c := range lam.Captures {
		var v value.Value
		if c.FromNonlocals {
			var err error
			v, err = f.Nonlocals.GetSlot(c.Slot)
			if err != nil {
				return nil, err
			}
		} else {
			v = f.Slots[c.Slot]
		}
		m.SetSlot(i, v)
	}
	return m, nil
}

// PiecewiseFunction is Curv's function-literal union: several Lambdas
// tried in order, the first whose
// Pattern.Bind succeeds wins (§4.4 "function literals compose with
// `;` into a piecewise union, tried in written order").
type PiecewiseFunction struct {
	Cases     []*Lambda
	Nonlocals *value.Module
	Name      string
}

func (*PiecewiseFunction) RefKind() value.RefKind { return value.RLambda }

func (p *PiecewiseFunction) EqualValue(other value.Ref) value.TernaryBool {
	o, ok := other.(*PiecewiseFunction)
	if !ok || o != p {
		return value.TFalse
	}
	return value.TTrue
}

func (p *PiecewiseFunction) Call(arg value.Value, callLoc source.SrcLoc) (value.Value, error) {
	cx := errctx.Root(callLoc)
	for _, lam := range p.Cases {
		f := NewFrame(nil, p.Nonlocals, lam.NSlots)
		f.Func = p.Name
		if err := lam.Pattern.Bind(arg, f, cx); err == nil {
			v, evalErr := Eval(lam.Body, f)
			if evalErr != nil {
				if exc, ok := evalErr.(*errctx.Exception); ok {
					exc.PushFrame(p.Name, callLoc)
				}
				return value.Missing, evalErr
			}
			return v, nil
		}
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, "no piecewise function case matches this argument")
}

func (p *PiecewiseFunction) ForceWithNonlocals(nonlocals *value.Module) (value.Value, error) {
	bound := &PiecewiseFunction{Cases: p.Cases, Nonlocals: nonlocals, Name: p.Name}
	return value.FromRef(bound), nil
}

// CompositeFunction is `f >> g`: function composition, applying f
// then g to its result (§4.4).
type CompositeFunction struct {
	First, Second Callable
}

func (*CompositeFunction) RefKind() value.RefKind { return value.RLambda }

func (c *CompositeFunction) EqualValue(other value.Ref) value.TernaryBool {
	o, ok := other.(*CompositeFunction)
	if !ok || o != c {
		return value.TFalse
	}
	return value.TTrue
}

func (c *CompositeFunction) Call(arg value.Value, callLoc source.SrcLoc) (value.Value, error) {
	mid, err := c.First.Call(arg, callLoc)
	if err != nil {
		return value.Missing, err
	}
	return c.Second.Call(mid, callLoc)
}
