package meaning

import (
	"testing"

	"github.com/curv-lang/curv/internal/value"
)

func num(t *testing.T, v value.Value) float64 {
	t.Helper()
	f, ok := v.AsNum()
	if !ok {
		t.Fatalf("expected a number, got %#v", v)
	}
	return f
}

func TestEvalConstant(t *testing.T) {
	op := &Constant{Val: value.Num(5)}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 5 {
		t.Errorf("got %v, want 5", v)
	}
}

func TestEvalArith(t *testing.T) {
	// 2 + 3 * 4
	op := &ArithOp{
		Op:   "+",
		Left: &Constant{Val: value.Num(2)},
		Right: &ArithOp{
			Op:    "*",
			Left:  &Constant{Val: value.Num(3)},
			Right: &Constant{Val: value.Num(4)},
		},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 14 {
		t.Errorf("got %v, want 14", v)
	}
}

func TestEvalIfElse(t *testing.T) {
	op := &IfElseOp{
		Cond: &Constant{Val: value.Bool(false)},
		Then: &Constant{Val: value.Num(1)},
		Else: &Constant{Val: value.Num(2)},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 2 {
		t.Errorf("got %v, want 2", v)
	}
}

func TestEvalRecursiveLetOp(t *testing.T) {
	// let x = 10 in x + 1
	op := &RecursiveLetOp{
		Defs: []ModuleDef{{Name: "x", Value: &Constant{Val: value.Num(10)}}},
		Body: &ArithOp{Op: "+", Left: &NonlocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(1)}},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 11 {
		t.Errorf("got %v, want 11", v)
	}
}

func TestEvalRecursiveLetMutualFunctions(t *testing.T) {
	// let is_even = n -> if (n == 0) true else is_odd (n - 1);
	//     is_odd  = n -> if (n == 0) false else is_even (n - 1);
	// in is_even 4
	isEven := &Lambda{
		Pattern: SlotPattern{Slot: 0},
		NSlots:  1,
		Name:    "is_even",
		Body: &IfElseOp{
			Cond: &CompareOp{Op: "==", Left: &LocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(0)}},
			Then: &Constant{Val: value.Bool(true)},
			Else: &CallExpr{
				Fn:  &NonlocalDataRef{Slot: 1},
				Arg: &ArithOp{Op: "-", Left: &LocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(1)}},
			},
		},
	}
	isOdd := &Lambda{
		Pattern: SlotPattern{Slot: 0},
		NSlots:  1,
		Name:    "is_odd",
		Body: &IfElseOp{
			Cond: &CompareOp{Op: "==", Left: &LocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(0)}},
			Then: &Constant{Val: value.Bool(false)},
			Else: &CallExpr{
				Fn:  &NonlocalDataRef{Slot: 0},
				Arg: &ArithOp{Op: "-", Left: &LocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(1)}},
			},
		},
	}
	op := &RecursiveLetOp{
		Defs: []ModuleDef{
			{Name: "is_even", Value: &LambdaExpr{Lam: isEven}},
			{Name: "is_odd", Value: &LambdaExpr{Lam: isOdd}},
		},
		Body: &CallExpr{Fn: &NonlocalDataRef{Slot: 0}, Arg: &Constant{Val: value.Num(4)}},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := v.AsBool(); !b {
		t.Errorf("expected is_even(4) = true")
	}
}

func TestEvalClosureCall(t *testing.T) {
	// (x -> x * x)(5)
	lam := &Lambda{Pattern: SlotPattern{Slot: 0}, Body: &ArithOp{
		Op: "*", Left: &LocalDataRef{Slot: 0}, Right: &LocalDataRef{Slot: 0},
	}, NSlots: 1, Name: "sq"}
	op := &CallExpr{
		Fn:  &LambdaExpr{Lam: lam},
		Arg: &Constant{Val: value.Num(5)},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 25 {
		t.Errorf("got %v, want 25", v)
	}
}

func TestEvalClosureCapturesNonlocal(t *testing.T) {
	// let y = 100 in (x -> x + y)(1)
	inner := &Lambda{
		Pattern:  SlotPattern{Slot: 0},
		Body:     &ArithOp{Op: "+", Left: &LocalDataRef{Slot: 0}, Right: &NonlocalDataRef{Slot: 0}},
		NSlots:   1,
		Captures: []CaptureSource{{FromNonlocals: true, Slot: 0}},
	}
	op := &RecursiveLetOp{
		Defs: []ModuleDef{{Name: "y", Value: &Constant{Val: value.Num(100)}}},
		Body: &CallExpr{
			Fn:  &LambdaExpr{Lam: inner},
			Arg: &Constant{Val: value.Num(1)},
		},
	}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(op, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 101 {
		t.Errorf("got %v, want 101", v)
	}
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	poison := &SymbolicRef{Lookup: func() (value.Value, error) {
		t.Fatal("short-circuited operand was evaluated")
		return value.Missing, nil
	}}
	and := &AndExpr{Left: &Constant{Val: value.Bool(false)}, Right: poison}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(and, f)
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := v.AsBool(); b {
		t.Errorf("expected false")
	}

	or := &OrExpr{Left: &Constant{Val: value.Bool(true)}, Right: poison}
	v, err = Eval(or, f)
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := v.AsBool(); !b {
		t.Errorf("expected true")
	}
}

func TestEvalListAndIndex(t *testing.T) {
	list := &ListExpr{Elems: []Operation{
		&Constant{Val: value.Num(1)},
		&Constant{Val: value.Num(2)},
		&Constant{Val: value.Num(3)},
	}}
	idx := &IndexExpr{Arg: list, Index: &Constant{Val: value.Num(1)}}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(idx, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 2 {
		t.Errorf("got %v, want 2", v)
	}
}

func TestEvalRecordDot(t *testing.T) {
	rec := &RecordExpr{Fields: []RecordField{
		{Name: "x", Value: &Constant{Val: value.Num(7)}},
	}}
	dot := &DotExpr{Arg: rec, Field: "x"}
	f := NewFrame(nil, nil, 0)
	v, err := Eval(dot, f)
	if err != nil {
		t.Fatal(err)
	}
	if num(t, v) != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestEvalForGenerator(t *testing.T) {
	// [for (i in [1,2,3]) i * 2]
	seq := &ListExpr{Elems: []Operation{
		&Constant{Val: value.Num(1)},
		&Constant{Val: value.Num(2)},
		&Constant{Val: value.Num(3)},
	}}
	forOp := &ForOp{
		Pat:      SlotPattern{Slot: 0},
		Seq:      seq,
		Body:     &ArithOp{Op: "*", Left: &LocalDataRef{Slot: 0}, Right: &Constant{Val: value.Num(2)}},
		Generate: true,
	}
	listExpr := &ListExpr{Elems: []Operation{forOp}}
	f := NewFrame(nil, nil, 1)
	v, err := Eval(listExpr, f)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := v.AsRef()
	l := r.(*value.List)
	if l.Len() != 3 {
		t.Fatalf("got %d elems, want 3", l.Len())
	}
	e0, _ := l.At(0)
	e2, _ := l.At(2)
	if num(t, e0) != 2 || num(t, e2) != 6 {
		t.Errorf("got [%v,...,%v], want [2,...,6]", e0, e2)
	}
}

func TestEvalAssignIndexed(t *testing.T) {
	// var v = [1,2,3]; v@1 := 99
	f := NewFrame(nil, nil, 1)
	f.Slots[0], _ = Eval(&ListExpr{Elems: []Operation{
		&Constant{Val: value.Num(1)},
		&Constant{Val: value.Num(2)},
		&Constant{Val: value.Num(3)},
	}}, f)
	assign := &AssignOp{
		Slot:  0,
		Index: []Operation{&Constant{Val: value.Num(1)}},
		Value: &Constant{Val: value.Num(99)},
	}
	if _, err := Eval(assign, f); err != nil {
		t.Fatal(err)
	}
	r, _ := f.Slots[0].AsRef()
	l := r.(*value.List)
	e1, _ := l.At(1)
	if num(t, e1) != 99 {
		t.Errorf("got %v, want 99", e1)
	}
}
