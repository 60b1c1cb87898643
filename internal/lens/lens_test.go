package lens

import (
	"testing"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/source"
	"github.com/curv-lang/curv/internal/value"
)

func testCx() errctx.Context {
	return errctx.Root(source.SrcLoc{})
}

func numList(vals ...float64) value.Value {
	elems := make([]value.Value, len(vals))
	for i, f := range vals {
		elems[i] = value.Num(f)
	}
	return value.FromRef(value.NewList(elems))
}

func TestFetchIdentity(t *testing.T) {
	tree := value.Num(3)
	got, err := Fetch(tree, value.TId{}, testCx())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsNum(); f != 3 {
		t.Errorf("got %v, want 3", f)
	}
}

func TestFetchPositional(t *testing.T) {
	tree := numList(10, 20, 30)
	got, err := Fetch(tree, value.ScalarIndex{V: value.Num(1)}, testCx())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsNum(); f != 20 {
		t.Errorf("got %v, want 20", f)
	}
}

func TestFetchOutOfBounds(t *testing.T) {
	tree := numList(1, 2)
	_, err := Fetch(tree, value.ScalarIndex{V: value.Num(5)}, testCx())
	if err == nil {
		t.Fatal("expected a bounds error")
	}
}

func TestFetchByField(t *testing.T) {
	rec := value.NewDRecord()
	rec.Set("x", value.Num(42))
	tree := value.FromRef(rec)
	got, err := Fetch(tree, value.ScalarIndex{V: value.FromRef(value.Symbol("x"))}, testCx())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsNum(); f != 42 {
		t.Errorf("got %v, want 42", f)
	}
}

func TestFetchBroadcastByListIndex(t *testing.T) {
	tree := numList(100, 200, 300)
	idx := value.ScalarIndex{V: numList(0, 2)}
	got, err := Fetch(tree, idx, testCx())
	if err != nil {
		t.Fatal(err)
	}
	r, _ := got.AsRef()
	list := r.(*value.List)
	if list.Len() != 2 {
		t.Fatalf("got %d elems, want 2", list.Len())
	}
	f0, _ := func() (float64, bool) { v, _ := list.At(0); return v.AsNum() }()
	f1, _ := func() (float64, bool) { v, _ := list.At(1); return v.AsNum() }()
	if f0 != 100 || f1 != 300 {
		t.Errorf("got [%v, %v], want [100, 300]", f0, f1)
	}
}

func TestFetchPath(t *testing.T) {
	inner := value.NewDRecord()
	inner.Set("y", value.Num(7))
	outer := value.NewDRecord()
	outer.Set("x", value.FromRef(inner))
	tree := value.FromRef(outer)

	idx := value.TPath{
		I: value.ScalarIndex{V: value.FromRef(value.Symbol("x"))},
		J: value.ScalarIndex{V: value.FromRef(value.Symbol("y"))},
	}
	got, err := Fetch(tree, idx, testCx())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsNum(); f != 7 {
		t.Errorf("got %v, want 7", f)
	}
}

func TestAmendPositionalIsCopyOnWrite(t *testing.T) {
	orig := numList(1, 2, 3)
	amended, err := Amend(orig, value.ScalarIndex{V: value.Num(1)}, value.Num(99), testCx())
	if err != nil {
		t.Fatal(err)
	}

	origRef, _ := orig.AsRef()
	origList := origRef.(*value.List)
	v1, _ := origList.At(1)
	if f, _ := v1.AsNum(); f != 2 {
		t.Errorf("original list mutated: elem[1] = %v, want 2", f)
	}

	amendedRef, _ := amended.AsRef()
	amendedList := amendedRef.(*value.List)
	v1b, _ := amendedList.At(1)
	if f, _ := v1b.AsNum(); f != 99 {
		t.Errorf("amended list elem[1] = %v, want 99", f)
	}
}

func TestAmendFieldIsCopyOnWrite(t *testing.T) {
	rec := value.NewDRecord()
	rec.Set("x", value.Num(1))
	tree := value.FromRef(rec)

	amended, err := Amend(tree, value.ScalarIndex{V: value.FromRef(value.Symbol("x"))}, value.Num(2), testCx())
	if err != nil {
		t.Fatal(err)
	}

	origVal, _ := rec.Get("x")
	if f, _ := origVal.AsNum(); f != 1 {
		t.Errorf("original record mutated: x = %v, want 1", f)
	}

	amendedRef, _ := amended.AsRef()
	amendedRec := amendedRef.(*value.DRecord)
	newVal, _ := amendedRec.Get("x")
	if f, _ := newVal.AsNum(); f != 2 {
		t.Errorf("amended record x = %v, want 2", f)
	}
}

func TestAmendPath(t *testing.T) {
	inner := value.NewDRecord()
	inner.Set("y", value.Num(7))
	outer := value.NewDRecord()
	outer.Set("x", value.FromRef(inner))
	tree := value.FromRef(outer)

	idx := value.TPath{
		I: value.ScalarIndex{V: value.FromRef(value.Symbol("x"))},
		J: value.ScalarIndex{V: value.FromRef(value.Symbol("y"))},
	}
	amended, err := Amend(tree, idx, value.Num(99), testCx())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Fetch(amended, idx, testCx())
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsNum(); f != 99 {
		t.Errorf("got %v, want 99", f)
	}

	origInnerY, _ := inner.Get("y")
	if f, _ := origInnerY.AsNum(); f != 7 {
		t.Errorf("original inner record mutated: y = %v, want 7", f)
	}
}
