package value

import "testing"

func TestNumEliminatesNaN(t *testing.T) {
	v := Num(0.0 / normalizeZero())
	if !v.IsMissing() {
		t.Fatalf("expected NaN to collapse to Missing, got kind %v", v.Kind())
	}
}

func normalizeZero() float64 { return 0 }

func TestSignedZeroEquality(t *testing.T) {
	pos := Num(0.0)
	neg := Num(-0.0)
	if Equal(pos, neg) != TTrue {
		t.Fatalf("+0 and -0 must compare equal")
	}
}

func TestListEquality(t *testing.T) {
	a := FromRef(NewList([]Value{Num(1), Num(2), Num(3)}))
	b := FromRef(NewList([]Value{Num(1), Num(2), Num(3)}))
	c := FromRef(NewList([]Value{Num(1), Num(2)}))
	if Equal(a, b) != TTrue {
		t.Fatalf("equal lists must compare equal")
	}
	if Equal(a, c) != TFalse {
		t.Fatalf("different-length lists must compare unequal")
	}
}

func TestBuilderPromotion(t *testing.T) {
	var b Builder
	b.Push(Char('h'))
	b.Push(Char('i'))
	v := b.Build()
	s, ok := v.AsRef()
	if !ok {
		t.Fatalf("expected a ref value")
	}
	str, ok := s.(*String)
	if !ok || str.Go() != "hi" {
		t.Fatalf("expected string \"hi\", got %#v", s)
	}

	var b2 Builder
	b2.Push(Char('a'))
	b2.Push(Num(1))
	v2 := b2.Build()
	r2, _ := v2.AsRef()
	if _, ok := r2.(*List); !ok {
		t.Fatalf("expected promotion to *List once a non-char is pushed")
	}
}

func TestMissingIsNotRef(t *testing.T) {
	if Missing.IsRef() {
		t.Fatalf("Missing must not be a ref value")
	}
}

func TestRecordFieldOrderEquality(t *testing.T) {
	a := NewDRecord()
	a.Set("a", Num(1))
	a.Set("b", Num(2))
	b := NewDRecord()
	b.Set("b", Num(2))
	b.Set("a", Num(1))
	if Equal(FromRef(a), FromRef(b)) != TTrue {
		t.Fatalf("records equal regardless of insertion order, comparing in key order")
	}
}
