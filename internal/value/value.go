// Package value implements Curv's dynamically typed value model.
//
// spec.md §3.3 describes a NaN-boxed 64-bit word with an intrusively
// refcounted heap for reference kinds. §9 explicitly allows "a
// straight tagged enum Value with an Rc/Arc for heap kinds" as an
// equally acceptable alternative, and this implementation takes that
// allowance one step further for Go: Value is a small tagged struct,
// and heap kinds are ordinary garbage-collected Go values behind an
// interface (Ref) rather than a hand-rolled refcount. See DESIGN.md
// "Open Question decisions" for the invariant-preservation argument.
package value

import "math"

// Kind discriminates the immediate representation of a Value.
type Kind uint8

const (
	KMissing Kind = iota
	KNum
	KBool
	KChar
	KRef
)

// RefKind is the (type, subtype) discriminator read off a reference
// Value without going through the heap object's own dynamic type,
// mirroring the teacher's GPUTypeInfo-style "classify without a
// vtable lookup" lookup table (pkg/codegen/gpu_types.go).
type RefKind uint8

const (
	RSymbol RefKind = iota
	RList
	RString
	RDRecord
	RModule
	RDirRecord
	RFunction
	RLambda
	RReactiveUniform
	RReactiveExpr
	RType
	RIndex
)

// Ref is the common interface every heap-allocated value kind
// implements, exposing its discriminator pair without a type switch.
type Ref interface {
	RefKind() RefKind
}

// Value is the uniform boxed representation every Operation produces.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	b    bool
	ch   byte
	ref  Ref
}

// Missing is the sentinel "no value", never observable to user
// programs (spec.md §3.3).
var Missing = Value{kind: KMissing}

// True and False are the two boolean immediates.
var True = Value{kind: KBool, b: true}
var False = Value{kind: KBool, b: false}

// Num boxes a float64. Any computation that would otherwise produce a
// IEEE NaN must not call Num with NaN — callers should substitute
// Missing instead, preserving the NaN-elimination invariant (§8.1).
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Missing
	}
	return Value{kind: KNum, num: f}
}

// Bool boxes a boolean.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Char boxes an 8-bit character.
func Char(c byte) Value { return Value{kind: KChar, ch: c} }

// FromRef boxes a heap reference value.
func FromRef(r Ref) Value { return Value{kind: KRef, ref: r} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNum() bool { return v.kind == KNum }
func (v Value) IsMissing() bool { return v.kind == KMissing }
func (v Value) IsBool() bool { return v.kind == KBool }
func (v Value) IsChar() bool { return v.kind == KChar }

// IsRef reports whether v holds a heap reference. Missing must return
// false here (§3.3 invariant).
func (v Value) IsRef() bool { return v.kind == KRef }

func (v Value) AsNum() (float64, bool) {
	if v.kind != KNum {
		return 0, false
	}
	return v.num, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsChar() (byte, bool) {
	if v.kind != KChar {
		return 0, false
	}
	return v.ch, true
}

func (v Value) AsRef() (Ref, bool) {
	if v.kind != KRef {
		return nil, false
	}
	return v.ref, true
}

// RefKind returns the reference discriminator, or a false ok if v is
// not a reference value.
func (v Value) RefKind() (RefKind, bool) {
	if v.kind != KRef {
		return 0, false
	}
	return v.ref.RefKind(), true
}

// TernaryBool is Curv's three-valued equality result: reactive values
// in SubCurv may not be decidable (§3.3).
type TernaryBool int

const (
	TFalse TernaryBool = iota
	TTrue
	TUnknown
)

// Equal implements Curv's structural equality (§3.3): numbers compare
// by IEEE ==, so NaN never appears (eliminated at construction) and
// +0==-0; booleans/chars compare by immediate; references compare by
// kind then structural contents; functions are equal only if they are
// the same reference.
func Equal(a, b Value) TernaryBool {
	if a.kind != b.kind {
		return TFalse
	}
	switch a.kind {
	case KMissing:
		return TTrue
	case KNum:
		return boolT(a.num == b.num)
	case KBool:
		return boolT(a.b == b.b)
	case KChar:
		return boolT(a.ch == b.ch)
	case KRef:
		return equalRef(a.ref, b.ref)
	}
	return TFalse
}

func boolT(b bool) TernaryBool {
	if b {
		return TTrue
	}
	return TFalse
}

// EqualityComparer lets heap kinds implement their own structural
// comparison; reactive values return TUnknown when undecidable.
type EqualityComparer interface {
	EqualValue(other Ref) TernaryBool
}

func equalRef(a, b Ref) TernaryBool {
	if a.RefKind() != b.RefKind() {
		return TFalse
	}
	if cmp, ok := a.(EqualityComparer); ok {
		return cmp.EqualValue(b)
	}
	// Identity fallback (functions/lambdas: equal only if same
	// reference).
	return boolT(a == b)
}
