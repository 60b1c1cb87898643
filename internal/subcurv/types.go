// Package subcurv implements the SubCurv abstract compiler (§4.8): a
// static re-interpretation of the subset of Curv's Meaning tree that
// compiles to efficient vector/matrix C++ rather than running through
// the dynamic tree-walking evaluator. It exists to let GPU-bound
// numeric code (signed distance fields, colour fields) be type-checked
// and compiled ahead of time instead of re-dispatching on value.Value
// tags at every arithmetic step.
//
// Grounded on pkg/codegen/wgsl_generator.go's emission style (a
// write/writeln buffer with explicit indent tracking) and
// pkg/codegen/gpu_types.go's scalar/vector/matrix type table, re-cast
// from "WGSL shader text" to "a C++ translation unit" since SubCurv's
// consumer here is a cgo test harness (Cpp_Program) rather than a GPU
// pipeline.
package subcurv

import "fmt"

// ShapeKind classifies a Type's overall shape (§4.8): a plain number,
// a fixed-length vector of numbers, a square matrix of numbers, a
// 32-bit bit-vector ("bool32"), or a fixed-length array of some other
// SubCurv type.
type ShapeKind int

const (
	ShapeBool ShapeKind = iota
	ShapeNum
	ShapeVec
	ShapeMat
	ShapeBool32
	ShapeArray
)

// Type is SubCurv's static type: every value flowing through the
// abstract compiler carries exactly one of these, computed by
// unifying its operands' Types the same way the dynamic evaluator
// unifies their runtime Values.
type Type struct {
	Kind ShapeKind
	Rank int   // vector/matrix dimension (2..4), or array length for ShapeArray
	Elem *Type // element type for ShapeArray; nil otherwise
}

var (
	Bool   = &Type{Kind: ShapeBool}
	Num    = &Type{Kind: ShapeNum}
	Bool32 = &Type{Kind: ShapeBool32}
)

func Vec(rank int) *Type { return &Type{Kind: ShapeVec, Rank: rank} }
func Mat(rank int) *Type { return &Type{Kind: ShapeMat, Rank: rank} }
func Array(n int, elem *Type) *Type { return &Type{Kind: ShapeArray, Rank: n, Elem: elem} }

func (t *Type) IsBool() bool  { return t.Kind == ShapeBool }
func (t *Type) IsNum() bool   { return t.Kind == ShapeNum }
func (t *Type) IsVec() bool   { return t.Kind == ShapeVec }
func (t *Type) IsMat() bool   { return t.Kind == ShapeMat }
func (t *Type) IsArray() bool { return t.Kind == ShapeArray }

// PlexArrayRank reports the length of the top-level "plex" dimension
// for vector, matrix and array types alike: the number of scalar
// lanes (vectors), the number of columns (matrices, each itself a
// vector of Rank numbers), or the element count (arrays).
func (t *Type) PlexArrayRank() (int, bool) {
	switch t.Kind {
	case ShapeVec, ShapeMat, ShapeArray:
		return t.Rank, true
	default:
		return 0, false
	}
}

// ElemType reports the type of one lane/column/element of a compound
// type: a matrix's element type is a vector of the same rank, an
// array's is its declared Elem, and a vector's is Num.
func (t *Type) ElemType() *Type {
	switch t.Kind {
	case ShapeMat:
		return Vec(t.Rank)
	case ShapeArray:
		return t.Elem
	case ShapeVec:
		return Num
	default:
		return nil
	}
}

// Count is the total number of scalar lanes a value of this type
// occupies when flattened (1 for Num/Bool, Rank for a vector, Rank*Rank
// for a square matrix).
func (t *Type) Count() int {
	switch t.Kind {
	case ShapeVec:
		return t.Rank
	case ShapeMat:
		return t.Rank * t.Rank
	case ShapeArray:
		return t.Rank * t.Elem.Count()
	default:
		return 1
	}
}

// CType renders the C++ spelling of this type, grounded on
// gpu_types.go's WGSLType table but targeting the project's own
// fixed-size vector/matrix templates (vecN<double>, matNxN<double>)
// instead of WGSL's vecN<f32>.
func (t *Type) CType() string {
	switch t.Kind {
	case ShapeBool:
		return "bool"
	case ShapeNum:
		return "double"
	case ShapeBool32:
		return "uint32_t"
	case ShapeVec:
		return fmt.Sprintf("vec%d", t.Rank)
	case ShapeMat:
		return fmt.Sprintf("mat%dx%d", t.Rank, t.Rank)
	case ShapeArray:
		return fmt.Sprintf("std::array<%s, %d>", t.Elem.CType(), t.Rank)
	default:
		return "void"
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<none>"
	}
	switch t.Kind {
	case ShapeArray:
		return fmt.Sprintf("array[%d]of %s", t.Rank, t.Elem)
	case ShapeVec, ShapeMat:
		return t.CType()
	default:
		return t.CType()
	}
}

func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Rank != o.Rank {
		return false
	}
	if t.Kind == ShapeArray {
		return t.Elem.Equal(o.Elem)
	}
	return true
}

// Unify computes the common type two operands of an arithmetic or
// comparison operation promote to (§4.8: "a number and a vector unify
// to a vector, elementwise; two vectors of the same rank unify to
// themselves; anything else fails to unify"). A bare number always
// broadcasts against a vector or matrix operand.
func Unify(a, b *Type) (*Type, error) {
	if a.Equal(b) {
		return a, nil
	}
	if a.IsNum() && (b.IsVec() || b.IsMat()) {
		return b, nil
	}
	if b.IsNum() && (a.IsVec() || a.IsMat()) {
		return a, nil
	}
	return nil, fmt.Errorf("Shape Compiler: cannot unify %s with %s", a, b)
}
