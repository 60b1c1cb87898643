package subcurv

import (
	"strings"
	"testing"

	"github.com/curv-lang/curv/internal/meaning"
	"github.com/curv-lang/curv/internal/value"
)

func constOp(v value.Value) *meaning.Constant {
	return &meaning.Constant{Val: v}
}

func localRef(slot int) *meaning.LocalDataRef {
	return &meaning.LocalDataRef{Slot: slot}
}

// incrementLambda builds `x -> x + 1` directly as a Meaning tree,
// bypassing the parser/analyser since this package only needs to
// exercise the abstract compiler's evaluation of already-analysed
// nodes.
func incrementLambda() *meaning.Lambda {
	return &meaning.Lambda{
		Pattern: meaning.SlotPattern{Slot: 0},
		NSlots:  1,
		Body: &meaning.ArithOp{
			Op:    "+",
			Left:  localRef(0),
			Right: constOp(value.Num(1)),
		},
	}
}

func TestCompileFunctionScalar(t *testing.T) {
	src, resultType, err := CompileFunction(incrementLambda(), Num)
	if err != nil {
		t.Fatalf("CompileFunction: %v", err)
	}
	if !resultType.IsNum() {
		t.Fatalf("result type = %v, want Num", resultType)
	}
	if !strings.Contains(src, "entry(double arg)") {
		t.Fatalf("generated source missing entry signature:\n%s", src)
	}
	if !strings.Contains(src, "return") {
		t.Fatalf("generated source missing return statement:\n%s", src)
	}
}

// scaleVectorLambda builds `v -> v * 2`, exercising scalar/vector
// unification and the Vec CType.
func scaleVectorLambda() *meaning.Lambda {
	return &meaning.Lambda{
		Pattern: meaning.SlotPattern{Slot: 0},
		NSlots:  1,
		Body: &meaning.ArithOp{
			Op:    "*",
			Left:  localRef(0),
			Right: constOp(value.Num(2)),
		},
	}
}

func TestCompileFunctionVector(t *testing.T) {
	src, resultType, err := CompileFunction(scaleVectorLambda(), Vec(3))
	if err != nil {
		t.Fatalf("CompileFunction: %v", err)
	}
	if !resultType.IsVec() || resultType.Rank != 3 {
		t.Fatalf("result type = %v, want vec3", resultType)
	}
	if !strings.Contains(src, "vec3 arg") {
		t.Fatalf("generated source missing vec3 parameter:\n%s", src)
	}
}

// conditionalLambda builds `x -> if (x > 0) x else -x`, exercising
// If_Else_Op's eager-branch compilation and the Unify call across the
// two arms.
func conditionalLambda() *meaning.Lambda {
	return &meaning.Lambda{
		Pattern: meaning.SlotPattern{Slot: 0},
		NSlots:  1,
		Body: &meaning.IfElseOp{
			Cond: &meaning.CompareOp{Op: ">", Left: localRef(0), Right: constOp(value.Num(0))},
			Then: localRef(0),
			Else: &meaning.UnaryArithOp{Op: "-", Arg: localRef(0)},
		},
	}
}

func TestCompileFunctionConditional(t *testing.T) {
	src, _, err := CompileFunction(conditionalLambda(), Num)
	if err != nil {
		t.Fatalf("CompileFunction: %v", err)
	}
	if !strings.Contains(src, "if (") {
		t.Fatalf("generated source missing branch:\n%s", src)
	}
}

func TestCompileFunctionRejectsDestructuredParameter(t *testing.T) {
	lam := &meaning.Lambda{
		Pattern: meaning.ListPattern{Items: []meaning.Pattern{meaning.SlotPattern{Slot: 0}}},
		NSlots:  1,
		Body:    localRef(0),
	}
	if _, _, err := CompileFunction(lam, Num); err == nil {
		t.Fatal("expected an error for a non-bare-name parameter pattern")
	}
}

func TestOpCacheSharesInlinedCall(t *testing.T) {
	inc := incrementLambda()
	c := NewCompiler()
	f := &Frame{Nonlocals: nil}
	callA := &meaning.CallExpr{Fn: &meaning.LambdaExpr{Lam: inc}, Arg: constOp(value.Num(5))}
	callB := &meaning.CallExpr{Fn: &meaning.LambdaExpr{Lam: inc}, Arg: constOp(value.Num(5))}

	va, err := c.Eval(callA, f)
	if err != nil {
		t.Fatalf("Eval callA: %v", err)
	}
	vb, err := c.Eval(callB, f)
	if err != nil {
		t.Fatalf("Eval callB: %v", err)
	}
	if va.Expr != vb.Expr {
		t.Fatalf("expected identical inlined calls to share one result, got %q and %q", va.Expr, vb.Expr)
	}
}
