package subcurv

import "testing"

func TestUnifyScalarWithVector(t *testing.T) {
	v, err := Unify(Num, Vec(3))
	if err != nil {
		t.Fatalf("Unify(Num, Vec(3)): %v", err)
	}
	if !v.IsVec() || v.Rank != 3 {
		t.Fatalf("Unify(Num, Vec(3)) = %v, want vec3", v)
	}
}

func TestUnifySameRankVectors(t *testing.T) {
	v, err := Unify(Vec(2), Vec(2))
	if err != nil {
		t.Fatalf("Unify(Vec(2), Vec(2)): %v", err)
	}
	if !v.IsVec() || v.Rank != 2 {
		t.Fatalf("Unify(Vec(2), Vec(2)) = %v, want vec2", v)
	}
}

func TestUnifyMismatchedRanksFails(t *testing.T) {
	if _, err := Unify(Vec(2), Vec(3)); err == nil {
		t.Fatal("expected Unify(Vec(2), Vec(3)) to fail")
	}
}

func TestUnifyBoolWithNumFails(t *testing.T) {
	if _, err := Unify(Bool, Num); err == nil {
		t.Fatal("expected Unify(Bool, Num) to fail")
	}
}

func TestMatrixCType(t *testing.T) {
	if got, want := Mat(4).CType(), "mat4x4"; got != want {
		t.Fatalf("Mat(4).CType() = %q, want %q", got, want)
	}
}

func TestArrayCount(t *testing.T) {
	arr := Array(5, Vec(3))
	if got, want := arr.Count(), 15; got != want {
		t.Fatalf("Array(5, Vec(3)).Count() = %d, want %d", got, want)
	}
}
