package errctx

import "github.com/curv-lang/curv/internal/value"

// FailMode selects between the two failure disciplines of §4.5: a
// user call frame always uses Hard (raise an Exception); pattern-match
// trial uses Soft (return ok=false, no panic, no allocation for the
// error path).
type FailMode int

const (
	Hard FailMode = iota
	Soft
)

// ToNum converts v to a float64 per §4.5's Fail discipline: under Hard
// it returns a non-nil *Exception on mismatch; under Soft it returns
// ok=false and a nil exception.
func ToNum(v value.Value, cx Context, mode FailMode) (f float64, ok bool, err *Exception) {
	if n, isNum := v.AsNum(); isNum {
		return n, true, nil
	}
	if mode == Soft {
		return 0, false, nil
	}
	return 0, false, Fail(cx, CatDomain, "not a number")
}

// ToBool converts v to a bool under the same discipline.
func ToBool(v value.Value, cx Context, mode FailMode) (b bool, ok bool, err *Exception) {
	if bv, isBool := v.AsBool(); isBool {
		return bv, true, nil
	}
	if mode == Soft {
		return false, false, nil
	}
	return false, false, Fail(cx, CatDomain, "not a boolean")
}

// ToList converts v to a *value.List under the same discipline.
func ToList(v value.Value, cx Context, mode FailMode) (l *value.List, ok bool, err *Exception) {
	if r, isRef := v.AsRef(); isRef {
		if lst, isList := r.(*value.List); isList {
			return lst, true, nil
		}
	}
	if mode == Soft {
		return nil, false, nil
	}
	return nil, false, Fail(cx, CatDomain, "not a list")
}

// ToRecord converts v to a value.Record under the same discipline.
func ToRecord(v value.Value, cx Context, mode FailMode) (r value.Record, ok bool, err *Exception) {
	if ref, isRef := v.AsRef(); isRef {
		if rec, isRecord := ref.(value.Record); isRecord {
			return rec, true, nil
		}
	}
	if mode == Soft {
		return nil, false, nil
	}
	return nil, false, Fail(cx, CatDomain, "not a record")
}
