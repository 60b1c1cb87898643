package value

// Index is one of the four tree-address kinds used by the lens layer
// (§4.7): identity, a sequenced path, a broadcasting slice, or a plain
// value used as an index (ScalarIndex).
type Index interface {
	Ref
	EqualityComparer
	indexTag() string
}

// TId is the identity index: "fetch/amend the whole tree".
type TId struct{}

func (TId) RefKind() RefKind  { return RIndex }
func (TId) indexTag() string  { return "id" }
func (TId) EqualValue(o Ref) TernaryBool {
	_, ok := o.(TId)
	return boolT(ok)
}

// TPath applies I then J in sequence.
type TPath struct {
	I, J Index
}

func (TPath) RefKind() RefKind { return RIndex }
func (TPath) indexTag() string { return "path" }
func (p TPath) EqualValue(o Ref) TernaryBool {
	op, ok := o.(TPath)
	if !ok {
		return TFalse
	}
	if p.I.EqualValue(op.I) != TTrue {
		return TFalse
	}
	return p.J.EqualValue(op.J)
}

// TSlice applies I, collects the results, then applies J to each.
type TSlice struct {
	I, J Index
}

func (TSlice) RefKind() RefKind { return RIndex }
func (TSlice) indexTag() string { return "slice" }
func (s TSlice) EqualValue(o Ref) TernaryBool {
	os, ok := o.(TSlice)
	if !ok {
		return TFalse
	}
	if s.I.EqualValue(os.I) != TTrue {
		return TFalse
	}
	return s.J.EqualValue(os.J)
}

// ScalarIndex wraps a plain Value (number, symbol, or list) used
// directly as an index, per §4.7 "indexing a value with a number is
// positional, with a symbol is by field, with a list is broadcast".
type ScalarIndex struct {
	V Value
}

func (ScalarIndex) RefKind() RefKind { return RIndex }
func (ScalarIndex) indexTag() string { return "scalar" }
func (s ScalarIndex) EqualValue(o Ref) TernaryBool {
	os, ok := o.(ScalarIndex)
	if !ok {
		return TFalse
	}
	return Equal(s.V, os.V)
}

// AsIndex converts a plain Value into an Index, wrapping list/path
// shapes appropriately. Numbers and symbols become ScalarIndex;
// reference Index values (TId/TPath/TSlice) pass through unchanged;
// lists of indices broadcast.
func AsIndex(v Value) Index {
	if v.IsRef() {
		if idx, ok := v.ref.(Index); ok {
			return idx
		}
	}
	return ScalarIndex{V: v}
}
