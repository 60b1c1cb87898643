// Package lens implements Curv's tree addressing layer (§4.7):
// tree_fetch and tree_amend over the closed set of List/Record index
// targets, addressed by a value.Index (TId/TPath/TSlice/ScalarIndex).
//
// No pack library addresses this directly — it is a recursive switch
// over a closed, small type set — so this package is stdlib-only; see
// DESIGN.md's grounding entry. The traversal recursion pattern follows
// original_source/libcurv/lens.cc's get_value_at_index/get_value_at_slice
// pair, translated from an explicit slice pointer-range into Go's
// TPath/TSlice index nodes.
package lens

import (
	"fmt"

	"github.com/curv-lang/curv/internal/errctx"
	"github.com/curv-lang/curv/internal/value"
)

// Fetch implements tree_fetch(tree, index, cx) -> Value (§4.7).
func Fetch(tree value.Value, idx value.Index, cx errctx.Context) (value.Value, error) {
	switch ix := idx.(type) {
	case value.TId:
		return tree, nil

	case value.TPath:
		mid, err := Fetch(tree, ix.I, cx)
		if err != nil {
			return value.Missing, err
		}
		return Fetch(mid, ix.J, cx)

	case value.TSlice:
		collected, err := Fetch(tree, ix.I, cx)
		if err != nil {
			return value.Missing, err
		}
		return fetchBroadcast(collected, ix.J, cx)

	case value.ScalarIndex:
		return fetchScalar(tree, ix.V, cx)
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("bad index: %v", idx))
}

// fetchBroadcast applies idx to each element of collected if it is a
// List (the "collect, then apply to each" half of TSlice), otherwise
// applies it directly.
func fetchBroadcast(collected value.Value, idx value.Index, cx errctx.Context) (value.Value, error) {
	r, ok := collected.AsRef()
	if !ok {
		return Fetch(collected, idx, cx)
	}
	list, ok := r.(*value.List)
	if !ok {
		return Fetch(collected, idx, cx)
	}
	out := make([]value.Value, list.Len())
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.At(i)
		v, err := Fetch(elem, idx, cx)
		if err != nil {
			return value.Missing, err
		}
		out[i] = v
	}
	return value.FromRef(value.NewList(out)), nil
}

// fetchScalar indexes tree by a plain Value index: positional for a
// number, by field for a symbol, broadcast for a list (§4.7).
func fetchScalar(tree, idx value.Value, cx errctx.Context) (value.Value, error) {
	if n, ok := idx.AsNum(); ok {
		list, err := asList(tree, cx)
		if err != nil {
			return value.Missing, err
		}
		i := int(n)
		if float64(i) != n || i < 0 || i >= list.Len() {
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("index %v out of bounds", n))
		}
		v, _ := list.At(i)
		return v, nil
	}
	if sym, ok := symbolOf(idx); ok {
		rec, err := asRecord(tree, cx)
		if err != nil {
			return value.Missing, err
		}
		v, gerr := rec.Get(sym)
		if gerr != nil {
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, gerr.Error())
		}
		return v, nil
	}
	if r, ok := idx.AsRef(); ok {
		if list, ok := r.(*value.List); ok {
			out := make([]value.Value, list.Len())
			for i := 0; i < list.Len(); i++ {
				iv, _ := list.At(i)
				v, err := fetchScalar(tree, iv, cx)
				if err != nil {
					return value.Missing, err
				}
				out[i] = v
			}
			return value.FromRef(value.NewList(out)), nil
		}
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("bad index: %v", idx))
}

// Amend implements tree_amend(tree, index, new, cx) -> Value, the
// copy-on-write update rule of §4.7: the input tree is never mutated;
// each record/list level on the path is cloned as the new value is
// written back into it on the way back up.
func Amend(tree value.Value, idx value.Index, newVal value.Value, cx errctx.Context) (value.Value, error) {
	switch ix := idx.(type) {
	case value.TId:
		return newVal, nil

	case value.TPath:
		mid, err := Fetch(tree, ix.I, cx)
		if err != nil {
			return value.Missing, err
		}
		amendedMid, err := Amend(mid, ix.J, newVal, cx)
		if err != nil {
			return value.Missing, err
		}
		return Amend(tree, ix.I, amendedMid, cx)

	case value.TSlice:
		return amendBroadcast(tree, ix, newVal, cx)

	case value.ScalarIndex:
		return amendScalar(tree, ix.V, newVal, cx)
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("bad index: %v", idx))
}

func amendBroadcast(tree value.Value, ix value.TSlice, newVal value.Value, cx errctx.Context) (value.Value, error) {
	collected, err := Fetch(tree, ix.I, cx)
	if err != nil {
		return value.Missing, err
	}
	r, ok := collected.AsRef()
	list, isList := r.(*value.List)
	if !ok || !isList {
		amended, err := Amend(collected, ix.J, newVal, cx)
		if err != nil {
			return value.Missing, err
		}
		return Amend(tree, ix.I, amended, cx)
	}
	nr, nok := newVal.AsRef()
	newList, newIsList := nr.(*value.List)
	if !nok || !newIsList || newList.Len() != list.Len() {
		return value.Missing, errctx.Fail(cx, errctx.CatDomain, "amending a slice requires a replacement list of equal size")
	}
	out := make([]value.Value, list.Len())
	for i := 0; i < list.Len(); i++ {
		elem, _ := list.At(i)
		nv, _ := newList.At(i)
		amended, err := Amend(elem, ix.J, nv, cx)
		if err != nil {
			return value.Missing, err
		}
		out[i] = amended
	}
	return Amend(tree, ix.I, value.FromRef(value.NewList(out)), cx)
}

func amendScalar(tree, idx, newVal value.Value, cx errctx.Context) (value.Value, error) {
	if n, ok := idx.AsNum(); ok {
		list, err := asList(tree, cx)
		if err != nil {
			return value.Missing, err
		}
		i := int(n)
		if float64(i) != n || i < 0 || i >= list.Len() {
			return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("index %v out of bounds", n))
		}
		elems := append([]value.Value(nil), list.Elems()...)
		elems[i] = newVal
		return value.FromRef(value.NewList(elems)), nil
	}
	if sym, ok := symbolOf(idx); ok {
		rec, err := asDRecord(tree, cx)
		if err != nil {
			return value.Missing, err
		}
		clone := rec.Clone()
		clone.Set(sym, newVal)
		return value.FromRef(clone), nil
	}
	return value.Missing, errctx.Fail(cx, errctx.CatDomain, fmt.Sprintf("bad index: %v", idx))
}

func symbolOf(v value.Value) (value.Symbol, bool) {
	r, ok := v.AsRef()
	if !ok {
		return "", false
	}
	sym, ok := r.(value.Symbol)
	return sym, ok
}

func asList(tree value.Value, cx errctx.Context) (*value.List, error) {
	r, ok := tree.AsRef()
	if ok {
		if l, ok := r.(*value.List); ok {
			return l, nil
		}
	}
	return nil, errctx.Fail(cx, errctx.CatDomain, "not a list")
}

func asRecord(tree value.Value, cx errctx.Context) (value.Record, error) {
	r, ok := tree.AsRef()
	if ok {
		if rec, ok := r.(value.Record); ok {
			return rec, nil
		}
	}
	return nil, errctx.Fail(cx, errctx.CatDomain, "not a record")
}

func asDRecord(tree value.Value, cx errctx.Context) (*value.DRecord, error) {
	r, ok := tree.AsRef()
	if ok {
		if d, ok := r.(*value.DRecord); ok {
			return d, nil
		}
	}
	return nil, errctx.Fail(cx, errctx.CatDomain, "amending a field requires a plain record")
}
