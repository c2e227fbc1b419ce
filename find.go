// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// ResultKind distinguishes the two shapes a path evaluation can land
// on: an ordinary marker-based field, or a slot inside a column (which
// has no marker of its own).
type ResultKind uint8

const (
	ResultField ResultKind = iota
	ResultColumnSlot
)

// FindResult is the outcome of evaluating a dot-path against a
// document (C7). For ResultField, Offset is the absolute offset of the
// field's marker byte, valid for decodeScalarAt or for opening a
// nested iterator; ParentOffset/ParentKind identify the field's
// immediate container, and KeyOffset additionally gives the start of
// the (length, bytes) key that precedes it when ParentKind is
// ContainerObject — together enough context for the Revision Facade to
// replace or remove the field without re-walking the path. For
// ResultColumnSlot, ColumnOpener/ColumnIndex identify the slot, since a
// column element carries no marker of its own to offset to.
type FindResult struct {
	Kind         ResultKind
	Offset       int
	ParentOffset int
	ParentKind   ContainerKind
	KeyOffset    int
	ColumnOpener int
	ColumnIndex  int
}

// Find evaluates path against the container opened at rootOffset and
// returns the field it resolves to. rootOffset must be the opener
// marker of an array or object — the two container kinds a record body
// can hold at its root.
//
// Find applies the unit-array descent rule before consuming the first
// path segment: if the root is an array containing exactly one element
// that is itself an object or a column, evaluation proceeds as if that
// element were the root, without the path needing to name index 0.
func Find(bf *ByteFile, rootOffset int, path string) (FindResult, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return FindResult{}, err
	}
	cur := rootOffset

	cur, err = descendUnitArrays(bf, cur)
	if err != nil {
		return FindResult{}, err
	}

	var res FindResult
	for i, seg := range segs {
		mb, err := bf.ByteAt(cur)
		if err != nil {
			return FindResult{}, err
		}
		m := Marker(mb)
		switch {
		case IsObjectOrSubtype(m):
			if seg.IsIndex {
				return FindResult{}, fmt.Errorf("%w: path segment %q is numeric but %d is an object", ErrDotPathParse, seg, cur)
			}
			keyOffset, valueOffset, err := findInObject(bf, cur, seg.Key)
			if err != nil {
				return FindResult{}, err
			}
			res = FindResult{Kind: ResultField, Offset: valueOffset, ParentOffset: cur, ParentKind: ContainerObject, KeyOffset: keyOffset}
			cur = valueOffset
		case IsArrayOrSubtype(m):
			if !seg.IsIndex {
				return FindResult{}, fmt.Errorf("%w: path segment %q is a key but %d is an array", ErrNotAnObject, seg, cur)
			}
			elemOffset, err := findInArray(bf, cur, seg.Index)
			if err != nil {
				return FindResult{}, err
			}
			res = FindResult{Kind: ResultField, Offset: elemOffset, ParentOffset: cur, ParentKind: ContainerArray}
			cur = elemOffset
		case ContainerKindOf(m) == ContainerColumn:
			if !seg.IsIndex {
				return FindResult{}, fmt.Errorf("%w: path segment %q is a key but %d is a column", ErrNotAnObject, seg, cur)
			}
			if i != len(segs)-1 {
				return FindResult{}, fmt.Errorf("%w: path continues past column slot at %q", ErrNoNestingPossible, seg)
			}
			n, err := columnNumElements(bf, cur)
			if err != nil {
				return FindResult{}, err
			}
			if seg.Index < 0 || seg.Index >= n {
				return FindResult{}, fmt.Errorf("%w: column index %d out of range (len %d)", ErrNoSuchIndex, seg.Index, n)
			}
			return FindResult{Kind: ResultColumnSlot, ColumnOpener: cur, ColumnIndex: seg.Index}, nil
		default:
			return FindResult{}, fmt.Errorf("%w: field at %d is not a container, but path has more segments", ErrNotAContainer, cur)
		}
	}

	return res, nil
}

func columnNumElements(bf *ByteFile, openerOffset int) (int, error) {
	_, n, _, err := ColumnHeader(bf, openerOffset)
	return n, err
}

// descendUnitArrays repeatedly applies the unit-array descent rule
// starting at offset, returning the first offset that either is not an
// array or is an array that does not qualify.
func descendUnitArrays(bf *ByteFile, offset int) (int, error) {
	for {
		mb, err := bf.ByteAt(offset)
		if err != nil {
			return 0, err
		}
		if !IsArrayOrSubtype(Marker(mb)) {
			return offset, nil
		}
		ai, err := newRootArrayIterator(bf, offset)
		if err != nil {
			return 0, err
		}
		unit, err := ai.IsUnit()
		if err != nil {
			ai.Drop()
			return 0, err
		}
		if !unit {
			ai.Drop()
			return offset, nil
		}
		ok, err := ai.Next()
		if err != nil || !ok {
			ai.Drop()
			return offset, err
		}
		ft, err := ai.FieldType()
		if err != nil {
			ai.Drop()
			return 0, err
		}
		if ft != FieldObject && ft != FieldColumn {
			ai.Drop()
			return offset, nil
		}
		offset = ai.pos
		ai.Drop()
	}
}

// findInObject returns the absolute offsets of both the key and the
// value of the pair named key, inside the object opened at
// openerOffset.
func findInObject(bf *ByteFile, openerOffset int, key string) (keyOffset, valueOffset int, err error) {
	oi, err := NewObjectIterator(bf, openerOffset, nil)
	if err != nil {
		return 0, 0, err
	}
	defer oi.Drop()
	ok, err := oi.Find(key)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, fmt.Errorf("%w: key %q", ErrNoSuchKey, key)
	}
	return oi.pos, oi.valuePos, nil
}

func findInArray(bf *ByteFile, openerOffset int, index int) (int, error) {
	ai, err := NewArrayIterator(bf, openerOffset, nil)
	if err != nil {
		return 0, err
	}
	defer ai.Drop()
	for i := 0; i <= index; i++ {
		ok, err := ai.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: index %d", ErrNoSuchIndex, index)
		}
	}
	return ai.pos, nil
}
