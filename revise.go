// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// Reviser is the public, path-driven entry point for reading and
// mutating a document's content (C8). It sits on top of the Path
// Evaluator (C7), the Insert Engine (C5), and the Update/Promotion
// Engine (C6): every call is self-contained — it opens whatever
// iterators it needs, uses them, and drops them before returning — so
// a Reviser never itself holds a container lock between calls.
type Reviser struct {
	bf   *ByteFile
	root int
}

// NewReviser returns a Reviser addressing paths relative to the
// container (array or object) opened at rootOffset.
func NewReviser(bf *ByteFile, rootOffset int) *Reviser {
	return &Reviser{bf: bf, root: rootOffset}
}

// Get evaluates path and decodes the field it names.
func (r *Reviser) Get(path string) (ScalarValue, error) {
	res, err := Find(r.bf, r.root, path)
	if err != nil {
		return ScalarValue{}, err
	}
	if res.Kind == ResultColumnSlot {
		return r.getColumnSlot(res)
	}
	return decodeScalarAt(r.bf, res.Offset)
}

func (r *Reviser) getColumnSlot(res FindResult) (ScalarValue, error) {
	ci, err := NewColumnIterator(r.bf, res.ColumnOpener, nil)
	if err != nil {
		return ScalarValue{}, err
	}
	defer ci.Drop()
	ci.idx = res.ColumnIndex
	ci.state = stateAtField
	return ci.Value()
}

// Set evaluates path and overwrites the field it names with v. Scalar
// fields are replaced in place, growing or shrinking the document as
// needed; a column slot that v does not fit triggers column-to-array
// promotion (C6). Set never changes a field's container shape — to
// replace a scalar with an array or object, Remove then Insert.
func (r *Reviser) Set(path string, v ScalarValue) error {
	res, err := Find(r.bf, r.root, path)
	if err != nil {
		return err
	}
	if res.Kind == ResultColumnSlot {
		ci, err := NewColumnIterator(r.bf, res.ColumnOpener, nil)
		if err != nil {
			return err
		}
		defer ci.Drop()
		promoted, err := UpdateColumnValue(ci, res.ColumnIndex, v)
		if promoted != nil {
			promoted.Drop()
		}
		return err
	}
	ft, err := FieldTypeOf(mustMarker(r.bf, res.Offset))
	if err != nil {
		return err
	}
	if ft == FieldArray || ft == FieldObject || ft == FieldColumn {
		return fmt.Errorf("%w: Set cannot overwrite a container field; Remove then Insert instead", ErrTypeMismatch)
	}
	end, err := fieldEnd(r.bf, res.Offset)
	if err != nil {
		return err
	}
	enc, err := encodeScalar(nil, v)
	if err != nil {
		return err
	}
	replaceSpan(r.bf, res.Offset, end, enc)
	return nil
}

func mustMarker(bf *ByteFile, offset int) Marker {
	b, err := bf.ByteAt(offset)
	if err != nil {
		return 0xFF // deliberately invalid; FieldTypeOf below surfaces the real error
	}
	return Marker(b)
}

// Remove evaluates path and deletes the field it names — the whole
// (key, value) pair when it lives in an object, a single column slot
// when it resolves to one, or just the field itself in an array.
func (r *Reviser) Remove(path string) error {
	res, err := Find(r.bf, r.root, path)
	if err != nil {
		return err
	}
	if res.Kind == ResultColumnSlot {
		ci, err := NewColumnIterator(r.bf, res.ColumnOpener, nil)
		if err != nil {
			return err
		}
		defer ci.Drop()
		return ci.RemoveAt(res.ColumnIndex)
	}
	switch res.ParentKind {
	case ContainerObject:
		end, err := fieldEnd(r.bf, res.Offset)
		if err != nil {
			return err
		}
		r.bf.Seek(res.KeyOffset)
		r.bf.InplaceRemove(end - res.KeyOffset)
		return nil
	case ContainerArray:
		end, err := fieldEnd(r.bf, res.Offset)
		if err != nil {
			return err
		}
		r.bf.Seek(res.Offset)
		r.bf.InplaceRemove(end - res.Offset)
		return nil
	default:
		return fmt.Errorf("%w: cannot remove the document root", ErrUnsupportedContainer)
	}
}

// AppendToArray evaluates path, which must resolve to an array field,
// and inserts v as its new last element.
func (r *Reviser) AppendToArray(path string, v ScalarValue) error {
	opener, err := r.resolveContainer(path, FieldArray)
	if err != nil {
		return err
	}
	ai, err := NewArrayIterator(r.bf, opener, nil)
	if err != nil {
		return err
	}
	defer ai.Drop()
	if err := ai.FastForward(); err != nil {
		return err
	}
	return ai.InsertBegin().InsertScalar(v)
}

// SetObjectField evaluates path, which must resolve to an object
// field, and inserts a new (key, value) pair, or overwrites the value
// of an existing pair with the same key.
func (r *Reviser) SetObjectField(path, key string, v ScalarValue) error {
	opener, err := r.resolveContainer(path, FieldObject)
	if err != nil {
		return err
	}
	oi, err := NewObjectIterator(r.bf, opener, nil)
	if err != nil {
		return err
	}
	defer oi.Drop()
	if found, err := oi.Find(key); err != nil {
		return err
	} else if found {
		return UpdateObjectValue(oi, v)
	}
	if err := oi.FastForward(); err != nil {
		return err
	}
	ins := oi.InsertBegin()
	if err := ins.InsertKey(key); err != nil {
		return err
	}
	return ins.InsertScalar(v)
}

// resolveContainer evaluates path to a field and checks it has the
// expected container field type, returning its opener offset. An empty
// path addresses the Reviser's own root container.
func (r *Reviser) resolveContainer(path string, want FieldType) (int, error) {
	if path == "" {
		mb, err := r.bf.ByteAt(r.root)
		if err != nil {
			return 0, err
		}
		ft, err := FieldTypeOf(Marker(mb))
		if err != nil {
			return 0, err
		}
		if ft != want {
			return 0, fmt.Errorf("%w: root is %s, not %s", ErrTypeMismatch, ft, want)
		}
		return r.root, nil
	}
	res, err := Find(r.bf, r.root, path)
	if err != nil {
		return 0, err
	}
	if res.Kind == ResultColumnSlot {
		return 0, fmt.Errorf("%w: path resolves to a column slot, not a %s", ErrTypeMismatch, want)
	}
	ft, err := FieldTypeOf(mustMarker(r.bf, res.Offset))
	if err != nil {
		return 0, err
	}
	if ft != want {
		return 0, fmt.Errorf("%w: path resolves to %s, not %s", ErrTypeMismatch, ft, want)
	}
	return res.Offset, nil
}
