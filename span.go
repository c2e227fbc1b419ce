// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// fieldEnd returns the absolute offset immediately past the field whose
// marker sits at markerOffset, recursing into nested containers as
// needed but never decoding payloads beyond their declared length (the
// shared machinery behind Next(), FastForward(), and remove()). It is a
// pure function of the current bytes: no cursor state is touched, so it
// always reflects the latest edits to a container, including ones made
// by a nested iterator that has since been dropped.
func fieldEnd(bf *ByteFile, markerOffset int) (int, error) {
	mb, err := bf.ByteAt(markerOffset)
	if err != nil {
		return 0, err
	}
	m := Marker(mb)
	meta, err := lookupMarker(m)
	if err != nil {
		return 0, err
	}
	pos := markerOffset + 1
	switch meta.field {
	case FieldNull, FieldTrue, FieldFalse:
		return pos, nil
	case FieldU8, FieldI8:
		return pos + 1, nil
	case FieldU16, FieldI16:
		return pos + 2, nil
	case FieldU32, FieldI32, FieldFloat:
		return pos + 4, nil
	case FieldU64, FieldI64:
		return pos + 8, nil
	case FieldString:
		n, adv, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		return pos + adv + int(n), nil
	case FieldBinary:
		_, adv1, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		pos += adv1
		blobLen, adv2, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		return pos + adv2 + int(blobLen), nil
	case FieldBinaryCustom:
		nameLen, adv1, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		pos += adv1 + int(nameLen)
		blobLen, adv2, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		return pos + adv2 + int(blobLen), nil
	case FieldArray:
		return scanToArrayEnd(bf, markerOffset)
	case FieldObject:
		return scanToObjectEnd(bf, markerOffset)
	case FieldColumn:
		payloadStart, _, capacity, err := ColumnHeader(bf, markerOffset)
		if err != nil {
			return 0, err
		}
		t, err := ColumnElemOf(m)
		if err != nil {
			return 0, err
		}
		return payloadStart + capacity*ValueSize(t), nil
	default:
		return 0, fmt.Errorf("%w: marker 0x%02x at offset %d is not a field", ErrMalformedDocument, byte(m), markerOffset)
	}
}

// scanToArrayEnd walks the fields of the array opened at openerOffset and
// returns the offset immediately past its array-end marker.
func scanToArrayEnd(bf *ByteFile, openerOffset int) (int, error) {
	pos := openerOffset + 1
	for {
		b, err := bf.ByteAt(pos)
		if err != nil {
			return 0, fmt.Errorf("%w: array at %d missing end marker", ErrMalformedDocument, openerOffset)
		}
		if Marker(b) == MarkerArrayEnd {
			return pos + 1, nil
		}
		pos, err = fieldEnd(bf, pos)
		if err != nil {
			return 0, err
		}
	}
}

// scanToObjectEnd walks the (key, value) pairs of the object opened at
// openerOffset and returns the offset immediately past its object-end
// marker.
func scanToObjectEnd(bf *ByteFile, openerOffset int) (int, error) {
	pos := openerOffset + 1
	for {
		b, err := bf.ByteAt(pos)
		if err != nil {
			return 0, fmt.Errorf("%w: object at %d missing end marker", ErrMalformedDocument, openerOffset)
		}
		if Marker(b) == MarkerObjectEnd {
			return pos + 1, nil
		}
		keyLen, adv, err := bf.VaruintAt(pos)
		if err != nil {
			return 0, err
		}
		pos += adv + int(keyLen)
		pos, err = fieldEnd(bf, pos)
		if err != nil {
			return 0, err
		}
	}
}
