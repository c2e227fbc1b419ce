// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BinaryValue is the decoded payload of a binary or binary_custom field.
type BinaryValue struct {
	Custom   bool
	MimeID   uint64 // meaningful when !Custom
	TypeName string // meaningful when Custom
	Data     []byte
}

// ScalarValue is the decoded payload of any leaf field (everything that
// is not itself an array, object, or column). Exactly the fields
// relevant to Type are meaningful.
type ScalarValue struct {
	Type   FieldType
	IsNull bool
	Bool   bool
	U64    uint64
	I64    int64
	F32    float32
	Str    string
	Binary *BinaryValue
}

// decodeScalarAt reads the field whose marker sits at markerOffset and
// returns its decoded value. It is a pure function of the current bytes
// and is shared by the array iterator, the object iterator, and the
// path evaluator's result handle. Calling it on a container marker is a
// type-mismatch, not a decode of the container's first field.
func decodeScalarAt(bf *ByteFile, markerOffset int) (ScalarValue, error) {
	mb, err := bf.ByteAt(markerOffset)
	if err != nil {
		return ScalarValue{}, err
	}
	m := Marker(mb)
	meta, err := lookupMarker(m)
	if err != nil {
		return ScalarValue{}, err
	}
	pos := markerOffset + 1

	switch meta.field {
	case FieldNull:
		return ScalarValue{Type: FieldNull, IsNull: true}, nil
	case FieldTrue:
		return ScalarValue{Type: FieldTrue, Bool: true}, nil
	case FieldFalse:
		return ScalarValue{Type: FieldFalse, Bool: false}, nil
	case FieldU8:
		b, err := bf.ByteAt(pos)
		return ScalarValue{Type: FieldU8, U64: uint64(b)}, err
	case FieldU16:
		s, err := bf.SliceAt(pos, 2)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldU16, U64: uint64(binary.LittleEndian.Uint16(s))}, nil
	case FieldU32:
		s, err := bf.SliceAt(pos, 4)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldU32, U64: uint64(binary.LittleEndian.Uint32(s))}, nil
	case FieldU64:
		s, err := bf.SliceAt(pos, 8)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldU64, U64: binary.LittleEndian.Uint64(s)}, nil
	case FieldI8:
		b, err := bf.ByteAt(pos)
		return ScalarValue{Type: FieldI8, I64: int64(int8(b))}, err
	case FieldI16:
		s, err := bf.SliceAt(pos, 2)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldI16, I64: int64(int16(binary.LittleEndian.Uint16(s)))}, nil
	case FieldI32:
		s, err := bf.SliceAt(pos, 4)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldI32, I64: int64(int32(binary.LittleEndian.Uint32(s)))}, nil
	case FieldI64:
		s, err := bf.SliceAt(pos, 8)
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldI64, I64: int64(binary.LittleEndian.Uint64(s))}, nil
	case FieldFloat:
		s, err := bf.SliceAt(pos, 4)
		if err != nil {
			return ScalarValue{}, err
		}
		bits := binary.LittleEndian.Uint32(s)
		return ScalarValue{Type: FieldFloat, F32: math.Float32frombits(bits)}, nil
	case FieldString:
		n, adv, err := bf.VaruintAt(pos)
		if err != nil {
			return ScalarValue{}, err
		}
		data, err := bf.SliceAt(pos+adv, int(n))
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldString, Str: string(data)}, nil
	case FieldBinary:
		mimeID, adv1, err := bf.VaruintAt(pos)
		if err != nil {
			return ScalarValue{}, err
		}
		blobLen, adv2, err := bf.VaruintAt(pos + adv1)
		if err != nil {
			return ScalarValue{}, err
		}
		data, err := bf.SliceAt(pos+adv1+adv2, int(blobLen))
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldBinary, Binary: &BinaryValue{MimeID: mimeID, Data: data}}, nil
	case FieldBinaryCustom:
		nameLen, adv1, err := bf.VaruintAt(pos)
		if err != nil {
			return ScalarValue{}, err
		}
		name, err := bf.SliceAt(pos+adv1, int(nameLen))
		if err != nil {
			return ScalarValue{}, err
		}
		blobLen, adv2, err := bf.VaruintAt(pos + adv1 + int(nameLen))
		if err != nil {
			return ScalarValue{}, err
		}
		data, err := bf.SliceAt(pos+adv1+int(nameLen)+adv2, int(blobLen))
		if err != nil {
			return ScalarValue{}, err
		}
		return ScalarValue{Type: FieldBinaryCustom, Binary: &BinaryValue{Custom: true, TypeName: string(name), Data: data}}, nil
	default:
		return ScalarValue{}, fmt.Errorf("%w: field at %d is a container, not a scalar", ErrTypeMismatch, markerOffset)
	}
}

// encodeScalar appends the wire encoding (marker + payload) of v to dst
// and returns the result. It is the write-side counterpart of
// decodeScalarAt, shared by the insert engine and the update engine's
// remove-and-reinsert path.
func encodeScalar(dst []byte, v ScalarValue) ([]byte, error) {
	switch v.Type {
	case FieldNull:
		return append(dst, byte(MarkerNull)), nil
	case FieldTrue:
		return append(dst, byte(MarkerTrue)), nil
	case FieldFalse:
		return append(dst, byte(MarkerFalse)), nil
	case FieldU8:
		return append(dst, byte(MarkerU8), byte(v.U64)), nil
	case FieldU16:
		dst = append(dst, byte(MarkerU16), 0, 0)
		binary.LittleEndian.PutUint16(dst[len(dst)-2:], uint16(v.U64))
		return dst, nil
	case FieldU32:
		dst = append(dst, byte(MarkerU32), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(dst[len(dst)-4:], uint32(v.U64))
		return dst, nil
	case FieldU64:
		dst = append(dst, byte(MarkerU64), 0, 0, 0, 0, 0, 0, 0, 0)
		binary.LittleEndian.PutUint64(dst[len(dst)-8:], v.U64)
		return dst, nil
	case FieldI8:
		return append(dst, byte(MarkerI8), byte(int8(v.I64))), nil
	case FieldI16:
		dst = append(dst, byte(MarkerI16), 0, 0)
		binary.LittleEndian.PutUint16(dst[len(dst)-2:], uint16(int16(v.I64)))
		return dst, nil
	case FieldI32:
		dst = append(dst, byte(MarkerI32), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(dst[len(dst)-4:], uint32(int32(v.I64)))
		return dst, nil
	case FieldI64:
		dst = append(dst, byte(MarkerI64), 0, 0, 0, 0, 0, 0, 0, 0)
		binary.LittleEndian.PutUint64(dst[len(dst)-8:], uint64(v.I64))
		return dst, nil
	case FieldFloat:
		dst = append(dst, byte(MarkerFloat), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(dst[len(dst)-4:], math.Float32bits(v.F32))
		return dst, nil
	case FieldString:
		dst = append(dst, byte(MarkerString))
		dst = appendVaruint(dst, uint64(len(v.Str)))
		return append(dst, v.Str...), nil
	case FieldBinary:
		dst = append(dst, byte(MarkerBinary))
		dst = appendVaruint(dst, v.Binary.MimeID)
		dst = appendVaruint(dst, uint64(len(v.Binary.Data)))
		return append(dst, v.Binary.Data...), nil
	case FieldBinaryCustom:
		dst = append(dst, byte(MarkerBinaryCustom))
		dst = appendVaruint(dst, uint64(len(v.Binary.TypeName)))
		dst = append(dst, v.Binary.TypeName...)
		dst = appendVaruint(dst, uint64(len(v.Binary.Data)))
		return append(dst, v.Binary.Data...), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode field type %s as a scalar", ErrInternal, v.Type)
	}
}

// scalarMarkerFor returns the marker a ScalarValue of the given type
// encodes to, used when comparing an existing field's marker against
// the type of a replacement value during an in-place update.
func scalarMarkerFor(t FieldType) (Marker, bool) {
	switch t {
	case FieldNull:
		return MarkerNull, true
	case FieldTrue:
		return MarkerTrue, true
	case FieldFalse:
		return MarkerFalse, true
	case FieldU8:
		return MarkerU8, true
	case FieldU16:
		return MarkerU16, true
	case FieldU32:
		return MarkerU32, true
	case FieldU64:
		return MarkerU64, true
	case FieldI8:
		return MarkerI8, true
	case FieldI16:
		return MarkerI16, true
	case FieldI32:
		return MarkerI32, true
	case FieldI64:
		return MarkerI64, true
	case FieldFloat:
		return MarkerFloat, true
	case FieldString:
		return MarkerString, true
	case FieldBinary:
		return MarkerBinary, true
	case FieldBinaryCustom:
		return MarkerBinaryCustom, true
	default:
		return 0, false
	}
}
