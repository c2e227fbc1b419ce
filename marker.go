// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "fmt"

// Marker is a single wire byte: it opens a container, closes a container,
// or precedes a scalar payload (C2). The concrete byte values are stable
// constants shared by every reader and writer of the format; they must
// never be renumbered once a document has been written with them.
type Marker byte

// Base field-type markers. These precede a fixed-width or length-prefixed
// payload and never carry an abstract-type annotation of their own.
const (
	MarkerNull         Marker = 0x00
	MarkerTrue         Marker = 0x01
	MarkerFalse        Marker = 0x02
	MarkerString       Marker = 0x03
	MarkerU8           Marker = 0x04
	MarkerU16          Marker = 0x05
	MarkerU32          Marker = 0x06
	MarkerU64          Marker = 0x07
	MarkerI8           Marker = 0x08
	MarkerI16          Marker = 0x09
	MarkerI32          Marker = 0x0A
	MarkerI64          Marker = 0x0B
	MarkerFloat        Marker = 0x0C
	MarkerBinary       Marker = 0x0D
	MarkerBinaryCustom Marker = 0x0E
	MarkerArrayEnd     Marker = 0x0F
	MarkerObjectEnd    Marker = 0x10
)

// Abstract-subtype container openers are allocated in dense, four-wide
// bands so that classification reduces to a small table lookup: one band
// for arrays, one for objects, and one band per column element type.
const (
	markerArrayBase  = 0x20
	markerObjectBase = 0x30
	markerColumnBase = 0x40
	bandWidth        = 4 // four abstract subtypes per container kind
)

// ListClass is the abstract subtype of an array or column: the four
// set/multiset x sorted/unsorted combinations arrays and columns share.
type ListClass uint8

const (
	ListUnsortedMultiset ListClass = iota
	ListSortedMultiset
	ListUnsortedSet
	ListSortedSet
)

// MapClass is the abstract subtype of an object.
type MapClass uint8

const (
	MapUnsortedMultimap MapClass = iota
	MapSortedMultimap
	MapUnsortedMap
	MapSortedMap
)

// ElemType is a column's fixed element type (C ∈ the ten column-eligible
// field types).
type ElemType uint8

const (
	ElemU8 ElemType = iota
	ElemU16
	ElemU32
	ElemU64
	ElemI8
	ElemI16
	ElemI32
	ElemI64
	ElemFloat
	ElemBoolean
	numElemTypes = int(ElemBoolean) + 1
)

func (e ElemType) String() string {
	switch e {
	case ElemU8:
		return "u8"
	case ElemU16:
		return "u16"
	case ElemU32:
		return "u32"
	case ElemU64:
		return "u64"
	case ElemI8:
		return "i8"
	case ElemI16:
		return "i16"
	case ElemI32:
		return "i32"
	case ElemI64:
		return "i64"
	case ElemFloat:
		return "float"
	case ElemBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// ValueSize returns the fixed byte width of a column slot for the given
// element type.
func ValueSize(t ElemType) int {
	switch t {
	case ElemU8, ElemI8, ElemBoolean:
		return 1
	case ElemU16, ElemI16:
		return 2
	case ElemU32, ElemI32, ElemFloat:
		return 4
	case ElemU64, ElemI64:
		return 8
	default:
		panic(fmt.Sprintf("carbon: unknown element type %d", t))
	}
}

// ArrayMarker returns the opener marker for an array of the given
// abstract class (C2 derive_list over the array container).
func ArrayMarker(class ListClass) Marker {
	return Marker(markerArrayBase + int(class))
}

// ColumnMarker returns the opener marker for a column of element type t
// and abstract class (C2 derive_list over a column container).
func ColumnMarker(t ElemType, class ListClass) Marker {
	return Marker(markerColumnBase + int(t)*bandWidth + int(class))
}

// ObjectMarker returns the opener marker for an object of the given
// abstract class (C2 derive_map).
func ObjectMarker(class MapClass) Marker {
	return Marker(markerObjectBase + int(class))
}

// FieldType is a value's static type, ignoring any abstract-type
// annotation (which only containers carry). It is the closed set from
// spec §3.
type FieldType uint8

const (
	FieldNull FieldType = iota
	FieldTrue
	FieldFalse
	FieldString
	FieldU8
	FieldU16
	FieldU32
	FieldU64
	FieldI8
	FieldI16
	FieldI32
	FieldI64
	FieldFloat
	FieldBinary
	FieldBinaryCustom
	FieldArray
	FieldObject
	FieldColumn
	fieldTypeCount
)

func (f FieldType) String() string {
	names := [...]string{
		"null", "true", "false", "string",
		"u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64", "float",
		"binary", "binary_custom", "array", "object", "column",
	}
	if int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// markerMeta is the per-marker classification record; markerTable is
// built once at init time so every classifier below is O(1).
type markerMeta struct {
	valid     bool
	field     FieldType
	container ContainerKind
	elem      ElemType  // meaningful when container == ContainerColumn
	listClass ListClass // meaningful when container in {Array, Column}
	mapClass  MapClass  // meaningful when container == Object
}

// ContainerKind distinguishes the three traversable container shapes.
type ContainerKind uint8

const (
	ContainerNone ContainerKind = iota
	ContainerArray
	ContainerObject
	ContainerColumn
)

var markerTable [256]markerMeta

func init() {
	set := func(m Marker, meta markerMeta) {
		meta.valid = true
		markerTable[m] = meta
	}
	set(MarkerNull, markerMeta{field: FieldNull})
	set(MarkerTrue, markerMeta{field: FieldTrue})
	set(MarkerFalse, markerMeta{field: FieldFalse})
	set(MarkerString, markerMeta{field: FieldString})
	set(MarkerU8, markerMeta{field: FieldU8})
	set(MarkerU16, markerMeta{field: FieldU16})
	set(MarkerU32, markerMeta{field: FieldU32})
	set(MarkerU64, markerMeta{field: FieldU64})
	set(MarkerI8, markerMeta{field: FieldI8})
	set(MarkerI16, markerMeta{field: FieldI16})
	set(MarkerI32, markerMeta{field: FieldI32})
	set(MarkerI64, markerMeta{field: FieldI64})
	set(MarkerFloat, markerMeta{field: FieldFloat})
	set(MarkerBinary, markerMeta{field: FieldBinary})
	set(MarkerBinaryCustom, markerMeta{field: FieldBinaryCustom})
	set(MarkerArrayEnd, markerMeta{field: fieldTypeCount}) // sentinel, not a value type
	set(MarkerObjectEnd, markerMeta{field: fieldTypeCount})

	for c := ListClass(0); c < bandWidth; c++ {
		set(ArrayMarker(c), markerMeta{field: FieldArray, container: ContainerArray, listClass: c})
	}
	for c := MapClass(0); c < bandWidth; c++ {
		set(ObjectMarker(c), markerMeta{field: FieldObject, container: ContainerObject, mapClass: c})
	}
	for t := ElemType(0); t < numElemTypes; t++ {
		for c := ListClass(0); c < bandWidth; c++ {
			set(ColumnMarker(t, c), markerMeta{field: FieldColumn, container: ContainerColumn, elem: t, listClass: c})
		}
	}
}

func lookupMarker(m Marker) (markerMeta, error) {
	meta := markerTable[m]
	if !meta.valid {
		return markerMeta{}, fmt.Errorf("%w: unknown marker 0x%02x", ErrMalformedDocument, byte(m))
	}
	return meta, nil
}

// FieldTypeOf returns the logical field type of a marker. An unknown
// marker is fatal: the codec never guesses (C2 contract).
func FieldTypeOf(m Marker) (FieldType, error) {
	meta, err := lookupMarker(m)
	if err != nil {
		return 0, err
	}
	return meta.field, nil
}

// IsTraversable reports whether m opens a container an iterator can
// descend into (array, object, or column).
func IsTraversable(m Marker) bool {
	meta, err := lookupMarker(m)
	return err == nil && meta.container != ContainerNone
}

// IsArrayOrSubtype reports whether m is an array opener of any abstract
// class.
func IsArrayOrSubtype(m Marker) bool {
	meta, err := lookupMarker(m)
	return err == nil && meta.container == ContainerArray
}

// IsObjectOrSubtype reports whether m is an object opener of any
// abstract class.
func IsObjectOrSubtype(m Marker) bool {
	meta, err := lookupMarker(m)
	return err == nil && meta.container == ContainerObject
}

// IsColumnOf reports whether m opens a column of element type t, of any
// abstract class.
func IsColumnOf(m Marker, t ElemType) bool {
	meta, err := lookupMarker(m)
	return err == nil && meta.container == ContainerColumn && meta.elem == t
}

// IsListOrSubtype reports whether m is an array or a column opener (the
// two container kinds that share the list abstract-class domain).
func IsListOrSubtype(m Marker) bool {
	meta, err := lookupMarker(m)
	return err == nil && (meta.container == ContainerArray || meta.container == ContainerColumn)
}

// IsBoolean, IsNumber, IsSigned, IsUnsigned, IsFloating, IsString,
// IsBinary and IsNull classify scalar field markers (not container
// openers).
func IsBoolean(m Marker) bool { return m == MarkerTrue || m == MarkerFalse }

func IsNumber(m Marker) bool {
	switch m {
	case MarkerU8, MarkerU16, MarkerU32, MarkerU64,
		MarkerI8, MarkerI16, MarkerI32, MarkerI64, MarkerFloat:
		return true
	default:
		return false
	}
}

func IsSigned(m Marker) bool {
	switch m {
	case MarkerI8, MarkerI16, MarkerI32, MarkerI64:
		return true
	default:
		return false
	}
}

func IsUnsigned(m Marker) bool {
	switch m {
	case MarkerU8, MarkerU16, MarkerU32, MarkerU64:
		return true
	default:
		return false
	}
}

func IsFloating(m Marker) bool { return m == MarkerFloat }
func IsString(m Marker) bool   { return m == MarkerString }
func IsBinary(m Marker) bool   { return m == MarkerBinary || m == MarkerBinaryCustom }
func IsNull(m Marker) bool     { return m == MarkerNull }

// AbstractListClassOf returns the abstract class carried by an array or
// column opener marker.
func AbstractListClassOf(m Marker) (ListClass, error) {
	meta, err := lookupMarker(m)
	if err != nil {
		return 0, err
	}
	if meta.container != ContainerArray && meta.container != ContainerColumn {
		return 0, fmt.Errorf("%w: marker 0x%02x is not a list container", ErrInternal, byte(m))
	}
	return meta.listClass, nil
}

// AbstractMapClassOf returns the abstract class carried by an object
// opener marker.
func AbstractMapClassOf(m Marker) (MapClass, error) {
	meta, err := lookupMarker(m)
	if err != nil {
		return 0, err
	}
	if meta.container != ContainerObject {
		return 0, fmt.Errorf("%w: marker 0x%02x is not an object container", ErrInternal, byte(m))
	}
	return meta.mapClass, nil
}

// ColumnElemOf returns the element type of a column opener marker.
func ColumnElemOf(m Marker) (ElemType, error) {
	meta, err := lookupMarker(m)
	if err != nil {
		return 0, err
	}
	if meta.container != ContainerColumn {
		return 0, fmt.Errorf("%w: marker 0x%02x is not a column", ErrInternal, byte(m))
	}
	return meta.elem, nil
}

// ContainerKindOf returns which container kind m opens, or ContainerNone
// if m is not a container opener.
func ContainerKindOf(m Marker) ContainerKind {
	meta, err := lookupMarker(m)
	if err != nil {
		return ContainerNone
	}
	return meta.container
}

// IsSorted reports whether a list abstract class is sort-stated.
func (c ListClass) IsSorted() bool {
	return c == ListSortedMultiset || c == ListSortedSet
}

// IsDistinct reports whether a list abstract class declares no
// duplicates.
func (c ListClass) IsDistinct() bool {
	return c == ListUnsortedSet || c == ListSortedSet
}

// IsBase reports whether a list abstract class is the base (unsorted
// multiset) class — every other class is "derived" per the original
// abstract-type classifier.
func (c ListClass) IsBase() bool { return c == ListUnsortedMultiset }

func (c ListClass) String() string {
	switch c {
	case ListUnsortedMultiset:
		return "unsorted-multiset"
	case ListSortedMultiset:
		return "sorted-multiset"
	case ListUnsortedSet:
		return "unsorted-set"
	case ListSortedSet:
		return "sorted-set"
	default:
		return "unknown"
	}
}

// IsSorted reports whether a map abstract class is sort-stated.
func (c MapClass) IsSorted() bool {
	return c == MapSortedMultimap || c == MapSortedMap
}

// IsDistinct reports whether a map abstract class declares unique keys.
func (c MapClass) IsDistinct() bool {
	return c == MapUnsortedMap || c == MapSortedMap
}

// IsBase reports whether a map abstract class is the base (unsorted
// multimap) class.
func (c MapClass) IsBase() bool { return c == MapUnsortedMultimap }

func (c MapClass) String() string {
	switch c {
	case MapUnsortedMultimap:
		return "unsorted-multimap"
	case MapSortedMultimap:
		return "sorted-multimap"
	case MapUnsortedMap:
		return "unsorted-map"
	case MapSortedMap:
		return "sorted-map"
	default:
		return "unknown"
	}
}

// --- column null sentinels -------------------------------------------
//
// Each integer and float width reserves a distinguished bit pattern to
// mean "this slot is null", since a column cannot switch an individual
// slot's marker (it has none). Boolean columns use a three-valued byte
// instead of a sentinel collision.

const (
	nullU8          = 0xFF
	nullU16         = 0xFFFF
	nullU32         = 0xFFFF_FFFF
	nullU64         = 0xFFFF_FFFF_FFFF_FFFF
	nullI8    int8  = -1 << 7
	nullI16   int16 = -1 << 15
	nullI32   int32 = -1 << 31
	nullI64   int64 = -1 << 63
	boolFalse byte  = 0
	boolTrue  byte  = 1
	boolNull  byte  = 2
)

// nullFloatBits is a quiet-NaN bit pattern reserved to mean "null" in a
// float column; it is distinct from the NaN Go's math package produces
// so that a genuine NaN value is never mistaken for null.
const nullFloatBits uint32 = 0x7FC0_0001
