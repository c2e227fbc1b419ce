// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

import "errors"

// Sentinel errors for the taxonomy of kinds a carbon operation can fail
// with. Callers should compare with errors.Is; operations wrap one of
// these with positional detail via fmt.Errorf("...: %w", ...).
var (
	// ErrMalformedDocument is returned when an unknown marker, a truncated
	// payload, or a missing container end marker is encountered.
	ErrMalformedDocument = errors.New("carbon: malformed document")

	// ErrTypeMismatch is returned when a typed accessor or column append
	// disagrees with the in-wire type.
	ErrTypeMismatch = errors.New("carbon: type mismatch")

	// ErrOutOfBounds is returned for a column or array index past the
	// last live slot.
	ErrOutOfBounds = errors.New("carbon: index out of bounds")

	// ErrUnsupportedContainer is returned when an operation is invoked in
	// the wrong container context (e.g. a key-prefixed append outside an
	// object).
	ErrUnsupportedContainer = errors.New("carbon: unsupported container context")

	// ErrNoSuchKey is returned when path evaluation does not find a
	// matching object property.
	ErrNoSuchKey = errors.New("carbon: no such key")

	// ErrNoSuchIndex is returned when path evaluation does not find a
	// matching array or column index.
	ErrNoSuchIndex = errors.New("carbon: no such index")

	// ErrNotAnObject is returned when a key-name path node is evaluated
	// against a non-object container.
	ErrNotAnObject = errors.New("carbon: not an object")

	// ErrNotAContainer is returned when the path continues past a leaf
	// value.
	ErrNotAContainer = errors.New("carbon: not a container")

	// ErrNotTraversable is returned when a path descends into a field
	// type that carries no nested structure of its own.
	ErrNotTraversable = errors.New("carbon: not traversable")

	// ErrNoNestingPossible is returned when a path continues past a
	// column, which cannot nest further containers.
	ErrNoNestingPossible = errors.New("carbon: no nesting possible past a column")

	// ErrDotPathParse is returned when a path string cannot be compiled.
	ErrDotPathParse = errors.New("carbon: dot-path parse error")

	// ErrInsertTooDangerous is returned when a width-selecting convenience
	// (Unsigned/Signed) is called inside a column context.
	ErrInsertTooDangerous = errors.New("carbon: insert too dangerous inside column")

	// ErrInternal marks a failed invariant check; it is always a bug.
	ErrInternal = errors.New("carbon: internal error")

	// ErrNoSavedPosition is returned by RestorePosition when the save
	// stack is empty.
	ErrNoSavedPosition = errors.New("carbon: no saved position to restore")

	// ErrEmptyDocument is returned when path evaluation is attempted
	// against a document with no record body.
	ErrEmptyDocument = errors.New("carbon: empty document")
)
