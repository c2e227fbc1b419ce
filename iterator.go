// Copyright 2026 The Carbon Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package carbon

// iterState is the shared three-state machine every carbon iterator
// moves through: BeforeFirst -> AtField(i) -> AfterLast (C4).
type iterState uint8

const (
	stateBeforeFirst iterState = iota
	stateAtField
	stateAfterLast
)

// base is embedded by ArrayIterator, ObjectIterator, and ColumnIterator.
// It owns the shared bookkeeping: the byte cursor, the per-container
// lock token, position history, and mod_size propagation to a parent
// iterator on drop.
type base struct {
	bf          *ByteFile
	beginOffset int // offset of this container's opener marker
	payload     int // offset of the first possible field / slot
	pos         int // cursor: meaningful as "current field offset" in AtField
	history     []int
	state       iterState
	modSize     int
	parent      *base
	dropped     bool
}

func newBase(bf *ByteFile, beginOffset, payload int, parent *base) (*base, error) {
	if err := bf.Lock(beginOffset); err != nil {
		return nil, err
	}
	return &base{
		bf:          bf,
		beginOffset: beginOffset,
		payload:     payload,
		pos:         payload,
		state:       stateBeforeFirst,
		parent:      parent,
	}, nil
}

// Tell returns the cursor's current absolute offset.
func (b *base) Tell() int { return b.pos }

// Rewind resets the iterator to BeforeFirst at the start of the
// container's payload, discarding position history.
func (b *base) Rewind() {
	b.pos = b.payload
	b.history = b.history[:0]
	b.state = stateBeforeFirst
}

// ModSize returns the net byte delta this iterator (and any children it
// has already dropped) has applied to its container.
func (b *base) ModSize() int { return b.modSize }

func (b *base) addModSize(delta int) { b.modSize += delta }

// Drop releases the container lock and, if this iterator was opened as
// a nested child, propagates its accumulated mod_size to the parent so
// the parent's own bookkeeping stays correct (spec §5: "mod_size
// propagation from child to parent is mandatory"). Drop is idempotent.
func (b *base) Drop() {
	if b.dropped {
		return
	}
	b.dropped = true
	b.bf.Unlock(b.beginOffset)
	if b.parent != nil {
		b.parent.addModSize(b.modSize)
	}
}

// pushHistory records the offset of a field just left behind, so Prev
// can return to it.
func (b *base) pushHistory(offset int) {
	b.history = append(b.history, offset)
}

// popHistory returns the most recently visited field offset, if any.
func (b *base) popHistory() (int, bool) {
	n := len(b.history)
	if n == 0 {
		return 0, false
	}
	off := b.history[n-1]
	b.history = b.history[:n-1]
	return off, true
}
