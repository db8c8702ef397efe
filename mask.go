package stockroom

import (
	"iter"
	"math/bits"

	"github.com/TheBitDrifter/bark"
)

const (
	bitsPerWord = 64
	maskWords   = 4

	// MaxComponents is the total number of component ids an IDMask can hold.
	MaxComponents = maskWords * bitsPerWord
)

// IDMask is an ordered set of component ids. Iteration always yields ids in
// ascending order; this ordering is the canonical order used by every table
// the operation helper builds. The zero value is the empty set, and IDMask is
// comparable, so it can serve as a map key.
type IDMask [maskWords]uint64

// NewIDMask builds a mask from the given ids.
func NewIDMask(ids ...ComponentID) IDMask {
	var m IDMask
	for _, id := range ids {
		m.Mark(id)
	}
	return m
}

// Mark adds an id to the mask. Ids beyond MaxComponents cannot be
// represented and are a programming error.
func (m *IDMask) Mark(id ComponentID) {
	if id >= MaxComponents {
		panic(bark.AddTrace(MaskOutOfRangeError{ID: id}))
	}
	m[id/bitsPerWord] |= 1 << (id % bitsPerWord)
}

// Unmark removes an id from the mask.
func (m *IDMask) Unmark(id ComponentID) {
	if id >= MaxComponents {
		return
	}
	m[id/bitsPerWord] &^= 1 << (id % bitsPerWord)
}

// Contains reports whether the mask holds the given id.
func (m IDMask) Contains(id ComponentID) bool {
	word := int(id / bitsPerWord)
	if word >= maskWords {
		return false
	}
	return m[word]&(1<<(id%bitsPerWord)) != 0
}

// ContainsAll reports whether every id of sub is present in m.
func (m IDMask) ContainsAll(sub IDMask) bool {
	for i := range m {
		if m[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

// ContainsAny reports whether m and other share at least one id.
func (m IDMask) ContainsAny(other IDMask) bool {
	for i := range m {
		if m[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// ContainsNone reports whether m and other share no ids.
func (m IDMask) ContainsNone(other IDMask) bool {
	return !m.ContainsAny(other)
}

// IsEmpty reports whether the mask holds no ids.
func (m IDMask) IsEmpty() bool {
	return m == IDMask{}
}

// Count returns the number of ids in the mask.
func (m IDMask) Count() int {
	total := 0
	for _, word := range m {
		total += bits.OnesCount64(word)
	}
	return total
}

// Or returns the union of two masks.
func (m IDMask) Or(other IDMask) IDMask {
	var out IDMask
	for i := range m {
		out[i] = m[i] | other[i]
	}
	return out
}

// And returns the intersection of two masks.
func (m IDMask) And(other IDMask) IDMask {
	var out IDMask
	for i := range m {
		out[i] = m[i] & other[i]
	}
	return out
}

// AndNot returns the ids present in m but not in other.
func (m IDMask) AndNot(other IDMask) IDMask {
	var out IDMask
	for i := range m {
		out[i] = m[i] &^ other[i]
	}
	return out
}

// Items yields the ids of the mask in ascending order.
func (m IDMask) Items() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for word := 0; word < maskWords; word++ {
			w := m[word]
			base := ComponentID(word * bitsPerWord)
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				if !yield(base + ComponentID(bit)) {
					return
				}
				w &= w - 1
			}
		}
	}
}
