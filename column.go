package stockroom

import (
	"reflect"
	"unsafe"
)

// Row is a horizontal slice across an archetype's columns for one entity:
// one raw slot pointer per ComponentIndex, in canonical order.
type Row []unsafe.Pointer

// Column is a contiguous, type-erased buffer holding one component type for
// every entity in an archetype. It localizes the unsafe slot arithmetic; the
// operation helper works through the raw pointers it vends while typed views
// go through ComponentAccessor.
type Column struct {
	info     *ComponentInfo
	mm       *MemoryManager
	buffer   reflect.Value
	base     unsafe.Pointer
	itemSize uintptr
	cap      uint32
}

func newColumn(info *ComponentInfo, mm *MemoryManager, capacity int) *Column {
	if capacity < 1 {
		capacity = 1
	}
	// Stride is the component size rounded up to its alignment so slots
	// stay aligned at every index.
	size, align := info.size, info.align
	stride := (size + (align - 1)) / align * align

	buffer := mm.alloc(info.typ, capacity)
	return &Column{
		info:     info,
		mm:       mm,
		buffer:   buffer,
		base:     buffer.Addr().UnsafePointer(),
		itemSize: stride,
		cap:      uint32(capacity),
	}
}

// Info returns the component this column stores.
func (c *Column) Info() *ComponentInfo { return c.info }

// Cap returns the current slot capacity.
func (c *Column) Cap() uint32 { return c.cap }

// Get returns the raw slot pointer at index.
func (c *Column) Get(index uint32) unsafe.Pointer {
	if c.itemSize == 0 {
		return c.base
	}
	return unsafe.Add(c.base, uintptr(index)*c.itemSize)
}

// Zero resets the slot at index to the zero byte pattern.
func (c *Column) Zero(index uint32) {
	zeroBytes(c.Get(index), c.itemSize)
}

// rawCopy byte-copies the slot at src into dst. Used for trivially movable
// components during swap-remove.
func (c *Column) rawCopy(dst, src uint32) {
	if c.itemSize == 0 || dst == src {
		return
	}
	copyBytes(c.Get(dst), c.Get(src), c.itemSize)
}

// ensure grows the column so index fits, preserving existing slots.
func (c *Column) ensure(needed uint32) {
	if needed <= c.cap {
		return
	}
	increment := uint32(Config.CapacityIncrement())
	newCap := increment * ((c.cap + increment) / increment)
	if newCap < needed {
		newCap = needed
	}

	old := c.buffer
	c.buffer = c.mm.alloc(c.info.typ, int(newCap))
	c.base = c.buffer.Addr().UnsafePointer()
	c.cap = newCap
	reflect.Copy(c.buffer, old)
}
