package stockroom

import (
	"reflect"
	"sync/atomic"
)

// MemoryManager allocates the backing storage for archetype columns and
// records the size of operation tables, which are ordinary Go slices it does
// not allocate. Column allocations are GC-visible reflect arrays, so component
// values holding pointers keep their referents alive. The manager only
// tracks usage; references to prior allocations stay valid for as long as
// their owners hold them.
type MemoryManager struct {
	buffers atomic.Int64
	bytes   atomic.Int64
}

// MemoryStats is a point-in-time snapshot of a manager's usage.
type MemoryStats struct {
	Buffers int64
	Bytes   int64
}

// NewMemoryManager creates an empty MemoryManager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{}
}

// alloc returns a new addressable array of capacity elements of typ.
func (m *MemoryManager) alloc(typ reflect.Type, capacity int) reflect.Value {
	m.buffers.Add(1)
	m.bytes.Add(int64(typ.Size()) * int64(capacity))
	return reflect.New(reflect.ArrayOf(capacity, typ)).Elem()
}

// track records table backing storage that was allocated outside alloc.
func (m *MemoryManager) track(bytes int64) {
	if bytes == 0 {
		return
	}
	m.buffers.Add(1)
	m.bytes.Add(bytes)
}

// Stats returns the current allocation counters.
func (m *MemoryManager) Stats() MemoryStats {
	return MemoryStats{
		Buffers: m.buffers.Load(),
		Bytes:   m.bytes.Load(),
	}
}
