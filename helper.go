package stockroom

import (
	"unsafe"

	"github.com/kamstrup/intmap"
)

// InsertInfo constructs one non-trivial component during row construction.
type InsertInfo struct {
	Create CreateFunc
	Index  ComponentIndex
}

// CreateWithValueInfo initializes one component from its default byte
// pattern. A component lands here only when it has no create function but a
// non-empty default; the insert and create-with-value tables are disjoint.
type CreateWithValueInfo struct {
	Value []byte
	Index ComponentIndex
}

// DestroyInfo destroys one non-trivially-destructible component.
type DestroyInfo struct {
	Destroy DestroyFunc
	Index   ComponentIndex
}

// InternalMoveInfo move-assigns one component between rows of the same
// archetype. Trivially movable components are byte-copied by the caller and
// never appear here.
type InternalMoveInfo struct {
	Move  MoveFunc
	Index ComponentIndex
}

// ExternalMoveInfo relocates or freshly initializes one component during an
// archetype transition. Every component of the archetype has exactly one
// entry.
type ExternalMoveInfo struct {
	Create        CreateFunc
	MoveConstruct MoveFunc
	ID            ComponentID
	Size          uintptr
	DefaultData   []byte
}

// HookInfo fires a user lifecycle hook for one component.
type HookInfo struct {
	Hook  HookFunc
	Index ComponentIndex
}

// ArchetypeOperationHelper is a precomputed per-archetype dispatch table.
// Given only type-erased component ids it executes construct, destroy, and
// relocation operations over raw rows with no per-operation type dispatch.
// It is immutable after construction and performs no synchronization; it
// assumes exclusive access to the rows it operates on.
//
// Every table iterates in the ascending-ComponentID order of the mask; this
// is the canonical order observable through user hooks.
type ArchetypeOperationHelper struct {
	mask      IDMask
	idToIndex *intmap.Map[ComponentID, ComponentIndex]
	indexToID []ComponentID

	insert          []InsertInfo
	createWithValue []CreateWithValueInfo
	destroy         []DestroyInfo
	internalMove    []InternalMoveInfo
	externalMove    []ExternalMoveInfo

	beforeRemove []HookInfo
	afterAssign  []HookInfo

	movesByValue []bool
}

// newOperationHelper builds the helper in a single pass over mask in
// ascending-id order, assigning dense ComponentIndex values 0,1,2,... and
// appending to each table iff the corresponding function is populated.
func newOperationHelper(m IDMask, mm *MemoryManager) (*ArchetypeOperationHelper, error) {
	count := m.Count()
	h := &ArchetypeOperationHelper{
		mask:         m,
		idToIndex:    intmap.New[ComponentID, ComponentIndex](count),
		indexToID:    make([]ComponentID, 0, count),
		externalMove: make([]ExternalMoveInfo, 0, count),
		movesByValue: make([]bool, 0, count),
	}

	index := ComponentIndex(0)
	for id := range m.Items() {
		info, err := Info(id)
		if err != nil {
			return nil, MaskOutOfRangeError{ID: id}
		}
		h.indexToID = append(h.indexToID, id)
		h.idToIndex.Put(id, index)

		fns := info.functions
		if fns.Create != nil {
			h.insert = append(h.insert, InsertInfo{
				Create: fns.Create,
				Index:  index,
			})
		} else if len(info.defaultValue) > 0 {
			h.createWithValue = append(h.createWithValue, CreateWithValueInfo{
				Value: info.defaultValue,
				Index: index,
			})
		}
		if fns.Destroy != nil {
			h.destroy = append(h.destroy, DestroyInfo{
				Destroy: fns.Destroy,
				Index:   index,
			})
		}
		if fns.Move != nil {
			h.internalMove = append(h.internalMove, InternalMoveInfo{
				Move:  fns.Move,
				Index: index,
			})
		}
		external := ExternalMoveInfo{
			Create:        fns.Create,
			MoveConstruct: fns.MoveConstruct,
			ID:            id,
			Size:          info.size,
		}
		if len(info.defaultValue) > 0 {
			external.DefaultData = info.defaultValue
		}
		h.externalMove = append(h.externalMove, external)

		if fns.BeforeRemove != nil {
			h.beforeRemove = append(h.beforeRemove, HookInfo{Hook: fns.BeforeRemove, Index: index})
		}
		if fns.AfterAssign != nil {
			h.afterAssign = append(h.afterAssign, HookInfo{Hook: fns.AfterAssign, Index: index})
		}
		h.movesByValue = append(h.movesByValue, fns.Move == nil)

		index++
	}

	if mm != nil {
		mm.track(int64(unsafe.Sizeof(InsertInfo{}))*int64(len(h.insert)) +
			int64(unsafe.Sizeof(CreateWithValueInfo{}))*int64(len(h.createWithValue)) +
			int64(unsafe.Sizeof(DestroyInfo{}))*int64(len(h.destroy)) +
			int64(unsafe.Sizeof(InternalMoveInfo{}))*int64(len(h.internalMove)) +
			int64(unsafe.Sizeof(ExternalMoveInfo{}))*int64(len(h.externalMove)))
	}
	return h, nil
}

// Mask returns the component set this helper serves.
func (h *ArchetypeOperationHelper) Mask() IDMask { return h.mask }

// Len returns the number of components in the archetype.
func (h *ArchetypeOperationHelper) Len() int { return len(h.indexToID) }

// IndexOf maps a sparse component id to its dense index in this archetype.
func (h *ArchetypeOperationHelper) IndexOf(id ComponentID) (ComponentIndex, bool) {
	return h.idToIndex.Get(id)
}

// IDAt maps a dense index back to its sparse component id.
func (h *ArchetypeOperationHelper) IDAt(index ComponentIndex) ComponentID {
	return h.indexToID[index]
}

// Insert returns the non-trivial construction table.
func (h *ArchetypeOperationHelper) Insert() []InsertInfo { return h.insert }

// CreateWithValue returns the default-pattern initialization table.
func (h *ArchetypeOperationHelper) CreateWithValue() []CreateWithValueInfo {
	return h.createWithValue
}

// Destroy returns the non-trivial destruction table.
func (h *ArchetypeOperationHelper) Destroy() []DestroyInfo { return h.destroy }

// InternalMove returns the non-trivial same-archetype move table.
func (h *ArchetypeOperationHelper) InternalMove() []InternalMoveInfo {
	return h.internalMove
}

// ExternalMove returns the cross-archetype relocation table; it has exactly
// one entry per component in the archetype.
func (h *ArchetypeOperationHelper) ExternalMove() []ExternalMoveInfo {
	return h.externalMove
}

// MovesByValue reports whether the component at index relocates by raw byte
// copy during swap-remove.
func (h *ArchetypeOperationHelper) MovesByValue(index ComponentIndex) bool {
	return h.movesByValue[index]
}

// ConstructRow initializes a freshly allocated, zeroed row: create functions
// run for non-trivial components, default patterns are byte-copied, and
// after-assign hooks fire last. Trivially default-constructible components
// with no default pattern are left zeroed and never touched.
func (h *ArchetypeOperationHelper) ConstructRow(row Row, entity Entity, world *World) {
	for _, in := range h.insert {
		in.Create(row[in.Index], entity, world)
	}
	for _, cv := range h.createWithValue {
		copy(unsafe.Slice((*byte)(row[cv.Index]), len(cv.Value)), cv.Value)
	}
	for _, hk := range h.afterAssign {
		hk.Hook(row[hk.Index], entity, world)
	}
}

// DestroyRow tears down a constructed row: before-remove hooks fire first,
// then the non-trivial destructors, all in canonical order.
func (h *ArchetypeOperationHelper) DestroyRow(row Row, entity Entity, world *World) {
	for _, hk := range h.beforeRemove {
		hk.Hook(row[hk.Index], entity, world)
	}
	for _, d := range h.destroy {
		d.Destroy(row[d.Index])
	}
}

// MoveRowInternal move-assigns the non-trivially-movable components from src
// into dst, two rows of the same archetype. The caller byte-copies the rest
// and must hand in a dst whose non-trivial slots hold constructed (zeroed is
// fine) values.
func (h *ArchetypeOperationHelper) MoveRowInternal(dst, src Row) {
	for _, mv := range h.internalMove {
		mv.Move(dst[mv.Index], src[mv.Index])
	}
}

// MoveRowExternal relocates an entity's data into this (destination)
// archetype. dst must be a zeroed raw row; src holds constructed components
// of the source archetype. Components present in both archetypes are
// move-constructed from their source slots, leaving those slots zeroed.
// Components new to the destination are constructed fresh, via their create
// function, their default pattern, or by staying zeroed, and then receive
// their after-assign hook.
func (h *ArchetypeOperationHelper) MoveRowExternal(dst, src Row, entity Entity, world *World, srcHelper *ArchetypeOperationHelper) {
	for i, em := range h.externalMove {
		index := ComponentIndex(i)
		if srcIndex, ok := srcHelper.IndexOf(em.ID); ok {
			em.MoveConstruct(dst[index], src[srcIndex])
			continue
		}
		if em.Create != nil {
			em.Create(dst[index], entity, world)
		} else if em.DefaultData != nil {
			copy(unsafe.Slice((*byte)(dst[index]), len(em.DefaultData)), em.DefaultData)
		}
	}
	for _, hk := range h.afterAssign {
		if _, shared := srcHelper.IndexOf(h.indexToID[hk.Index]); !shared {
			hk.Hook(dst[hk.Index], entity, world)
		}
	}
}

// DestroyOrphans tears down the components of src (a row of this helper's
// archetype) that do not exist in the destination archetype: before-remove
// hooks fire, then destructors, in canonical order. Components shared with
// the destination were consumed by MoveRowExternal and are left alone.
func (h *ArchetypeOperationHelper) DestroyOrphans(src Row, entity Entity, world *World, dstHelper *ArchetypeOperationHelper) {
	for _, hk := range h.beforeRemove {
		if _, kept := dstHelper.IndexOf(h.indexToID[hk.Index]); !kept {
			hk.Hook(src[hk.Index], entity, world)
		}
	}
	for _, d := range h.destroy {
		if _, kept := dstHelper.IndexOf(h.indexToID[d.Index]); !kept {
			d.Destroy(src[d.Index])
		}
	}
}
