package stockroom

type archetypeID uint32

// Archetype is the equivalence class of entities sharing the exact same
// component set. It owns the component columns, the entity list, and the
// operation helper that drives every structural edit on its rows. The
// helper and columns are released with the archetype; no resource outlives
// it.
type Archetype struct {
	id       archetypeID
	mask     IDMask
	helper   *ArchetypeOperationHelper
	columns  []*Column
	entities []Entity
}

func newArchetype(id archetypeID, m IDMask, mm *MemoryManager) (*Archetype, error) {
	helper, err := newOperationHelper(m, mm)
	if err != nil {
		return nil, err
	}
	columns := make([]*Column, helper.Len())
	for i, cid := range helper.indexToID {
		info, err := Info(cid)
		if err != nil {
			return nil, MaskOutOfRangeError{ID: cid}
		}
		columns[i] = newColumn(info, mm, Config.CapacityIncrement())
	}
	return &Archetype{
		id:      id,
		mask:    m,
		helper:  helper,
		columns: columns,
	}, nil
}

// ID returns the archetype's identifier within its storage.
func (a *Archetype) ID() uint32 { return uint32(a.id) }

// Mask returns the component set this archetype represents.
func (a *Archetype) Mask() IDMask { return a.mask }

// Helper returns the archetype's operation helper.
func (a *Archetype) Helper() *ArchetypeOperationHelper { return a.helper }

// Len returns the number of entities stored.
func (a *Archetype) Len() int { return len(a.entities) }

// EntityAt returns the entity occupying the given row.
func (a *Archetype) EntityAt(index uint32) Entity { return a.entities[index] }

// Column returns the column at the given dense component index.
func (a *Archetype) Column(index ComponentIndex) *Column {
	return a.columns[index]
}

// Row assembles the slot pointers of one entity across all columns, in
// canonical order.
func (a *Archetype) Row(index uint32) Row {
	row := make(Row, len(a.columns))
	for i, col := range a.columns {
		row[i] = col.Get(index)
	}
	return row
}

// alloc reserves a zeroed row for entity and returns its index. The row is
// raw storage; callers construct it through the helper.
func (a *Archetype) alloc(entity Entity) uint32 {
	index := uint32(len(a.entities))
	for _, col := range a.columns {
		col.ensure(index + 1)
		col.Zero(index)
	}
	a.entities = append(a.entities, entity)
	return index
}

// create allocates and constructs a row for entity.
func (a *Archetype) create(entity Entity, world *World) uint32 {
	index := a.alloc(entity)
	a.helper.ConstructRow(a.Row(index), entity, world)
	return index
}

// destroy tears down the row at index and compacts the archetype by moving
// the last row into the vacated slot. When a swap happened, the relocated
// entity is returned so the caller can fix its bookkeeping.
func (a *Archetype) destroy(index uint32, entity Entity, world *World) (Entity, bool) {
	a.helper.DestroyRow(a.Row(index), entity, world)
	return a.removeRaw(index)
}

// removeRaw vacates the row at index without destroying it (the slot was
// consumed by a destroy or a transfer) and swap-moves the last row in.
// Trivially movable columns relocate by raw byte copy; the rest go through
// the internal-move table onto a zeroed destination slot.
func (a *Archetype) removeRaw(index uint32) (Entity, bool) {
	last := uint32(len(a.entities) - 1)
	swapped := index != last
	if swapped {
		for ci, col := range a.columns {
			if a.helper.movesByValue[ci] {
				col.rawCopy(index, last)
			} else {
				col.Zero(index)
			}
		}
		dst, src := a.Row(index), a.Row(last)
		a.helper.MoveRowInternal(dst, src)
		a.entities[index] = a.entities[last]
	}
	a.entities = a.entities[:last]
	if swapped {
		return a.entities[index], true
	}
	return Entity{}, false
}

// transferTo relocates the entity at index into dst, running the external
// move on the destination side and destroying the components this archetype
// keeps to itself. Returns the destination row index plus the entity that
// was swapped into the vacated source row, if any.
func (a *Archetype) transferTo(dst *Archetype, index uint32, entity Entity, world *World) (uint32, Entity, bool) {
	dstIndex := dst.alloc(entity)
	dstRow, srcRow := dst.Row(dstIndex), a.Row(index)
	dst.helper.MoveRowExternal(dstRow, srcRow, entity, world, a.helper)
	a.helper.DestroyOrphans(srcRow, entity, world, dst.helper)
	swapped, hasSwap := a.removeRaw(index)
	return dstIndex, swapped, hasSwap
}
