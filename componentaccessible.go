package stockroom

// ComponentAccessor provides typed views into the raw columns for component
// type T. It is the safe boundary over the byte slots the operation helper
// works on.
type ComponentAccessor[T any] struct {
	id ComponentID
}

// ID returns the accessor's component id.
func (c ComponentAccessor[T]) ID() ComponentID {
	return c.id
}

// Get retrieves the entity's component, if the entity is alive and holds it.
// The pointer stays valid until the next structural change of the world.
func (c ComponentAccessor[T]) Get(world *World, e Entity) (*T, bool) {
	arch, index, ok := world.Entities().ArchetypeOf(e)
	if !ok {
		return nil, false
	}
	return c.GetFromArchetype(arch, index)
}

// GetFromArchetype retrieves the component at the given row of an archetype.
func (c ComponentAccessor[T]) GetFromArchetype(arch *Archetype, index uint32) (*T, bool) {
	componentIndex, ok := arch.helper.IndexOf(c.id)
	if !ok {
		return nil, false
	}
	return (*T)(arch.columns[componentIndex].Get(index)), true
}

// Check determines if the component exists in the archetype.
func (c ComponentAccessor[T]) Check(arch *Archetype) bool {
	_, ok := arch.helper.IndexOf(c.id)
	return ok
}
