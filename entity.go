package stockroom

// EntityID is the stable numeric identifier of an entity within a world.
type EntityID uint32

// Entity is an opaque handle to a game object: an id plus the version it was
// vended with. A destroyed id is recycled under a bumped version, so stale
// handles fail validity checks instead of touching the wrong entity.
type Entity struct {
	ID      EntityID
	Version uint32
}

// EntityDestroyCallback is called when an entity is destroyed.
type EntityDestroyCallback func(Entity)

// entityMeta is the manager's bookkeeping for one entity id.
type entityMeta struct {
	archetype *Archetype
	index     uint32
	version   uint32
	alive     bool
	onDestroy EntityDestroyCallback
}
