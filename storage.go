package stockroom

import (
	"fmt"
	"reflect"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// Ensure entityManager implements Storage interface
var _ Storage = &entityManager{}

// entityManager implements the Storage interface. It vends entity handles,
// coordinates archetype transitions through the operation helpers, and
// defers structural edits while iteration locks are held.
type entityManager struct {
	world          *World
	locks          mask.Mask256
	metas          []entityMeta
	freeIDs        []EntityID
	archetypes     *archetypes
	operationQueue EntityOperationsQueue
}

// archetypes manages archetype collections and identification
type archetypes struct {
	nextID           archetypeID
	asSlice          []*Archetype
	idsGroupedByMask map[IDMask]archetypeID
}

func newEntityManager(world *World) *entityManager {
	return &entityManager{
		world: world,
		archetypes: &archetypes{
			nextID:           1,
			idsGroupedByMask: make(map[IDMask]archetypeID),
		},
		operationQueue: &entityOperationsQueue{},
	}
}

// NewOrExistingArchetype gets an existing archetype matching the mask or
// creates a new one.
func (em *entityManager) NewOrExistingArchetype(m IDMask) (*Archetype, error) {
	if id, found := em.archetypes.idsGroupedByMask[m]; found {
		return em.archetypes.asSlice[id-1], nil
	}
	created, err := newArchetype(em.archetypes.nextID, m, em.world.MemoryManager())
	if err != nil {
		return nil, err
	}
	em.archetypes.asSlice = append(em.archetypes.asSlice, created)
	em.archetypes.idsGroupedByMask[m] = created.id
	em.archetypes.nextID++
	em.world.bumpVersion()
	return created, nil
}

// NewEntity creates a single entity with the specified components.
func (em *entityManager) NewEntity(components ...ComponentID) (Entity, error) {
	entities, err := em.NewEntities(1, components...)
	if err != nil {
		return Entity{}, err
	}
	return entities[0], nil
}

// NewEntities creates n new entities with the specified components.
func (em *entityManager) NewEntities(n int, components ...ComponentID) ([]Entity, error) {
	if em.Locked() {
		return nil, LockedStorageError{}
	}
	m, err := em.maskFor(components)
	if err != nil {
		return nil, err
	}
	arch, err := em.NewOrExistingArchetype(m)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, n)
	for i := range entities {
		e := em.allocEntity()
		index := arch.create(e, em.world)
		meta := &em.metas[e.ID]
		meta.archetype = arch
		meta.index = index
		entities[i] = e
	}
	em.world.bumpVersion()
	return entities, nil
}

// DestroyEntity removes an entity and tears down its row.
func (em *entityManager) DestroyEntity(e Entity) error {
	if em.Locked() {
		return LockedStorageError{}
	}
	meta, ok := em.meta(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	if meta.onDestroy != nil {
		meta.onDestroy(e)
		meta.onDestroy = nil
	}

	arch := meta.archetype
	swapped, hasSwap := arch.destroy(meta.index, e, em.world)
	if hasSwap {
		em.metas[swapped.ID].index = meta.index
	}

	meta.alive = false
	meta.archetype = nil
	meta.version++
	em.freeIDs = append(em.freeIDs, e.ID)
	em.world.bumpVersion()
	return nil
}

// Alive reports whether the handle still refers to a live entity.
func (em *entityManager) Alive(e Entity) bool {
	_, ok := em.meta(e)
	return ok
}

// Has reports whether the entity currently holds the component.
func (em *entityManager) Has(e Entity, id ComponentID) bool {
	meta, ok := em.meta(e)
	if !ok {
		return false
	}
	return meta.archetype.mask.Contains(id)
}

// AddComponent moves the entity to the archetype that additionally holds id,
// constructing the new component fresh.
func (em *entityManager) AddComponent(e Entity, id ComponentID) error {
	_, err := em.addComponent(e, id)
	return err
}

// AddComponentWithValue adds a component and overwrites it with an initial
// value.
func (em *entityManager) AddComponentWithValue(e Entity, id ComponentID, value any) error {
	meta, err := em.addComponent(e, id)
	if err != nil {
		return err
	}
	arch := meta.archetype
	index, _ := arch.helper.IndexOf(id)
	col := arch.columns[index]

	rv := reflect.ValueOf(value)
	if rv.Type() != col.info.typ {
		return fmt.Errorf("invalid value type %v for component %v", rv.Type(), col.info.name)
	}
	reflect.NewAt(col.info.typ, col.Get(meta.index)).Elem().Set(rv)
	return nil
}

func (em *entityManager) addComponent(e Entity, id ComponentID) (*entityMeta, error) {
	if em.Locked() {
		return nil, LockedStorageError{}
	}
	meta, ok := em.meta(e)
	if !ok {
		return nil, EntityNotFoundError{Entity: e}
	}
	if _, err := Info(id); err != nil {
		return nil, err
	}
	if meta.archetype.mask.Contains(id) {
		return meta, nil
	}

	newMask := meta.archetype.mask
	newMask.Mark(id)
	return meta, em.transfer(meta, e, newMask)
}

// RemoveComponent moves the entity to the archetype without id, destroying
// the removed component on the way out.
func (em *entityManager) RemoveComponent(e Entity, id ComponentID) error {
	if em.Locked() {
		return LockedStorageError{}
	}
	meta, ok := em.meta(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	if !meta.archetype.mask.Contains(id) {
		return nil
	}

	newMask := meta.archetype.mask
	newMask.Unmark(id)
	return em.transfer(meta, e, newMask)
}

func (em *entityManager) transfer(meta *entityMeta, e Entity, newMask IDMask) error {
	dst, err := em.NewOrExistingArchetype(newMask)
	if err != nil {
		return fmt.Errorf("failed to get/create archetype: %w", err)
	}
	src := meta.archetype
	dstIndex, swapped, hasSwap := src.transferTo(dst, meta.index, e, em.world)
	if hasSwap {
		em.metas[swapped.ID].index = meta.index
	}
	meta.archetype = dst
	meta.index = dstIndex
	em.world.bumpVersion()
	return nil
}

// EnqueueNewEntities either creates entities immediately or queues creation
// if storage is locked.
func (em *entityManager) EnqueueNewEntities(count int, components ...ComponentID) error {
	if !em.Locked() {
		_, err := em.NewEntities(count, components...)
		if err != nil {
			return fmt.Errorf("failed to create entities directly: %w", err)
		}
		return nil
	}
	em.operationQueue.Enqueue(
		NewEntityOperation{
			count:      count,
			components: components,
		},
	)
	return nil
}

// EnqueueDestroyEntity either destroys the entity immediately or queues
// destruction if storage is locked.
func (em *entityManager) EnqueueDestroyEntity(e Entity) error {
	if !em.Locked() {
		return em.DestroyEntity(e)
	}
	em.operationQueue.Enqueue(DestroyEntityOperation{entity: e})
	return nil
}

// EnqueueAddComponent queues a component addition or executes immediately if
// storage isn't locked.
func (em *entityManager) EnqueueAddComponent(e Entity, id ComponentID) error {
	if !em.Locked() {
		return em.AddComponent(e, id)
	}
	em.operationQueue.Enqueue(AddComponentOperation{entity: e, component: id})
	return nil
}

// EnqueueAddComponentWithValue queues a component addition with value or
// executes immediately.
func (em *entityManager) EnqueueAddComponentWithValue(e Entity, id ComponentID, value any) error {
	if !em.Locked() {
		return em.AddComponentWithValue(e, id, value)
	}
	em.operationQueue.Enqueue(AddComponentOperation{entity: e, component: id, value: value})
	return nil
}

// EnqueueRemoveComponent queues a component removal or executes immediately
// if storage isn't locked.
func (em *entityManager) EnqueueRemoveComponent(e Entity, id ComponentID) error {
	if !em.Locked() {
		return em.RemoveComponent(e, id)
	}
	em.operationQueue.Enqueue(RemoveComponentOperation{entity: e, component: id})
	return nil
}

// SetDestroyCallback sets the callback invoked when the entity is destroyed.
func (em *entityManager) SetDestroyCallback(e Entity, callback EntityDestroyCallback) error {
	meta, ok := em.meta(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	meta.onDestroy = callback
	return nil
}

// ArchetypeOf returns the archetype and row index currently holding the
// entity.
func (em *entityManager) ArchetypeOf(e Entity) (*Archetype, uint32, bool) {
	meta, ok := em.meta(e)
	if !ok {
		return nil, 0, false
	}
	return meta.archetype, meta.index, true
}

// Archetypes returns all archetypes in this storage.
func (em *entityManager) Archetypes() []*Archetype {
	return em.archetypes.asSlice
}

// Locked checks if the storage is currently locked.
func (em *entityManager) Locked() bool {
	return !em.locks.IsEmpty()
}

func (em *entityManager) AddLock(bit uint32) {
	em.locks.Mark(bit)
}

// RemoveLock releases a specific bit lock and processes queued operations if
// fully unlocked.
func (em *entityManager) RemoveLock(bit uint32) {
	em.locks.Unmark(bit)

	// Only process operations if no locks remain
	if em.locks.IsEmpty() {
		err := em.operationQueue.ProcessAll(em)
		if err != nil {
			panic(bark.AddTrace(fmt.Errorf("error processing queued operations: %w", err)))
		}
	}
}

// Enqueue adds an operation to the queue.
func (em *entityManager) Enqueue(op EntityOperation) {
	em.operationQueue.Enqueue(op)
}

func (em *entityManager) meta(e Entity) (*entityMeta, bool) {
	if int(e.ID) >= len(em.metas) {
		return nil, false
	}
	meta := &em.metas[e.ID]
	if !meta.alive || meta.version != e.Version {
		return nil, false
	}
	return meta, true
}

func (em *entityManager) allocEntity() Entity {
	if n := len(em.freeIDs); n > 0 {
		id := em.freeIDs[n-1]
		em.freeIDs = em.freeIDs[:n-1]
		meta := &em.metas[id]
		meta.alive = true
		return Entity{ID: id, Version: meta.version}
	}
	id := EntityID(len(em.metas))
	em.metas = append(em.metas, entityMeta{version: 1, alive: true})
	return Entity{ID: id, Version: 1}
}

func (em *entityManager) maskFor(components []ComponentID) (IDMask, error) {
	var m IDMask
	registered := ComponentID(RegisteredCount())
	for _, id := range components {
		if id >= registered {
			return IDMask{}, MaskOutOfRangeError{ID: id}
		}
		m.Mark(id)
	}
	return m, nil
}
