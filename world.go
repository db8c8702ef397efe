package stockroom

import "sync/atomic"

// WorldID uniquely identifies a world within the process.
type WorldID uint32

// WorldVersion is a monotonic counter bumped on every structural change:
// archetype creation, entity creation and destruction, component add and
// remove.
type WorldVersion uint64

var worldIDCounter atomic.Uint32

// NextWorldID vends the next unique world id.
func NextWorldID() WorldID {
	return WorldID(worldIDCounter.Add(1))
}

// WorldContext carries the resources shared by a world: the allocator behind
// its archetype columns and the dispatcher behind parallel system fan-out.
// Contexts may be shared between worlds.
type WorldContext struct {
	MemoryManager *MemoryManager
	Dispatcher    *Dispatcher
}

// World owns an entity manager, a lazily-constructed system manager, and the
// shared memory manager and dispatcher. Structural operations on a world are
// single-threaded; the dispatcher is only a fan-out lane for read-only work.
type World struct {
	id       WorldID
	version  uint64
	ctx      WorldContext
	entities *entityManager
	systems  *SystemManager
	paused   bool
}

// NewWorld creates a world with a fresh context.
func NewWorld() *World {
	return NewWorldWithContext(WorldContext{})
}

// NewWorldWithContext creates a world sharing the given context. Missing
// context members are constructed lazily on first use.
func NewWorldWithContext(ctx WorldContext) *World {
	w := &World{
		id:  NextWorldID(),
		ctx: ctx,
	}
	w.entities = newEntityManager(w)
	return w
}

// ID returns the world's unique identifier.
func (w *World) ID() WorldID { return w.id }

// Version returns the current structural version.
func (w *World) Version() WorldVersion {
	return WorldVersion(atomic.LoadUint64(&w.version))
}

func (w *World) bumpVersion() {
	atomic.AddUint64(&w.version, 1)
}

// Entities returns the world's entity storage.
func (w *World) Entities() Storage { return w.entities }

// Systems returns the system manager, constructing it on first use.
func (w *World) Systems() *SystemManager {
	if w.systems == nil {
		w.systems = newSystemManager(w)
	}
	return w.systems
}

// MemoryManager returns the shared memory manager, constructing it on first
// use.
func (w *World) MemoryManager() *MemoryManager {
	if w.ctx.MemoryManager == nil {
		w.ctx.MemoryManager = NewMemoryManager()
	}
	return w.ctx.MemoryManager
}

// Dispatcher returns the shared dispatcher, constructing it on first use.
func (w *World) Dispatcher() *Dispatcher {
	if w.ctx.Dispatcher == nil {
		w.ctx.Dispatcher = NewDispatcher(0)
	}
	return w.ctx.Dispatcher
}

// Init performs one-time setup of the registered systems.
func (w *World) Init() error {
	return w.Systems().Init()
}

// Update advances the world by dt. Updates are skipped while paused.
func (w *World) Update(dt float64) error {
	if w.paused {
		return nil
	}
	return w.Systems().Update(dt)
}

// Pause stops Update from running systems until Resume.
func (w *World) Pause() { w.paused = true }

// Resume lifts a Pause.
func (w *World) Resume() { w.paused = false }

// Paused reports whether the world is paused.
func (w *World) Paused() bool { return w.paused }
