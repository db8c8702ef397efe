package stockroom

// factory implements the factory pattern for stockroom components.
type factory struct{}

// Factory is the global factory instance for creating stockroom components.
var Factory factory

// NewWorld creates a new World with a fresh context.
func (f factory) NewWorld() *World {
	return NewWorld()
}

// NewWorldWithContext creates a new World sharing the given context.
func (f factory) NewWorldWithContext(ctx WorldContext) *World {
	return NewWorldWithContext(ctx)
}

// NewMemoryManager creates a new MemoryManager instance.
func (f factory) NewMemoryManager() *MemoryManager {
	return NewMemoryManager()
}

// NewDispatcher creates a new Dispatcher with the given worker count.
func (f factory) NewDispatcher(workers int) *Dispatcher {
	return NewDispatcher(workers)
}

// NewOperationHelper builds a standalone operation helper for the given mask.
// Archetypes build their own; this entry point serves callers bringing their
// own columnar storage.
func (f factory) NewOperationHelper(m IDMask, mm *MemoryManager) (*ArchetypeOperationHelper, error) {
	if mm == nil {
		mm = NewMemoryManager()
	}
	return newOperationHelper(m, mm)
}

// FactoryNewAccessor registers T if needed and returns a typed accessor for
// its column slots.
func FactoryNewAccessor[T any]() (ComponentAccessor[T], error) {
	id, err := Register[T]()
	if err != nil {
		return ComponentAccessor[T]{}, err
	}
	return ComponentAccessor[T]{id: id}, nil
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
