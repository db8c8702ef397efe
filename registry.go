package stockroom

import (
	"bytes"
	"hash/fnv"
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// registry is the process-wide component registry. It is append-only: a type
// is assigned a ComponentID the first time it is observed and the resulting
// ComponentInfo is immutable for the process lifetime.
type registry struct {
	mu     sync.RWMutex
	infos  []*ComponentInfo
	byType map[reflect.Type]ComponentID
	byHash map[uint64]ComponentID
	names  Cache[ComponentID]
}

var globalRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{
		byType: make(map[reflect.Type]ComponentID, MaxComponents),
		byHash: make(map[uint64]ComponentID, MaxComponents),
		names:  FactoryNewCache[ComponentID](MaxComponents),
	}
}

// Register assigns a stable ComponentID to T, synthesizing its FunctionSet
// from the lifecycle interfaces *T implements. Registration is idempotent:
// subsequent calls return the stored id.
func Register[T any]() (ComponentID, error) {
	return register[T](nil, nil)
}

// RegisterWithDefault registers T with a default byte pattern captured from
// value. The pattern initializes slots of components that have no create
// function. Re-registering T with a different default is a conflict.
func RegisterWithDefault[T any](value T) (ComponentID, error) {
	typ := reflect.TypeOf(value)
	if typ == nil {
		return 0, InvalidComponentError{
			Name:   reflect.TypeOf((*T)(nil)).Elem().String(),
			Reason: "interface types cannot be components",
		}
	}
	size := typ.Size()
	def := make([]byte, size)
	if size > 0 {
		copy(def, unsafe.Slice((*byte)(unsafe.Pointer(&value)), size))
	}
	return register[T](def, value)
}

// MustRegister is like Register but panics on failure.
func MustRegister[T any]() ComponentID {
	id, err := Register[T]()
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return id
}

func register[T any](defaultValue []byte, defaultBox any) (ComponentID, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		return 0, InvalidComponentError{
			Name:   reflect.TypeOf((*T)(nil)).Elem().String(),
			Reason: "interface types cannot be components",
		}
	}
	if typ.Kind() == reflect.Pointer {
		return 0, InvalidComponentError{Name: typ.String(), Reason: "component types must be value types"}
	}

	r := globalRegistry
	r.mu.Lock()
	defer r.mu.Unlock()

	hash := hashType(typ)
	if id, ok := r.byType[typ]; ok {
		// Plain re-registration is idempotent; only an explicitly supplied,
		// differing default pattern conflicts.
		if defaultValue != nil && !bytes.Equal(r.infos[id].defaultValue, defaultValue) {
			return 0, RegistrationConflictError{Name: typ.String(), TypeHash: hash}
		}
		return id, nil
	}
	if _, taken := r.byHash[hash]; taken {
		return 0, RegistrationConflictError{Name: typ.String(), TypeHash: hash}
	}
	if len(r.infos) >= MaxComponents {
		return 0, MaskOutOfRangeError{ID: ComponentID(len(r.infos))}
	}

	id := ComponentID(len(r.infos))
	info := &ComponentInfo{
		id:           id,
		size:         typ.Size(),
		align:        uintptr(typ.Align()),
		name:         typ.String(),
		typeHash:     hash,
		typ:          typ,
		defaultValue: defaultValue,
		defaultBox:   defaultBox,
	}
	info.functions = synthesizeFunctions[T](typ, info.name)

	r.infos = append(r.infos, info)
	r.byType[typ] = id
	r.byHash[hash] = id
	if _, err := r.names.Register(info.name, id); err != nil {
		return 0, err
	}
	return id, nil
}

// Info returns the ComponentInfo for a registered id.
func Info(id ComponentID) (*ComponentInfo, error) {
	r := globalRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.infos) {
		return nil, UnknownComponentError{ID: id}
	}
	return r.infos[id], nil
}

// IDByName looks up a component id by its display name.
func IDByName(name string) (ComponentID, bool) {
	r := globalRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.names.GetIndex(name)
	if !ok {
		return 0, false
	}
	return *r.names.GetItem(idx), true
}

// RegisteredCount returns the number of registered component types.
func RegisteredCount() int {
	r := globalRegistry
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.infos)
}

// ResetRegistry clears the global registry. Useful for tests or applications
// that need to re-initialize ECS state; existing worlds become invalid.
func ResetRegistry() {
	globalRegistry.mu.Lock()
	infos := newRegistry()
	globalRegistry.infos = infos.infos
	globalRegistry.byType = infos.byType
	globalRegistry.byHash = infos.byHash
	globalRegistry.names = infos.names
	globalRegistry.mu.Unlock()
}

func hashType(typ reflect.Type) uint64 {
	h := fnv.New64a()
	h.Write([]byte(typ.PkgPath()))
	h.Write([]byte{'.'})
	h.Write([]byte(typ.String()))
	return h.Sum64()
}

// synthesizeFunctions derives the lifecycle FunctionSet for T by probing the
// optional interfaces on *T. Trivial operations stay nil so the operation
// helper elides them from its tables.
func synthesizeFunctions[T any](typ reflect.Type, name string) FunctionSet {
	var fs FunctionSet
	probe := any((*T)(nil))
	size := typ.Size()

	// Construction flavors, in preference order. Types implementing none
	// are trivially default-constructible: their slots start zeroed.
	if _, ok := probe.(Initializer); ok {
		fs.Create = func(ptr unsafe.Pointer, entity Entity, world *World) {
			any((*T)(ptr)).(Initializer).Init(entity, world)
		}
	} else if _, ok := probe.(EntityInitializer); ok {
		fs.Create = func(ptr unsafe.Pointer, entity Entity, _ *World) {
			any((*T)(ptr)).(EntityInitializer).InitWithEntity(entity)
		}
	} else if _, ok := probe.(WorldInitializer); ok {
		fs.Create = func(ptr unsafe.Pointer, _ Entity, world *World) {
			any((*T)(ptr)).(WorldInitializer).InitWithWorld(world)
		}
	}

	if _, ok := probe.(Destroyer); ok {
		fs.Destroy = func(ptr unsafe.Pointer) {
			any((*T)(ptr)).(Destroyer).Destroy()
		}
	}

	if _, ok := probe.(Uncopyable); ok {
		fs.Copy = func(_, _ unsafe.Pointer) {
			panic(bark.AddTrace(NotCopyableError{Name: name, Operation: "copy"}))
		}
	} else if _, ok := probe.(Cloner); ok {
		fs.Copy = func(dst, src unsafe.Pointer) {
			*(*T)(dst) = any((*T)(src)).(Cloner).Clone().(T)
		}
	} else {
		fs.Copy = func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		}
	}

	// Move assigns into an already constructed destination. Types without a
	// MoveFrom are trivially movable by byte copy and stay out of the table.
	_, isMover := probe.(Mover)
	if isMover {
		fs.Move = func(dst, src unsafe.Pointer) {
			any((*T)(dst)).(Mover).MoveFrom((*T)(src))
		}
	}

	// MoveConstruct relocates into raw (zeroed) storage, leaving the source
	// slot zeroed. Every component participates in cross-archetype moves
	// unless it explicitly opts out.
	if _, ok := probe.(Unmovable); ok {
		fs.MoveConstruct = func(_, _ unsafe.Pointer) {
			panic(bark.AddTrace(NotMovableError{Name: name, Operation: "move construct"}))
		}
	} else if isMover {
		fs.MoveConstruct = func(dst, src unsafe.Pointer) {
			zeroBytes(dst, size)
			any((*T)(dst)).(Mover).MoveFrom((*T)(src))
			zeroBytes(src, size)
		}
	} else {
		fs.MoveConstruct = func(dst, src unsafe.Pointer) {
			copyBytes(dst, src, size)
			zeroBytes(src, size)
		}
	}

	if _, ok := probe.(Comparer); ok {
		fs.Compare = func(a, b unsafe.Pointer) bool {
			return any((*T)(a)).(Comparer).Equals((*T)(b))
		}
	} else if typ.Comparable() {
		fs.Compare = func(a, b unsafe.Pointer) bool {
			return reflect.NewAt(typ, a).Elem().Equal(reflect.NewAt(typ, b).Elem())
		}
	} else {
		fs.Compare = func(_, _ unsafe.Pointer) bool {
			panic(bark.AddTrace(UnsupportedOperationError{Name: name, Operation: "compare"}))
		}
	}

	if _, ok := probe.(BeforeRemover); ok {
		fs.BeforeRemove = func(ptr unsafe.Pointer, entity Entity, world *World) {
			any((*T)(ptr)).(BeforeRemover).BeforeRemove(entity, world)
		}
	}
	if _, ok := probe.(AfterAssigner); ok {
		fs.AfterAssign = func(ptr unsafe.Pointer, entity Entity, world *World) {
			any((*T)(ptr)).(AfterAssigner).AfterAssign(entity, world)
		}
	}

	return fs
}
