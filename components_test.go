package stockroom_test

import (
	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/stockroom"
)

// Position is a simple trivial component for 3D coordinates
type Position struct {
	X, Y, Z float64
}

// Velocity is a simple trivial component for movement
type Velocity struct {
	X, Y float64
}

// Tag is an empty, trivial marker component
type Tag struct{}

// Name is a non-trivial component: it wants construction and destruction.
type Name struct {
	Value string
}

func (n *Name) Init(_ stockroom.Entity, _ *stockroom.World) {
	n.Value = "unnamed"
	lifecycleCounts.nameInits++
}

func (n *Name) Destroy() {
	lifecycleCounts.nameDestroys++
	n.Value = ""
}

// Counter carries a default byte pattern instead of a constructor.
type Counter struct {
	V uint32
}

// Hooked observes assignment and removal through lifecycle hooks.
type Hooked struct {
	Generation int
}

func (h *Hooked) AfterAssign(_ stockroom.Entity, _ *stockroom.World) {
	lifecycleCounts.hookedAssigns++
}

func (h *Hooked) BeforeRemove(_ stockroom.Entity, _ *stockroom.World) {
	lifecycleCounts.hookedRemoves++
}

// Resource move-assigns explicitly, transferring ownership of its handle.
type Resource struct {
	Handle int
}

func (r *Resource) MoveFrom(src any) {
	s := src.(*Resource)
	r.Handle = s.Handle
	s.Handle = 0
	lifecycleCounts.resourceMoves++
}

// Frozen opts out of relocation entirely.
type Frozen struct {
	V int
}

func (f *Frozen) Unmovable() {}

// Secret opts out of copying.
type Secret struct {
	V int
}

func (s *Secret) Uncopyable() {}

// Preset has both a constructor and a default pattern; the constructor wins.
type Preset struct {
	V uint32
}

func (p *Preset) InitWithEntity(_ stockroom.Entity) {
	p.V = 7
}

var lifecycleCounts struct {
	nameInits     int
	nameDestroys  int
	hookedAssigns int
	hookedRemoves int
	resourceMoves int
}

func resetLifecycleCounts() {
	lifecycleCounts.nameInits = 0
	lifecycleCounts.nameDestroys = 0
	lifecycleCounts.hookedAssigns = 0
	lifecycleCounts.hookedRemoves = 0
	lifecycleCounts.resourceMoves = 0
}

var (
	positionID = stockroom.MustRegister[Position]()
	velocityID = stockroom.MustRegister[Velocity]()
	tagID      = stockroom.MustRegister[Tag]()
	nameID     = stockroom.MustRegister[Name]()
	counterID  = mustRegisterWithDefault(Counter{V: 1})
	hookedID   = stockroom.MustRegister[Hooked]()
	resourceID = stockroom.MustRegister[Resource]()
	frozenID   = stockroom.MustRegister[Frozen]()
	secretID   = stockroom.MustRegister[Secret]()
	presetID   = mustRegisterWithDefault(Preset{V: 42})
)

func mustRegisterWithDefault[T any](value T) stockroom.ComponentID {
	id, err := stockroom.RegisterWithDefault(value)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return id
}
