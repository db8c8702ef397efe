package stockroom

import "sort"

// System represents a behavior that operates on entities each update.
// Systems run in ascending priority order.
type System interface {
	Update(world *World, dt float64) error
	Priority() int
}

// InitializableSystem is a System that needs one-time setup before its first
// update.
type InitializableSystem interface {
	System
	Init(world *World) error
}

// SystemManager manages and runs all systems of one world in priority order.
type SystemManager struct {
	world       *World
	systems     []System
	pendingInit []InitializableSystem
}

func newSystemManager(world *World) *SystemManager {
	return &SystemManager{
		world:   world,
		systems: make([]System, 0),
	}
}

// Add registers a system, keeping the run order sorted by priority.
func (sm *SystemManager) Add(system System) {
	sm.systems = append(sm.systems, system)
	sort.SliceStable(sm.systems, func(i, j int) bool {
		return sm.systems[i].Priority() < sm.systems[j].Priority()
	})
	if init, ok := system.(InitializableSystem); ok {
		sm.pendingInit = append(sm.pendingInit, init)
	}
}

// Remove unregisters a system.
func (sm *SystemManager) Remove(system System) {
	for i, s := range sm.systems {
		if s == system {
			sm.systems = append(sm.systems[:i], sm.systems[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered systems.
func (sm *SystemManager) Len() int {
	return len(sm.systems)
}

// Init runs one-time setup for systems that want it. Systems added after a
// previous Init are set up on the next call.
func (sm *SystemManager) Init() error {
	for len(sm.pendingInit) > 0 {
		init := sm.pendingInit[0]
		sm.pendingInit = sm.pendingInit[1:]
		if err := init.Init(sm.world); err != nil {
			return err
		}
	}
	return nil
}

// Update runs all systems once with the given delta time.
func (sm *SystemManager) Update(dt float64) error {
	if err := sm.Init(); err != nil {
		return err
	}
	for _, s := range sm.systems {
		if err := s.Update(sm.world, dt); err != nil {
			return err
		}
	}
	return nil
}
