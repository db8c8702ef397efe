package stockroom_test

import (
	"sync/atomic"
	"testing"

	"github.com/TheBitDrifter/stockroom"
)

func TestWorldIDsAreUnique(t *testing.T) {
	a := stockroom.Factory.NewWorld()
	b := stockroom.Factory.NewWorld()
	if a.ID() == b.ID() {
		t.Errorf("Worlds share id %d", a.ID())
	}
	if b.ID() <= a.ID() {
		t.Errorf("World ids not monotonic: %d then %d", a.ID(), b.ID())
	}
}

func TestWorldVersionTracksStructuralChanges(t *testing.T) {
	world := stockroom.Factory.NewWorld()
	storage := world.Entities()

	v0 := world.Version()
	e, err := storage.NewEntity(positionID)
	if err != nil {
		t.Fatal(err)
	}
	v1 := world.Version()
	if v1 <= v0 {
		t.Error("Entity creation should bump the version")
	}

	if err := storage.AddComponent(e, velocityID); err != nil {
		t.Fatal(err)
	}
	v2 := world.Version()
	if v2 <= v1 {
		t.Error("Component add should bump the version")
	}

	if err := storage.DestroyEntity(e); err != nil {
		t.Fatal(err)
	}
	if world.Version() <= v2 {
		t.Error("Entity destruction should bump the version")
	}
}

type recordingSystem struct {
	name     string
	priority int
	log      *[]string
	inits    int
}

func (s *recordingSystem) Update(_ *stockroom.World, _ float64) error {
	*s.log = append(*s.log, s.name)
	return nil
}

func (s *recordingSystem) Priority() int { return s.priority }

func (s *recordingSystem) Init(_ *stockroom.World) error {
	s.inits++
	return nil
}

func TestSystemsRunInPriorityOrder(t *testing.T) {
	world := stockroom.Factory.NewWorld()
	var log []string

	late := &recordingSystem{name: "late", priority: 10, log: &log}
	early := &recordingSystem{name: "early", priority: -5, log: &log}
	mid := &recordingSystem{name: "mid", priority: 0, log: &log}
	world.Systems().Add(late)
	world.Systems().Add(early)
	world.Systems().Add(mid)

	if err := world.Update(0.016); err != nil {
		t.Fatal(err)
	}
	want := []string{"early", "mid", "late"}
	if len(log) != len(want) {
		t.Fatalf("Expected %d system runs, got %d", len(want), len(log))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Run order %v, want %v", log, want)
			break
		}
	}
}

func TestSystemInitRunsOnce(t *testing.T) {
	world := stockroom.Factory.NewWorld()
	var log []string
	sys := &recordingSystem{name: "sys", log: &log}
	world.Systems().Add(sys)

	if err := world.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if err := world.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if sys.inits != 1 {
		t.Errorf("Expected 1 init, got %d", sys.inits)
	}
}

func TestPauseSkipsUpdates(t *testing.T) {
	world := stockroom.Factory.NewWorld()
	var log []string
	world.Systems().Add(&recordingSystem{name: "sys", log: &log})

	world.Pause()
	if err := world.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if len(log) != 0 {
		t.Error("Paused world still ran systems")
	}

	world.Resume()
	if err := world.Update(0.016); err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 {
		t.Errorf("Resumed world ran %d systems, want 1", len(log))
	}
}

func TestDispatcherFanOut(t *testing.T) {
	dispatcher := stockroom.Factory.NewDispatcher(4)
	defer dispatcher.Stop()

	var counter atomic.Int64
	for i := 0; i < 100; i++ {
		dispatcher.Submit(func() {
			counter.Add(1)
		})
	}
	dispatcher.Wait()
	if counter.Load() != 100 {
		t.Errorf("Expected 100 completed tasks, got %d", counter.Load())
	}
}

func TestMemoryManagerTracksColumns(t *testing.T) {
	mm := stockroom.Factory.NewMemoryManager()
	world := stockroom.Factory.NewWorldWithContext(stockroom.WorldContext{MemoryManager: mm})

	if _, err := world.Entities().NewEntities(10, positionID, nameID); err != nil {
		t.Fatal(err)
	}
	stats := mm.Stats()
	if stats.Buffers == 0 || stats.Bytes == 0 {
		t.Errorf("Memory manager recorded no allocations: %+v", stats)
	}
}

func TestSharedContextBetweenWorlds(t *testing.T) {
	ctx := stockroom.WorldContext{
		MemoryManager: stockroom.Factory.NewMemoryManager(),
		Dispatcher:    stockroom.Factory.NewDispatcher(2),
	}
	defer ctx.Dispatcher.Stop()

	a := stockroom.Factory.NewWorldWithContext(ctx)
	b := stockroom.Factory.NewWorldWithContext(ctx)
	if a.MemoryManager() != b.MemoryManager() {
		t.Error("Worlds should share the context memory manager")
	}
	if a.Dispatcher() != b.Dispatcher() {
		t.Error("Worlds should share the context dispatcher")
	}
}
