// Profiling:
// go build ./profile/transitions
// go tool pprof -http=":8000" -nodefraction=0.001 ./transitions mem.pprof

package main

import (
	"github.com/TheBitDrifter/stockroom"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
}

func main() {
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(iters, entities)
	p.Stop()
}

func run(iters, numEntities int) {
	id1 := stockroom.MustRegister[comp1]()
	id2 := stockroom.MustRegister[comp2]()
	id3 := stockroom.MustRegister[comp3]()

	world := stockroom.Factory.NewWorld()
	storage := world.Entities()

	for range iters {
		entities, err := storage.NewEntities(numEntities, id1, id2)
		if err != nil {
			panic(err)
		}
		for _, e := range entities {
			if err := storage.AddComponent(e, id3); err != nil {
				panic(err)
			}
			if err := storage.RemoveComponent(e, id3); err != nil {
				panic(err)
			}
		}
		for _, e := range entities {
			if err := storage.DestroyEntity(e); err != nil {
				panic(err)
			}
		}
	}
}
