// ecsbench churns entities through the registry under a profiler.
//
//	go build ./cmd/ecsbench
//	./ecsbench -mode mem
//	go tool pprof -http=":8000" ./ecsbench mem.pprof
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/pkg/profile"
)

func main() {
	mode := flag.String("mode", "cpu", "profile mode: cpu, mem or allocs")
	rounds := flag.Int("rounds", 50, "registries to build")
	iters := flag.Int("iters", 1000, "create/iterate/destroy cycles per registry")
	entities := flag.Int("entities", 1000, "entities per cycle")
	flag.Parse()

	var opt func(*profile.Profile)
	switch *mode {
	case "mem":
		opt = profile.MemProfile
	case "allocs":
		opt = profile.MemProfileAllocs
	default:
		opt = profile.CPUProfile
	}

	start := time.Now()
	p := profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook)
	touched := run(*rounds, *iters, *entities)
	p.Stop()
	fmt.Printf("%d component visits in %s\n", touched, time.Since(start))
}

func run(rounds, iters, numEntities int) int {
	touched := 0
	step := mgl32.Vec3{0.01, 0, 0}
	for range rounds {
		reg := ecs.NewRegistry()
		ents := make([]ecs.Entity, 0, numEntities)
		for range iters {
			for i := range numEntities {
				e := reg.CreateEntity()
				ecs.AddComponentWith(reg, e, component.NewTransform(mgl32.Vec3{float32(i), 0, 0}))
				if i%2 == 0 {
					ecs.AddComponentWith(reg, e, component.Spin{Rate: mgl32.Vec3{0, 1, 0}})
				}
				ents = append(ents, e)
			}
			ecs.Each2(reg, func(_ ecs.Entity, t *component.Transform, s *component.Spin) {
				t.Translate(step)
				t.Rotate(s.Step(1.0 / 60))
				touched++
			})
			for _, e := range ents {
				reg.DestroyEntity(e)
			}
			ents = ents[:0]
		}
	}
	return touched
}
