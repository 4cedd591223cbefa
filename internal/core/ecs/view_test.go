package ecs

import "testing"

func TestViewYieldsPackedOrder(t *testing.T) {
	r := NewRegistry()
	var ents []Entity
	for i := 0; i < 4; i++ {
		e := r.CreateEntity()
		AddComponentWith(r, e, position{X: float32(i)})
		ents = append(ents, e)
	}
	RemoveComponent[position](r, ents[1]) // last slot (ents[3]) moves into index 1

	want := []Entity{ents[0], ents[3], ents[2]}
	var got []Entity
	GetView[position](r).Each(func(e Entity, p *position) {
		got = append(got, e)
	})
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestViewMutatesThroughPointer(t *testing.T) {
	r := NewRegistry()
	e := r.CreateEntity()
	AddComponentWith(r, e, position{X: 1})

	for _, p := range GetView[position](r).All() {
		p.X = 10
	}
	got, _ := GetComponent[position](r, e)
	if got.X != 10 {
		t.Fatalf("view pointer did not alias storage, X=%v", got.X)
	}

	p, _ := GetComponent[position](r, e)
	p.Y = 4
	GetView[position](r).Each(func(_ Entity, p *position) {
		if p.Y != 4 {
			t.Fatalf("view does not reflect last mutation: %+v", *p)
		}
	})
}

func TestViewIsRestartable(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		AddComponent[position](r, r.CreateEntity())
	}
	v := GetView[position](r)

	count := func() int {
		n := 0
		for range v.All() {
			n++
		}
		return n
	}
	if count() != 3 || count() != 3 {
		t.Fatalf("view not restartable")
	}

	it := v.Iter()
	n := 0
	for it.Next() {
		if !it.Entity().IsValid() || it.Get() == nil {
			t.Fatalf("iterator yielded empty element at %d", n)
		}
		n++
	}
	if n != 3 || it.Next() {
		t.Fatalf("iterator yielded %d elements", n)
	}
	it.Reset()
	if !it.Next() {
		t.Fatalf("reset iterator is empty")
	}

	// a fresh view reflects the storage at call time
	AddComponent[position](r, r.CreateEntity())
	if GetView[position](r).Len() != 4 {
		t.Fatalf("fresh view missed new component")
	}
}

func TestViewAllStopsEarly(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		AddComponent[position](r, r.CreateEntity())
	}
	n := 0
	for range GetView[position](r).All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("expected break after 2, got %d", n)
	}
}

func TestViewOfUnregisteredTypeIsEmpty(t *testing.T) {
	r := NewRegistry()
	r.CreateEntity()
	v := GetView[meshRef](r)
	if v.Len() != 0 {
		t.Fatalf("expected empty view")
	}
	for range v.All() {
		t.Fatalf("empty view yielded")
	}
	v.Each(func(Entity, *meshRef) { t.Fatalf("empty view yielded") })
	if v.Iter().Next() {
		t.Fatalf("empty iterator yielded")
	}
	if GetEntitiesWith[meshRef](r) != nil {
		t.Fatalf("expected nil entity list")
	}
}

func TestEachJoins(t *testing.T) {
	r := NewRegistry()
	both := map[EntityID]bool{}
	for i := 0; i < 10; i++ {
		e := r.CreateEntity()
		AddComponent[position](r, e)
		if i%3 == 0 {
			AddComponentWith(r, e, light{Intensity: float32(i)})
		}
		if i%2 == 0 {
			AddComponent[label](r, e)
			if i%3 == 0 {
				both[e.ID()] = true
			}
		}
	}

	n := 0
	Each2(r, func(e Entity, p *position, l *light) {
		if e.ID()%3 != 1 { // ids start at 1, i = id-1
			t.Fatalf("%s joined without a light", e)
		}
		n++
	})
	if n != 4 {
		t.Fatalf("expected 4 position+light pairs, got %d", n)
	}

	m := 0
	Each3(r, func(e Entity, _ *position, _ *light, lb *label) {
		if !both[e.ID()] {
			t.Fatalf("%s joined without all three", e)
		}
		if lb.Text != "unnamed" {
			t.Fatalf("label defaults not applied: %q", lb.Text)
		}
		m++
	})
	if m != len(both) {
		t.Fatalf("expected %d triples, got %d", len(both), m)
	}

	Each2(r, func(Entity, *position, *meshRef) { t.Fatalf("joined an unregistered type") })
}
