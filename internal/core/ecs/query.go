package ecs

// Each2 calls fn for every entity that has both an A and a B.
// It walks the smaller storage and probes the other.
func Each2[A, B any](r *Registry, fn func(Entity, *A, *B)) {
	sa, sb := storageFor[A](r), storageFor[B](r)
	if sa == nil || sb == nil {
		return
	}
	if sa.Len() <= sb.Len() {
		for i, id := range sa.entities {
			if j, ok := sb.index[id]; ok {
				fn(Entity{id: id, reg: r}, &sa.components[i], &sb.components[j])
			}
		}
		return
	}
	for j, id := range sb.entities {
		if i, ok := sa.index[id]; ok {
			fn(Entity{id: id, reg: r}, &sa.components[i], &sb.components[j])
		}
	}
}

// Each3 calls fn for every entity that has an A, a B and a C.
func Each3[A, B, C any](r *Registry, fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storageFor[A](r), storageFor[B](r), storageFor[C](r)
	if sa == nil || sb == nil || sc == nil {
		return
	}

	// Drive from the smallest store
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	var driver []EntityID
	switch which {
	case 0:
		driver = sa.entities
	case 1:
		driver = sb.entities
	case 2:
		driver = sc.entities
	}
	for _, id := range driver {
		i, ok := sa.index[id]
		if !ok {
			continue
		}
		j, ok := sb.index[id]
		if !ok {
			continue
		}
		k, ok := sc.index[id]
		if !ok {
			continue
		}
		fn(Entity{id: id, reg: r}, &sa.components[i], &sb.components[j], &sc.components[k])
	}
}
