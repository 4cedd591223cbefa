package ecs

// EntityPool allocates entity IDs. Fresh IDs are minted from 1 upward; freed
// IDs wait in a FIFO queue and the oldest one is reused first. A live bit per
// ID lets the pool reject IDs that were destroyed but not yet recycled.
type EntityPool struct {
	alive []bool // indexed by EntityID; slot 0 is the null entity
	free  []EntityID
	next  EntityID
	live  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive: make([]bool, 1, 1024),
		free:  make([]EntityID, 0, 256),
		next:  1,
	}
}

func (p *EntityPool) Create() EntityID {
	var id EntityID
	if len(p.free) > 0 {
		id = p.free[0]
		p.free = p.free[1:]
	} else {
		id = p.next
		p.next++
		p.alive = append(p.alive, false)
	}
	p.alive[id] = true
	p.live++
	return id
}

// Alive reports whether id is allocated and not destroyed.
func (p *EntityPool) Alive(id EntityID) bool {
	if id == NullEntity || id >= p.next {
		return false
	}
	return p.alive[id]
}

// Destroy frees id for reuse. It returns false when id is null, was never
// minted, or is already free.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	p.alive[id] = false
	p.free = append(p.free, id)
	p.live--
	return true
}

// Len returns the number of live IDs.
func (p *EntityPool) Len() int { return p.live }

// Next returns the ID the pool would mint if the free queue were empty.
func (p *EntityPool) Next() EntityID { return p.next }

// Each calls fn for every live ID in ascending order.
func (p *EntityPool) Each(fn func(EntityID)) {
	for id := EntityID(1); id < p.next; id++ {
		if p.alive[id] {
			fn(id)
		}
	}
}
