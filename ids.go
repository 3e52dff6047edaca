package purgatory

//hands out ids, collision groups and categories for one simulation.
//Every Engine owns its own allocator so simulations never share counters.
type IDAllocator struct {
	nextID                int
	nextGroup             int
	nextNonCollidingGroup int
	nextCategory          uint32
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		nextGroup:             1,
		nextNonCollidingGroup: -1,
		nextCategory:          1,
	}
}

//returns the next unique id. Ids start at 1, 0 is never handed out.
func (ids *IDAllocator) NextID() int {
	ids.nextID++
	return ids.nextID
}

//returns a new collision group. Bodies in a colliding group always collide
//with each other, bodies in a non colliding group never do.
func (ids *IDAllocator) NextGroup(nonColliding bool) int {
	if nonColliding {
		g := ids.nextNonCollidingGroup
		ids.nextNonCollidingGroup--
		return g
	}
	g := ids.nextGroup
	ids.nextGroup++
	return g
}

//returns the next free category bit, or ErrNoCategories once all 32 bits
//are handed out.
func (ids *IDAllocator) NextCategory() (uint32, error) {
	if ids.nextCategory&0x80000000 != 0 {
		return 0, ErrNoCategories
	}
	ids.nextCategory <<= 1
	return ids.nextCategory, nil
}
