package registry

// arenaSlot is one position in an arena. generation is bumped every time
// the slot is vacated so stale handles stop matching.
type arenaSlot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// arena is a generational slot allocator. Vacated slots are reused, but a
// reused slot never matches a handle issued for its previous occupant.
//
// arena is not safe for concurrent use.
type arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

// insert stores v and returns its index and generation.
func (a *arena[T]) insert(v T) (uint32, uint32) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	s := &a.slots[idx]
	s.value = v
	s.occupied = true
	a.live++
	return idx, s.generation
}

// get returns the value at idx if generation matches the current occupant.
func (a *arena[T]) get(idx, generation uint32) (T, bool) {
	var zero T
	if int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if !s.occupied || s.generation != generation {
		return zero, false
	}
	return s.value, true
}

// remove vacates idx if generation matches and returns the old value.
func (a *arena[T]) remove(idx, generation uint32) (T, bool) {
	v, ok := a.get(idx, generation)
	if !ok {
		return v, false
	}
	s := &a.slots[idx]
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, idx)
	a.live--
	return v, true
}

// len returns the number of occupied slots.
func (a *arena[T]) len() int { return a.live }

// each calls fn for every occupied slot in index order.
func (a *arena[T]) each(fn func(idx, generation uint32, v T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(uint32(i), s.generation, s.value)
		}
	}
}
