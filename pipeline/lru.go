package pipeline

// LRU returns a policy that keeps at most capacity pipelines, evicting
// the least recently used. A capacity below one is treated as one.
func LRU(capacity int) Policy {
	if capacity < 1 {
		capacity = 1
	}
	return &lruPolicy{
		capacity: capacity,
		entries:  make(map[EntryID]*lruEntry),
	}
}

// lruEntry links a cached pipeline into the recency order.
type lruEntry struct {
	id           EntryID
	newer, older *lruEntry
}

// lruPolicy keeps entries ordered from newest (most recently added or
// hit) to oldest. Eviction takes from the oldest end.
type lruPolicy struct {
	capacity int
	entries  map[EntryID]*lruEntry
	newest   *lruEntry
	oldest   *lruEntry
}

func (p *lruPolicy) Added(id EntryID) []EntryID {
	if e, ok := p.entries[id]; ok {
		p.promote(e)
		return nil
	}
	e := &lruEntry{id: id}
	p.entries[id] = e
	p.pushNewest(e)

	var evict []EntryID
	for len(p.entries) > p.capacity && p.oldest != nil {
		victim := p.oldest
		p.detach(victim)
		delete(p.entries, victim.id)
		evict = append(evict, victim.id)
	}
	return evict
}

func (p *lruPolicy) Touched(id EntryID) {
	if e, ok := p.entries[id]; ok {
		p.promote(e)
	}
}

func (p *lruPolicy) Removed(id EntryID) {
	if e, ok := p.entries[id]; ok {
		p.detach(e)
		delete(p.entries, id)
	}
}

func (p *lruPolicy) promote(e *lruEntry) {
	if e == p.newest {
		return
	}
	p.detach(e)
	p.pushNewest(e)
}

func (p *lruPolicy) pushNewest(e *lruEntry) {
	e.newer = nil
	e.older = p.newest
	if p.newest != nil {
		p.newest.newer = e
	} else {
		p.oldest = e
	}
	p.newest = e
}

func (p *lruPolicy) detach(e *lruEntry) {
	if e.newer != nil {
		e.newer.older = e.older
	} else {
		p.newest = e.older
	}
	if e.older != nil {
		e.older.newer = e.newer
	} else {
		p.oldest = e.newer
	}
	e.newer, e.older = nil, nil
}
