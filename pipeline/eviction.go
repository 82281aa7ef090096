package pipeline

import "github.com/gogpu/pipecache/registry"

// EntryID names one cached pipeline.
type EntryID struct {
	Shader       registry.Key
	Requirements Requirements
}

// Policy decides which cached pipelines to drop. The cache calls it under
// its lock, so implementations need no synchronization of their own, but
// a Policy must not be shared between caches.
type Policy interface {
	// Added records a new entry and returns entries to evict, if any.
	Added(id EntryID) []EntryID

	// Touched records a cache hit.
	Touched(id EntryID)

	// Removed forgets an entry the cache dropped on its own.
	Removed(id EntryID)
}

// Unbounded returns a policy that never evicts.
func Unbounded() Policy { return unbounded{} }

type unbounded struct{}

func (unbounded) Added(EntryID) []EntryID { return nil }
func (unbounded) Touched(EntryID)         {}
func (unbounded) Removed(EntryID)         {}
