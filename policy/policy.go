package policy

import "time"

// Index is the view of cache state an eviction policy may inspect and
// shrink. It is only valid for the duration of a single Evict call; the
// cache holds its internal lock while the policy runs.
type Index interface {
	// Len returns the number of live entries.
	Len() int

	// LeastRecent returns the id at the cold end of the recency order.
	LeastRecent() (id string, ok bool)

	// LastUpdated returns the freshness timestamp for an id.
	LastUpdated(id string) (time.Time, bool)

	// Scan iterates entries from least to most recently used. The
	// callback must not call Remove; collect ids and remove after.
	Scan(fn func(id string, lastUpdated time.Time) bool)

	// Remove deletes an id from every view of the cache. Unknown ids
	// are ignored.
	Remove(id string)
}

// Policy decides which entries to drop when the cache exceeds its
// capacity bound.
type Policy interface {
	// Evict removes entries from idx until idx.Len() <= max.
	Evict(idx Index, max int)
}

// Func adapts a function into a Policy.
type Func func(idx Index, max int)

// Evict implements Policy
func (f Func) Evict(idx Index, max int) { f(idx, max) }

// LRU evicts the least recently used entry repeatedly until the index is
// within bound. Entries touched at the same instant are evicted in
// recency-order iteration order, oldest insertion first.
type LRU struct{}

// Evict implements Policy
func (LRU) Evict(idx Index, max int) {
	for idx.Len() > max {
		id, ok := idx.LeastRecent()
		if !ok {
			return
		}
		idx.Remove(id)
	}
}
