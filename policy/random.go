package policy

import (
	randv2 "math/rand/v2"
	"sync"
	"time"
)

// Random evicts uniformly random entries until the index is within bound.
// Mostly useful as a cheap baseline when recency tracking is not trusted.
type Random struct {
	mu  sync.Mutex
	rng *randv2.Rand
}

// NewRandom creates a Random policy seeded with the given value. A zero
// seed falls back to the current time.
func NewRandom(seed uint64) *Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Random{rng: randv2.New(randv2.NewPCG(seed, 0))}
}

// Evict implements Policy
func (r *Random) Evict(idx Index, max int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx.Len() > max {
		ids := make([]string, 0, idx.Len())
		idx.Scan(func(id string, _ time.Time) bool {
			ids = append(ids, id)
			return true
		})
		if len(ids) == 0 {
			return
		}
		idx.Remove(ids[r.rng.IntN(len(ids))])
	}
}
