package policy

import "time"

// TTLFirst drops entries whose TTL has already elapsed before falling back
// to another policy for live entries. Under pressure this reclaims dead
// weight first, so fresh entries survive longer than plain LRU would allow.
type TTLFirst struct {
	ttl  time.Duration
	next Policy
}

// NewTTLFirst creates a TTLFirst policy. next is consulted once all stale
// entries are gone; nil means LRU.
func NewTTLFirst(ttl time.Duration, next Policy) *TTLFirst {
	if next == nil {
		next = LRU{}
	}
	return &TTLFirst{ttl: ttl, next: next}
}

// Evict implements Policy
func (p *TTLFirst) Evict(idx Index, max int) {
	if idx.Len() <= max {
		return
	}

	now := time.Now()
	stale := make([]string, 0, idx.Len()-max)
	idx.Scan(func(id string, lastUpdated time.Time) bool {
		if now.Sub(lastUpdated) > p.ttl {
			stale = append(stale, id)
		}
		return true
	})

	for _, id := range stale {
		if idx.Len() <= max {
			return
		}
		idx.Remove(id)
	}

	p.next.Evict(idx, max)
}
