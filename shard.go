package devicecache

import (
	"container/list"
	"sync"
	"time"

	"github.com/statuswatch/devicecache/policy"
)

// shard holds one slice of the cache state: a membership index
// (status -> ids), a freshness index (id -> last update time), and a
// recency list for eviction ordering. All three views move together under
// the shard mutex; no caller ever observes them out of sync.
type shard struct {
	mu       sync.Mutex
	capacity int

	members   map[Status]map[string]struct{}
	statuses  map[string]Status
	freshness map[string]time.Time
	recency   *list.List // Front = most recently used, Back = least recently used
	elems     map[string]*list.Element
}

func newShard(capacity int) *shard {
	s := &shard{
		capacity:  capacity,
		members:   make(map[Status]map[string]struct{}, statusCount),
		statuses:  make(map[string]Status),
		freshness: make(map[string]time.Time),
		recency:   list.New(),
		elems:     make(map[string]*list.Element),
	}
	for _, st := range Statuses() {
		s.members[st] = make(map[string]struct{})
	}
	return s
}

// update moves id into the given status bucket, refreshes its timestamp,
// bumps its recency, and then runs the eviction policy. It returns the
// ids the policy removed to keep the shard within capacity.
func (s *shard) update(id string, status Status, now time.Time, pol policy.Policy) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, exists := s.statuses[id]; exists {
		if prev != status {
			delete(s.members[prev], id)
			s.members[status][id] = struct{}{}
			s.statuses[id] = status
		}
		s.freshness[id] = now
		s.recency.MoveToFront(s.elems[id])
	} else {
		s.members[status][id] = struct{}{}
		s.statuses[id] = status
		s.freshness[id] = now
		s.elems[id] = s.recency.PushFront(id)
	}

	var evicted []string
	pol.Evict(&evictView{shard: s, evicted: &evicted}, s.capacity)
	return evicted
}

// query returns the live members of a status bucket and removes any whose
// TTL has elapsed. The expired ids are returned for event reporting.
func (s *shard) query(status Status, now time.Time, ttl time.Duration) (live, expired []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.members[status] {
		if now.Sub(s.freshness[id]) > ttl {
			expired = append(expired, id)
		} else {
			live = append(live, id)
		}
	}
	for _, id := range expired {
		s.removeLocked(id)
	}
	return live, expired
}

// sweep removes every entry whose TTL has elapsed, regardless of status.
func (s *shard) sweep(now time.Time, ttl time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, last := range s.freshness {
		if now.Sub(last) > ttl {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		s.removeLocked(id)
	}
	return expired
}

func (s *shard) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// removeLocked deletes id from all views. Caller must hold s.mu.
func (s *shard) removeLocked(id string) bool {
	status, exists := s.statuses[id]
	if !exists {
		return false
	}
	delete(s.members[status], id)
	delete(s.statuses, id)
	delete(s.freshness, id)
	if el, ok := s.elems[id]; ok {
		s.recency.Remove(el)
		delete(s.elems, id)
	}
	return true
}

func (s *shard) statusOf(id string) (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, exists := s.statuses[id]
	return status, exists
}

func (s *shard) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.statuses)
}

// counts adds this shard's per-status member counts into out.
func (s *shard) counts(out map[Status]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for status, ids := range s.members {
		out[status] += len(ids)
	}
}

// evictView exposes a shard to an eviction policy as a policy.Index.
// It is used only while the shard mutex is held, so its methods do not
// lock. Removals are recorded so the cache can report eviction events
// after the critical section.
type evictView struct {
	shard   *shard
	evicted *[]string
}

func (v *evictView) Len() int {
	return len(v.shard.statuses)
}

func (v *evictView) LeastRecent() (string, bool) {
	el := v.shard.recency.Back()
	if el == nil {
		return "", false
	}
	return el.Value.(string), true
}

func (v *evictView) LastUpdated(id string) (time.Time, bool) {
	last, exists := v.shard.freshness[id]
	return last, exists
}

func (v *evictView) Scan(fn func(id string, lastUpdated time.Time) bool) {
	for el := v.shard.recency.Back(); el != nil; el = el.Prev() {
		id := el.Value.(string)
		if !fn(id, v.shard.freshness[id]) {
			return
		}
	}
}

func (v *evictView) Remove(id string) {
	if v.shard.removeLocked(id) {
		*v.evicted = append(*v.evicted, id)
	}
}
