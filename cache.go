package devicecache

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/statuswatch/devicecache/policy"
)

// Cache is a concurrency-safe in-memory cache of device statuses with TTL
// expiry and a capacity-bound eviction policy.
//
// A device id maps to exactly one status at a time. Every update moves the
// id to its new status bucket, refreshes its timestamp, bumps its recency,
// and then enforces the capacity bound synchronously. Queries sweep the
// touched bucket for expired entries before answering.
//
// Construct with New; the zero value is not usable.
type Cache struct {
	// Configuration
	config *config

	// Sharded index state
	shards    []*shard
	shardMask uint64
	policy    policy.Policy

	// State
	mu        sync.RWMutex
	observers []CacheObserver
	closed    bool

	// Background sweeping
	cleanupStop chan struct{}
	cleanupDone chan struct{}

	// Statistics (exported for monitoring)
	Stats CacheStats
}

// New creates a new Cache with the given options
//
// Example:
//
//	cache, err := devicecache.New(
//		devicecache.WithCapacity(1024),
//		devicecache.WithTTL(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cache.Close()
func New(opts ...Option) (*Cache, error) {
	cfg := defaultConfig()

	// Apply options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Every shard needs at least one slot of the capacity budget
	if cfg.capacity < cfg.shards {
		return nil, ErrInvalidConfig
	}

	pol := cfg.policy
	if pol == nil {
		pol = policy.LRU{}
	}

	c := &Cache{
		config:    cfg,
		shards:    make([]*shard, cfg.shards),
		shardMask: uint64(cfg.shards - 1),
		policy:    pol,
	}

	// Split the capacity across shards; the first capacity%shards shards
	// take the remainder so the per-shard bounds sum to the total.
	base := cfg.capacity / cfg.shards
	rem := cfg.capacity % cfg.shards
	for i := range c.shards {
		capacity := base
		if i < rem {
			capacity++
		}
		c.shards[i] = newShard(capacity)
	}

	if cfg.cleanupInterval > 0 {
		c.cleanupStop = make(chan struct{})
		c.cleanupDone = make(chan struct{})
		go c.sweepLoop()
	}

	return c, nil
}

// shardFor returns the shard owning an id.
func (c *Cache) shardFor(id string) *shard {
	return c.shards[xxhash.Sum64String(id)&c.shardMask]
}

// Update records a status observation for a device.
//
// The device is moved into the status bucket (created on first sight),
// its freshness timestamp is reset, and it becomes the most recently used
// entry. The eviction policy then runs, so the capacity bound holds by
// the time Update returns. A full cache is not an error; the coldest
// entries are evicted to make room.
//
// The only failure conditions are a status outside the declared set and
// an already-closed cache.
func (c *Cache) Update(id string, status Status) error {
	if !status.Valid() {
		return &InvalidStatusError{Status: status}
	}
	if c.isClosed() {
		return ErrClosed
	}

	start := time.Now()
	evicted := c.shardFor(id).update(id, status, start, c.policy)

	c.Stats.add(1, 0, int64(len(evicted)), 0, 0)

	if c.config.metrics != nil {
		c.config.metrics.RecordUpdate(status, time.Since(start))
		if len(evicted) > 0 {
			c.config.metrics.RecordEviction(int64(len(evicted)))
		}
	}

	observers := c.observerSnapshot()
	for _, observer := range observers {
		observer.OnDeviceUpdated(id, status)
	}
	for _, victim := range evicted {
		c.config.logger.Debug("device evicted", Field{Key: "id", Value: victim})
		for _, observer := range observers {
			observer.OnDeviceEvicted(victim)
		}
	}

	return nil
}

// QueryByStatus returns the ids currently in the given status, sorted
// lexicographically for a deterministic order.
//
// Entries whose TTL elapsed since their last update are removed from the
// cache as a side effect and excluded from the result. An empty bucket
// yields an empty slice, not an error.
func (c *Cache) QueryByStatus(status Status) ([]string, error) {
	if !status.Valid() {
		return nil, &InvalidStatusError{Status: status}
	}
	if c.isClosed() {
		return nil, ErrClosed
	}

	start := time.Now()
	live := make([]string, 0)
	var expired []string
	for _, sh := range c.shards {
		shardLive, shardExpired := sh.query(status, start, c.config.ttl)
		live = append(live, shardLive...)
		expired = append(expired, shardExpired...)
	}
	sort.Strings(live)

	c.Stats.add(0, 1, 0, int64(len(expired)), 0)

	if c.config.metrics != nil {
		c.config.metrics.RecordQuery(status, time.Since(start))
		if len(expired) > 0 {
			c.config.metrics.RecordExpiration(int64(len(expired)))
		}
	}

	if len(expired) > 0 {
		observers := c.observerSnapshot()
		for _, id := range expired {
			c.config.logger.Debug("device expired", Field{Key: "id", Value: id})
			for _, observer := range observers {
				observer.OnDeviceExpired(id)
			}
		}
	}

	return live, nil
}

// Remove deletes a device from every view of the cache. It reports
// whether the device was present; removing an absent id is a no-op.
func (c *Cache) Remove(id string) bool {
	if c.isClosed() {
		return false
	}

	removed := c.shardFor(id).remove(id)
	if removed {
		c.Stats.add(0, 0, 0, 0, 1)
		for _, observer := range c.observerSnapshot() {
			observer.OnDeviceRemoved(id)
		}
	}
	return removed
}

// StatusOf returns the current status of a device. Expired-but-unswept
// entries still report their last status; expiry is applied on query.
func (c *Cache) StatusOf(id string) (Status, bool) {
	return c.shardFor(id).statusOf(id)
}

// Contains reports whether a device is currently cached.
func (c *Cache) Contains(id string) bool {
	_, exists := c.StatusOf(id)
	return exists
}

// Len returns the number of live entries across all shards.
func (c *Cache) Len() int {
	total := 0
	for _, sh := range c.shards {
		total += sh.len()
	}
	return total
}

// Counts returns the number of cached devices per status.
func (c *Cache) Counts() map[Status]int {
	counts := make(map[Status]int, statusCount)
	for _, st := range Statuses() {
		counts[st] = 0
	}
	for _, sh := range c.shards {
		sh.counts(counts)
	}
	return counts
}

// Info returns cache information
func (c *Cache) Info() map[string]interface{} {
	counts := make(map[string]int, statusCount)
	for status, n := range c.Counts() {
		counts[status.String()] = n
	}

	return map[string]interface{}{
		"devices":   c.Len(),
		"capacity":  c.config.capacity,
		"ttl":       c.config.ttl.String(),
		"shards":    len(c.shards),
		"by_status": counts,
		"version":   Version,
	}
}

// AddObserver adds a cache observer
func (c *Cache) AddObserver(observer CacheObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, observer)
}

func (c *Cache) observerSnapshot() []CacheObserver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.observers) == 0 {
		return nil
	}
	observers := make([]CacheObserver, len(c.observers))
	copy(observers, c.observers)
	return observers
}

func (c *Cache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close stops the background sweeper, if any, and marks the cache closed.
// Further updates and queries return ErrClosed. Close is safe to call
// multiple times.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
		<-c.cleanupDone
	}

	c.config.logger.Info("cache closed")
	return nil
}
