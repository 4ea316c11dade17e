package devicecache

import "time"

// sweepLoop runs in the background and eagerly removes expired entries.
//
// Lazy expiry only reclaims an entry when its bucket is queried, so a
// written-once-never-queried workload can carry dead entries until LRU
// pressure pushes them out. The sweeper closes that gap. It is opt-in via
// WithCleanupInterval; without it the capacity bound alone limits memory.
func (c *Cache) sweepLoop() {
	defer close(c.cleanupDone)

	ticker := time.NewTicker(c.config.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.cleanupStop:
			return
		case now := <-ticker.C:
			c.performSweep(now)
		}
	}
}

// performSweep removes expired entries from every shard and reports them.
func (c *Cache) performSweep(now time.Time) {
	var expired []string
	for _, sh := range c.shards {
		expired = append(expired, sh.sweep(now, c.config.ttl)...)
	}
	if len(expired) == 0 {
		return
	}

	c.Stats.add(0, 0, 0, int64(len(expired)), 0)

	if c.config.metrics != nil {
		c.config.metrics.RecordExpiration(int64(len(expired)))
		c.config.metrics.RecordDeviceCount(int64(c.Len()))
	}

	observers := c.observerSnapshot()
	for _, id := range expired {
		c.config.logger.Debug("device expired", Field{Key: "id", Value: id})
		for _, observer := range observers {
			observer.OnDeviceExpired(id)
		}
	}
}
