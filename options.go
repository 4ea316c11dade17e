package devicecache

import (
	"time"

	"github.com/statuswatch/devicecache/policy"
)

// Default configuration values
const (
	DefaultCapacity = 1024
	DefaultTTL      = 5 * time.Minute
)

// config holds the configuration for a Cache
type config struct {
	// Capacity and freshness
	capacity int
	ttl      time.Duration

	// Eviction
	policy policy.Policy
	shards int

	// Background sweeping (0 = lazy expiry only)
	cleanupInterval time.Duration

	// Observability
	logger  Logger
	metrics MetricsCollector
}

// defaultConfig returns a configuration with sensible defaults
func defaultConfig() *config {
	return &config{
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		shards:   1,
		logger:   &defaultLogger{},
	}
}

// Option represents a configuration option for a Cache
type Option func(*config) error

// WithCapacity sets the maximum number of live entries. When an update
// would exceed the bound, the eviction policy runs before the call
// returns.
//
// Example:
//
//	WithCapacity(10_000)
func WithCapacity(capacity int) Option {
	return func(c *config) error {
		if capacity <= 0 {
			return ErrInvalidConfig
		}
		c.capacity = capacity
		return nil
	}
}

// WithTTL sets how long an entry stays valid without a refreshing update.
// Stale entries are dropped lazily when their status bucket is queried.
//
// Example:
//
//	WithTTL(30 * time.Second)
func WithTTL(ttl time.Duration) Option {
	return func(c *config) error {
		if ttl <= 0 {
			return ErrInvalidConfig
		}
		c.ttl = ttl
		return nil
	}
}

// WithEvictionPolicy sets the eviction strategy (default: policy.LRU).
//
// Example:
//
//	WithEvictionPolicy(policy.NewTTLFirst(30*time.Second, nil))
func WithEvictionPolicy(p policy.Policy) Option {
	return func(c *config) error {
		if p == nil {
			return ErrInvalidConfig
		}
		c.policy = p
		return nil
	}
}

// WithShardCount sets the number of shards for the cache
// The number is automatically rounded up to the next power of 2
//
// With more than one shard, ids are hashed to shards and the capacity is
// split between them, so LRU ordering is approximate across the cache as
// a whole. The default of 1 keeps a single critical section and exact
// eviction order.
//
// Example:
//
//	WithShardCount(16)
func WithShardCount(count int) Option {
	return func(c *config) error {
		if count <= 0 {
			return ErrInvalidConfig
		}
		c.shards = nextPowerOf2(count)
		return nil
	}
}

// WithCleanupInterval enables a background sweep that removes expired
// entries even when their bucket is never queried. Disabled by default;
// lazy expiry plus the capacity bound keep memory bounded without it.
//
// Example:
//
//	WithCleanupInterval(time.Minute)
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *config) error {
		if interval < 0 {
			return ErrInvalidConfig
		}
		c.cleanupInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger for the cache
//
// Example:
//
//	WithLogger(myCustomLogger)
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return ErrInvalidConfig
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics enables metrics collection with the provided collector
//
// Example:
//
//	WithMetrics(myMetricsCollector)
func WithMetrics(collector MetricsCollector) Option {
	return func(c *config) error {
		c.metrics = collector
		return nil
	}
}

// nextPowerOf2 returns the next power of 2 >= n
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
