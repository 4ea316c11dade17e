// Package devicecache provides an in-memory cache of device statuses with
// TTL expiry and capacity-bound LRU eviction.
//
// The cache tracks the current status of a set of named devices, indexes
// them by status for fast enumeration, and keeps three internal views
// consistent under concurrent access: a membership index (status -> ids),
// a freshness index (id -> last update time), and a recency order used for
// eviction. Expired entries are swept lazily when their status bucket is
// queried; the capacity bound is enforced synchronously on every update.
//
// Basic usage:
//
//	cache, err := devicecache.New(
//		devicecache.WithCapacity(1024),
//		devicecache.WithTTL(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cache.Close()
//
//	cache.Update("device-1", devicecache.StatusWorkingNormally)
//	ids, _ := cache.QueryByStatus(devicecache.StatusWorkingNormally)
//	fmt.Println(ids)
//
// The library supports:
//
//   - Pluggable eviction policies (LRU by default, see the policy package)
//   - Optional hash-based sharding for concurrent workloads
//   - Optional background sweeping of expired entries
//   - Observer hooks and metrics collection for monitoring
//   - Graceful shutdown of owned goroutines
//
// For runnable demos, see the examples/ directory.
package devicecache
