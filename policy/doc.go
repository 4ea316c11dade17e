// Package policy defines pluggable eviction strategies for the device
// status cache.
//
// A Policy is handed an Index, a consistent view of the cache's freshness
// and recency state, and must shrink it until the entry count is within
// the given bound. Removing an id through the Index removes it from every
// internal view at once, so policies cannot leave the cache in a partially
// evicted state.
//
// The default strategy is LRU. Random, TTLFirst, and Lua-scripted variants
// are provided; Func adapts a plain function into a Policy.
package policy
