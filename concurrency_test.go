package devicecache_test

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/statuswatch/devicecache"
)

func TestConcurrentAccess(t *testing.T) {
	const (
		capacity   = 64
		goroutines = 8
		iterations = 500
	)

	c := newCache(t, devicecache.WithCapacity(capacity))
	statuses := devicecache.Statuses()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				id := fmt.Sprintf("device-%d", (g*iterations+i)%100)
				status := statuses[i%len(statuses)]
				if err := c.Update(id, status); err != nil {
					t.Errorf("Update() error = %v", err)
					return
				}
				if i%7 == 0 {
					if _, err := c.QueryByStatus(status); err != nil {
						t.Errorf("QueryByStatus() error = %v", err)
						return
					}
				}
				if i%31 == 0 {
					c.Remove(id)
				}
			}
		}(g)
	}
	wg.Wait()

	if got := c.Len(); got > capacity {
		t.Errorf("Len() = %d, want <= %d", got, capacity)
	}

	assertPartitionInvariant(t, c)
}

func TestConcurrentAccessSharded(t *testing.T) {
	const capacity = 64

	c := newCache(t,
		devicecache.WithCapacity(capacity),
		devicecache.WithShardCount(8),
	)
	statuses := devicecache.Statuses()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				id := fmt.Sprintf("device-%d-%d", g, i%50)
				if err := c.Update(id, statuses[i%len(statuses)]); err != nil {
					t.Errorf("Update() error = %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if got := c.Len(); got > capacity {
		t.Errorf("Len() = %d, want <= %d", got, capacity)
	}

	assertPartitionInvariant(t, c)
}

// assertPartitionInvariant checks that every live id sits in exactly one
// status bucket and that the buckets together cover the whole cache.
func assertPartitionInvariant(t *testing.T, c *devicecache.Cache) {
	t.Helper()

	seen := make(map[string]int)
	total := 0
	for _, status := range devicecache.Statuses() {
		ids, err := c.QueryByStatus(status)
		if err != nil {
			t.Fatalf("QueryByStatus(%v) error = %v", status, err)
		}
		if !sort.StringsAreSorted(ids) {
			t.Errorf("QueryByStatus(%v) result not sorted: %v", status, ids)
		}
		for _, id := range ids {
			seen[id]++
		}
		total += len(ids)
	}

	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %s appears in %d buckets, want 1", id, n)
		}
	}

	// The queries above swept any expired entries, so the union of the
	// buckets must now equal the live set.
	if got := c.Len(); got != total {
		t.Errorf("Len() = %d, union of buckets = %d", got, total)
	}
}
