package devicecache

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Logger interface for custom logging implementations
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// MetricsCollector interface for metrics collection
type MetricsCollector interface {
	// RecordUpdate records a processed status update with its duration
	RecordUpdate(status Status, duration time.Duration)

	// RecordQuery records a status query with its duration
	RecordQuery(status Status, duration time.Duration)

	// RecordEviction records entries removed by the eviction policy
	RecordEviction(count int64)

	// RecordExpiration records entries removed because their TTL elapsed
	RecordExpiration(count int64)

	// RecordDeviceCount records the current number of live devices
	RecordDeviceCount(count int64)
}

// CacheObserver provides hooks for cache events.
//
// Observers are invoked outside the cache's critical section, so callbacks
// may call back into the cache without deadlocking. Callbacks should still
// return quickly; they run on the caller's goroutine.
type CacheObserver interface {
	OnDeviceUpdated(id string, status Status)
	OnDeviceEvicted(id string)
	OnDeviceExpired(id string)
	OnDeviceRemoved(id string)
}

// CacheStats provides counters for cache activity
type CacheStats struct {
	mu sync.RWMutex

	Updates     int64
	Queries     int64
	Evictions   int64
	Expirations int64
	Removals    int64
}

// GetUpdates returns the number of processed updates (thread-safe)
func (s *CacheStats) GetUpdates() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Updates
}

// GetQueries returns the number of processed queries (thread-safe)
func (s *CacheStats) GetQueries() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Queries
}

// GetEvictions returns the number of evicted entries (thread-safe)
func (s *CacheStats) GetEvictions() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Evictions
}

// GetExpirations returns the number of expired entries (thread-safe)
func (s *CacheStats) GetExpirations() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Expirations
}

// GetRemovals returns the number of explicit removals (thread-safe)
func (s *CacheStats) GetRemovals() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Removals
}

func (s *CacheStats) add(updates, queries, evictions, expirations, removals int64) {
	s.mu.Lock()
	s.Updates += updates
	s.Queries += queries
	s.Evictions += evictions
	s.Expirations += expirations
	s.Removals += removals
	s.mu.Unlock()
}

// defaultLogger is a simple logger implementation using the standard log package
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, fields ...Field) {
	l.logWithFields("DEBUG", msg, fields...)
}

func (l *defaultLogger) Info(msg string, fields ...Field) {
	l.logWithFields("INFO", msg, fields...)
}

func (l *defaultLogger) Error(msg string, fields ...Field) {
	l.logWithFields("ERROR", msg, fields...)
}

func (l *defaultLogger) logWithFields(level, msg string, fields ...Field) {
	logMsg := level + ": " + msg
	for _, field := range fields {
		logMsg += " " + field.Key + "=" + formatValue(field.Value)
	}
	log.Println(logMsg)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
