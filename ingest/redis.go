package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/statuswatch/devicecache"
)

// Sink receives device status observations. *devicecache.Cache satisfies
// this interface.
type Sink interface {
	Update(id string, status devicecache.Status) error
}

// RedisSource subscribes to a Redis pub/sub channel carrying heartbeat
// messages of the form "<device-id> <status>" and forwards each
// observation to a Sink. Malformed messages are logged and skipped.
type RedisSource struct {
	client  *redis.Client
	channel string
	sink    Sink
	logger  devicecache.Logger
}

// SourceOption configures a RedisSource
type SourceOption func(*RedisSource)

// WithSourceLogger sets a custom logger for the source
func WithSourceLogger(logger devicecache.Logger) SourceOption {
	return func(s *RedisSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClient supplies a pre-configured Redis client instead of dialing
// the address given to NewRedisSource.
func WithClient(client *redis.Client) SourceOption {
	return func(s *RedisSource) {
		if client != nil {
			s.client = client
		}
	}
}

// NewRedisSource creates a source that subscribes to channel on the Redis
// server at addr and forwards observations to sink.
func NewRedisSource(addr, channel string, sink Sink, opts ...SourceOption) *RedisSource {
	s := &RedisSource{
		channel: channel,
		sink:    sink,
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = redis.NewClient(&redis.Options{Addr: addr})
	}
	return s
}

// Run subscribes and forwards observations until ctx is cancelled or the
// subscription channel closes. Parse failures and sink errors are logged,
// never fatal; a heartbeat stream should survive a bad producer.
func (s *RedisSource) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	// Fail early if the subscription itself cannot be established.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			id, status, err := ParseObservation(msg.Payload)
			if err != nil {
				s.logger.Error("dropping malformed observation",
					devicecache.Field{Key: "payload", Value: msg.Payload},
					devicecache.Field{Key: "error", Value: err})
				continue
			}
			if err := s.sink.Update(id, status); err != nil {
				s.logger.Error("sink rejected observation",
					devicecache.Field{Key: "id", Value: id},
					devicecache.Field{Key: "error", Value: err})
			}
		}
	}
}

// Close releases the underlying Redis client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}

// ParseObservation parses a heartbeat payload of the form
// "<device-id> <status>". The status name is matched case-insensitively.
func ParseObservation(payload string) (string, devicecache.Status, error) {
	fields := strings.Fields(payload)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("expected \"<id> <status>\", got %q", payload)
	}
	status, err := devicecache.ParseStatus(fields[1])
	if err != nil {
		return "", 0, err
	}
	return fields[0], status, nil
}

// noopLogger discards all messages.
type noopLogger struct{}

func (noopLogger) Debug(string, ...devicecache.Field) {}
func (noopLogger) Info(string, ...devicecache.Field)  {}
func (noopLogger) Error(string, ...devicecache.Field) {}
