package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/go-redis/redis/v8"
)

// RedisStreamSink appends scene events to a Redis stream
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink creates a sink from configuration. No connection is
// made until the first event.
func NewRedisStreamSink(cfg config.RedisConfig) *RedisStreamSink {
	return NewRedisStreamSinkWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.Stream, cfg.MaxLen)
}

// NewRedisStreamSinkWithClient creates a sink on an existing client
func NewRedisStreamSinkWithClient(client *redis.Client, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Name() string {
	return "redis"
}

// Send adds one entry with data, timestamp and request_id fields
func (s *RedisStreamSink) Send(ctx context.Context, event SceneEvent) error {
	data, err := json.Marshal(event.Rooms)
	if err != nil {
		return fmt.Errorf("failed to marshal rooms: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"data":       string(data),
			"timestamp":  event.Timestamp.Unix(),
			"request_id": event.RequestID,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("XADD %s: %w", s.stream, err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStreamSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStreamSink) Close() error {
	return s.client.Close()
}
