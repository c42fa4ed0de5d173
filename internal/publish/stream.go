package publish

import (
	"context"
	"fmt"

	commonredis "dcmonitor/common/redis"
	"dcmonitor/internal/domain"

	"github.com/go-redis/redis/v8"
)

// StreamPublisher appends one entry per room to a Redis stream.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, stream string, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *StreamPublisher) Name() string { return "redis-stream" }

func (p *StreamPublisher) Publish(ctx context.Context, snap domain.SensorSnapshot) error {
	for _, room := range splitByRoom(snap) {
		if _, err := commonredis.PublishJSONToStream(ctx, p.client, p.stream, p.maxLen, room); err != nil {
			return fmt.Errorf("xadd room %s: %w", room.RoomID, err)
		}
	}
	return nil
}

// Close is a no-op; the Redis client is shared with the snapshot store.
func (p *StreamPublisher) Close() error { return nil }
