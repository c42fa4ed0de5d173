package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// PublishJSONToStream appends data as a JSON "data" field plus a unix
// "timestamp" to stream. maxLen > 0 trims the stream approximately.
func PublishJSONToStream(ctx context.Context, client *redis.Client, stream string, maxLen int64, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode stream entry: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"data":      string(raw),
			"timestamp": time.Now().Unix(),
		},
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return client.XAdd(ctx, args).Result()
}
