package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"clinic-portal/internal/model"
)

const DefaultResetStream = "clinic:password-resets"

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStream appends each delivery to a Redis stream that a mail worker
// consumes.
type RedisStream struct {
	client streamAdder
	stream string
	maxLen int64
}

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStream(client streamAdder, stream string) *RedisStream {
	if stream == "" {
		stream = DefaultResetStream
	}
	return &RedisStream{client: client, stream: stream, maxLen: 10000}
}

func (r *RedisStream) DeliverReset(ctx context.Context, d model.ResetDelivery) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode reset delivery: %w", err)
	}

	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":      "password_reset",
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish reset to %s: %w", r.stream, err)
	}
	return nil
}
