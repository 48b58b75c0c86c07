package sequence

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/incidentdesk/incident-service/pkg/metrics"
)

// RedisAllocator keeps the counter under a single Redis key and relies on
// INCR for atomicity.
type RedisAllocator struct {
	client *redis.Client
	key    string
}

// NewRedisAllocator uses key "counter:<name>".
func NewRedisAllocator(client *redis.Client, name string) *RedisAllocator {
	return &RedisAllocator{client: client, key: "counter:" + name}
}

// Init sets the counter to 0 when the key is absent.
func (r *RedisAllocator) Init(ctx context.Context) error {
	return r.client.SetNX(ctx, r.key, 0, 0).Err()
}

func (r *RedisAllocator) Next(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, err
	}
	metrics.SequenceAllocations.WithLabelValues("redis").Inc()
	return n, nil
}
