package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStorage keeps the serialized cart under a single Redis key. Used when
// the core runs as a shared backend-for-frontend rather than on-device.
// Semantics match FileStorage: Load never fails, Save errors are advisory.
type RedisStorage struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

// NewRedisStorage connects to addr ("host:port" or a redis:// URL) and binds
// the storage to key.
func NewRedisStorage(ctx context.Context, addr, key string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStorage{client: client, key: key, ctx: ctx}, nil
}

func (r *RedisStorage) Load() State {
	raw, err := r.client.Get(r.ctx, r.key).Bytes()
	if err != nil {
		return State{}
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}
	}
	if s == nil {
		return State{}
	}
	return s
}

func (r *RedisStorage) Save(s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(r.ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
