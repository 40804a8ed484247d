package cache

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"skill-bridge/internal/config"

	"github.com/redis/go-redis/v9"
)

var ErrUnavailable = errors.New("redis unavailable")

// Redis stores session values under "session:<id>:<key>" strings.
type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis connects and pings. It returns ErrUnavailable when the server
// cannot be reached so the caller can pick another store.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *log.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrUnavailable, err)
	}

	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis command failed: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetMany(ctx context.Context, namespace string, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, namespacedKey(namespace, k))
	}

	vals, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// SetMany writes values and deletes del inside one MULTI/EXEC block.
func (r *Redis) SetMany(ctx context.Context, namespace string, values map[string]string, del []string, ttl time.Duration) error {
	if len(values) == 0 && len(del) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, namespacedKey(namespace, k), v, ttl)
		}
		if len(del) > 0 {
			pipe.Del(ctx, namespacedKeys(namespace, del)...)
		}
		return nil
	})
	if err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// DeleteMany removes all keys with a single DEL, which Redis applies
// atomically.
func (r *Redis) DeleteMany(ctx context.Context, namespace string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, namespacedKeys(namespace, keys)...).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func namespacedKey(namespace, key string) string {
	return "session:" + namespace + ":" + key
}

func namespacedKeys(namespace string, keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, namespacedKey(namespace, k))
	}
	return out
}
