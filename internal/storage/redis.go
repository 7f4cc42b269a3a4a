package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymbros/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores every key as a plain redis string under keyPrefix+key.
type RedisBackend struct {
	rdb       *redis.Client
	keyPrefix string
}

func NewRedisBackend(rdb *redis.Client, keyPrefix string) *RedisBackend {
	return &RedisBackend{
		rdb:       rdb,
		keyPrefix: keyPrefix,
	}
}

// Client exposes the underlying client, e.g. for the request rate limiter.
func (r *RedisBackend) Client() *redis.Client {
	return r.rdb
}

func (r *RedisBackend) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.redis.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if errors.Is(err, ErrKeyNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, err := r.rdb.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.redis.set")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, r.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Remove(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.redis.remove")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.rdb.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Driver() Driver {
	return DriverRedis
}

func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}
