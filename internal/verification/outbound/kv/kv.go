package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnavailable indicates the backing store could not serve the operation.
// Callers surface it; they never retry here.
var ErrUnavailable = errors.New("kv: store unavailable")

// KV is the Redis-backed counter store adapter.
type KV struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

// NewKV constructs the Redis adapter.
func NewKV(client *redis.Client, ins instrument.Instrumentation) *KV {
	return &KV{client: client, ins: ins}
}

func (k *KV) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return k.ins.Tracer("verification.outbound.kv").Start(ctx, name)
}

func (k *KV) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// Set stores value under key, overwriting any prior value and TTL.
func (k *KV) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	ctx, span := k.startSpan(ctx, "Set")
	defer func() { k.endSpan(span, err) }()

	if err := k.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("set", err)
	}
	return nil
}

// Get returns the value under key and whether it exists.
func (k *KV) Get(ctx context.Context, key string) (value string, found bool, err error) {
	ctx, span := k.startSpan(ctx, "Get")
	defer func() { k.endSpan(span, err) }()

	value, err = k.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", err)
	}
	return value, true, nil
}

// Del removes keys; absent keys are not an error.
func (k *KV) Del(ctx context.Context, keys ...string) (err error) {
	ctx, span := k.startSpan(ctx, "Del")
	defer func() { k.endSpan(span, err) }()

	if err := k.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable("del", err)
	}
	return nil
}

// Incr atomically increments key, creating it at 1 when absent.
func (k *KV) Incr(ctx context.Context, key string) (count int64, err error) {
	ctx, span := k.startSpan(ctx, "Incr")
	defer func() { k.endSpan(span, err) }()

	count, err = k.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable("incr", err)
	}
	return count, nil
}

// Expire sets or refreshes the TTL on an existing key.
func (k *KV) Expire(ctx context.Context, key string, ttl time.Duration) (err error) {
	ctx, span := k.startSpan(ctx, "Expire")
	defer func() { k.endSpan(span, err) }()

	if err := k.client.Expire(ctx, key, ttl).Err(); err != nil {
		return unavailable("expire", err)
	}
	return nil
}
