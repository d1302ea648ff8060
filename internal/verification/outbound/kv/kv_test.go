package kv

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverid/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*KV, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return NewKV(client, instrument.NewNoop()), server
}

func TestKV_SetGet(t *testing.T) {
	store, server := newTestKV(t)

	err := store.Set(t.Context(), "otp:+628123", "secret-value", 3*time.Minute)
	require.NoError(t, err)

	value, found, err := store.Get(t.Context(), "otp:+628123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "secret-value", value)

	remaining := server.TTL("otp:+628123")
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 3*time.Minute)
}

func TestKV_GetMissing(t *testing.T) {
	store, _ := newTestKV(t)

	value, found, err := store.Get(t.Context(), "absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestKV_GetAfterExpiry(t *testing.T) {
	store, server := newTestKV(t)

	require.NoError(t, store.Set(t.Context(), "otp:+628123", "secret-value", time.Minute))

	server.FastForward(2 * time.Minute)

	_, found, err := store.Get(t.Context(), "otp:+628123")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKV_Del(t *testing.T) {
	store, _ := newTestKV(t)

	require.NoError(t, store.Set(t.Context(), "a", "1", 0))
	require.NoError(t, store.Set(t.Context(), "b", "2", 0))

	err := store.Del(t.Context(), "a", "b", "never-existed")
	require.NoError(t, err)

	_, found, err := store.Get(t.Context(), "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKV_Incr(t *testing.T) {
	store, _ := newTestKV(t)

	count, err := store.Incr(t.Context(), "reqs:+628123")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.Incr(t.Context(), "reqs:+628123")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestKV_Expire(t *testing.T) {
	store, server := newTestKV(t)

	_, err := store.Incr(t.Context(), "reqs:+628123")
	require.NoError(t, err)

	err = store.Expire(t.Context(), "reqs:+628123", 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, server.TTL("reqs:+628123"))
}

func TestKV_Unavailable(t *testing.T) {
	store, server := newTestKV(t)
	server.Close()

	_, _, err := store.Get(t.Context(), "any")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = store.Set(t.Context(), "any", "v", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.Incr(t.Context(), "any")
	assert.ErrorIs(t, err, ErrUnavailable)
}
