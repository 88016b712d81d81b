package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb)
}

func TestSaveGetDelete(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, store.Save(ctx, 7, "first", time.Hour))
	require.NoError(t, store.Save(ctx, 7, "second", time.Hour))

	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "second", got)

	raw, err := mr.Get("refresh:7")
	require.NoError(t, err)
	require.Equal(t, "second", raw)
	require.Equal(t, time.Hour, mr.TTL("refresh:7"))

	require.NoError(t, store.Delete(ctx, 7))
	require.NoError(t, store.Delete(ctx, 7))
	got, err = store.Get(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTokenExpires(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestErrorsWhenServerDown(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), 1)
	require.Error(t, err)
	require.Error(t, store.Ping(context.Background()))
}
