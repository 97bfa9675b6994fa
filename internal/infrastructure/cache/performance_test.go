package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name   string
	Values []float64
}

func setupCache(t *testing.T) (*Performance, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Performance{Rdb: rdb, TTL: time.Minute}, mr
}

func TestPerformance_SetGet(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	key, err := c.Key(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "perf:0:2024-01-01:2024-01-31", key)

	var miss entry
	ok, err := c.Get(ctx, key, &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, entry{Name: "total", Values: []float64{1, 2.5}}))
	var got entry
	ok, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry{Name: "total", Values: []float64{1, 2.5}}, got)
}

func TestPerformance_InvalidateChangesKey(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	before, err := c.Key(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, before, entry{Name: "x"}))

	require.NoError(t, c.Invalidate(ctx))
	after, err := c.Key(ctx, "a", "b")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	var got entry
	ok, err := c.Get(ctx, after, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(before))
}

func TestPerformance_Disabled(t *testing.T) {
	var c *Performance
	ctx := context.Background()
	key, err := c.Key(ctx, "a", "b")
	require.NoError(t, err)
	assert.Empty(t, key)
	require.NoError(t, c.Set(ctx, key, entry{}))
	ok, err := c.Get(ctx, key, &entry{})
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, c.Invalidate(ctx))
}

func TestOpen(t *testing.T) {
	rdb, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, rdb)

	_, err = Open("not a url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rdb, err = Open("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}
