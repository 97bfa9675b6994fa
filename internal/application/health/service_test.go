package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func TestCollectHealth_WithNilRedis(t *testing.T) {
	ctx := context.Background()
	result := CollectHealth(ctx, nil, nil)
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disabled", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)

	result = CollectHealth(ctx, nil, fakePinger{})
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["database"].Status)
	assert.NotNil(t, result.Dependencies["database"].PingMs)
}

func TestCollectHealth_DatabaseError(t *testing.T) {
	result := CollectHealth(context.Background(), nil, fakePinger{err: errors.New("database is closed")})
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	// No keys set: should get status "connected" for Redis, traffic zeros
	result := CollectHealth(ctx, rdb, fakePinger{})
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "100", result.Traffic.SuccessRate)
	assert.True(t, mr.Exists("health:global:start_time"))

	// Set traffic keys (same as middleware)
	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:start_time", "1000000", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:last_request", `{"method":"GET","path":"/api/assets"}`, 0).Err())

	result2 := CollectHealth(ctx, rdb, fakePinger{})
	assert.Equal(t, 10, result2.Traffic.TotalRequests)
	assert.Equal(t, 2, result2.Traffic.FailedCount)
	assert.Equal(t, 8, result2.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result2.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result2.Traffic.AvgResponseTime)
	assert.Equal(t, "/api/assets", result2.Traffic.LastRequest.(map[string]interface{})["path"])
	assert.Greater(t, result2.Runtime.UptimeSeconds, int64(0))
}

func TestCollectHealth_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	result := CollectHealth(context.Background(), rdb, fakePinger{})
	assert.Equal(t, "error", result.Dependencies["redis"].Status)
	assert.Equal(t, "issue", result.Status)
}
