package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-search-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func testPage() *domain.PageResult {
	return &domain.PageResult{
		Users: []domain.User{
			{ID: 1, Name: "John Doe", Email: "john@example.com"},
		},
		Pagination: domain.NewPagination(11, 1, domain.PerPage),
	}
}

func TestRedisPageCache_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisPageCache(client, 5*time.Minute, zaptest.NewLogger(t))
	key := PageKey{Version: "abc", Search: "john", Page: 1}

	require.NoError(t, cache.Set(context.Background(), key, testPage()))
	assert.True(t, mr.Exists(key.String()))
	assert.Equal(t, 5*time.Minute, mr.TTL(key.String()))

	got, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testPage(), got)
}

func TestRedisPageCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisPageCache(client, time.Minute, zaptest.NewLogger(t))

	got, err := cache.Get(context.Background(), PageKey{Version: "abc", Page: 1})
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPageCache_Get_Expired(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisPageCache(client, time.Minute, zaptest.NewLogger(t))
	key := PageKey{Version: "abc", Page: 1}

	require.NoError(t, cache.Set(context.Background(), key, testPage()))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(context.Background(), key)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPageCache_Get_Corrupt(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisPageCache(client, time.Minute, zaptest.NewLogger(t))
	key := PageKey{Version: "abc", Page: 1}

	require.NoError(t, mr.Set(key.String(), "not json"))

	got, err := cache.Get(context.Background(), key)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisPageCache_Set_NilPage(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisPageCache(client, time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), PageKey{Version: "abc", Page: 1}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil page")
}

func TestRedisPageCache_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisPageCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := cache.Get(context.Background(), PageKey{Version: "abc", Page: 1})
	assert.Error(t, err)
}

func TestPageKey_String(t *testing.T) {
	a := PageKey{Version: "v1", Search: "john", Page: 1}
	b := PageKey{Version: "v2", Search: "john", Page: 1}
	c := PageKey{Version: "v1", Search: "john", Page: 2}
	d := PageKey{Version: "v1", Search: "jane", Page: 1}

	assert.Contains(t, a.String(), "usersearch:page:v1:1:")
	assert.NotEqual(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), c.String())
	assert.NotEqual(t, a.String(), d.String())
}
