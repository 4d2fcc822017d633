package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-search-service/internal/config"
	"user-search-service/internal/usecase/user"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	return cfg
}

func TestNewContainer_Embedded(t *testing.T) {
	cfg := loadConfig(t)

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.Nil(t, c.DB)
	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.RateLimiter)
	assert.NotNil(t, c.Snapshot)
	assert.Empty(t, c.WatchPath)
	assert.NotEmpty(t, c.OpenAPI)

	resp, err := c.UserUC.SearchUsers(context.Background(), user.SearchUsersRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.Pagination.Total)

	// Nothing to watch returns immediately.
	assert.NoError(t, c.WatchDataset(context.Background()))
}

func TestNewContainer_SQLiteSeeded(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"id": 1, "name": "Ada Lovelace", "email": "ada@example.com"},
		{"id": 2, "name": "Alan Turing", "email": "alan@example.com"}
	]`), 0o600))

	cfg := loadConfig(t)
	cfg.Dataset.Source = config.SourceSQLite
	cfg.Dataset.SeedPath = seed
	cfg.DB.SQLitePath = filepath.Join(dir, "users.db")

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	require.NotNil(t, c.DB)
	resp, err := c.UserUC.SearchUsers(context.Background(), user.SearchUsersRequest{Search: "turing", Page: 1})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, int64(2), resp.Users[0].ID)
}

func TestNewContainer_FileWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "name": "Ada Lovelace", "email": "ada@example.com"}]`), 0o600))

	cfg := loadConfig(t)
	cfg.Dataset.Source = config.SourceFile
	cfg.Dataset.Path = path
	cfg.Dataset.Watch = true

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.Equal(t, path, c.WatchPath)
}

func TestNewContainer_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := loadConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	require.NotNil(t, c.RedisClient)
	require.NotNil(t, c.RateLimiter)

	_, err = c.UserUC.SearchUsers(context.Background(), user.SearchUsersRequest{Search: "smith", Page: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys(), "the computed page should be cached in redis")
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Dataset.Source = "s3"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
