package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func signedIn() domainauth.Snapshot {
	return domainauth.Snapshot{
		Authenticated: true,
		User:          &domainauth.User{ID: "u1", Username: "alice", Email: "alice@example.com"},
		Cookies:       []domainauth.BackendCookie{{Name: "access_token", Value: "tok-u1"}},
		SavedAt:       testutil.TestTime(),
	}
}

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ws-1", signedIn(), time.Hour))

	got, err := store.Get(ctx, "ws-1")
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.Username)
	assert.Equal(t, []domainauth.BackendCookie{{Name: "access_token", Value: "tok-u1"}}, got.Cookies)
	assert.True(t, got.SavedAt.Equal(testutil.TestTime()))

	ttl := client.TTL(ctx, DefaultSnapshotPrefix+"ws-1").Val()
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestSnapshotStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_Delete(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ws-delete", signedIn(), time.Hour))
	require.NoError(t, store.Delete(ctx, "ws-delete"))

	_, err := store.Get(ctx, "ws-delete")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_SignedOutSnapshotDeletes(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ws-out", signedIn(), time.Hour))
	require.NoError(t, store.Save(ctx, "ws-out", domainauth.Snapshot{}, time.Hour))

	assert.Equal(t, int64(0), client.Exists(ctx, DefaultSnapshotPrefix+"ws-out").Val())
}

func TestSnapshotStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ws-ttl", signedIn(), 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "ws-ttl")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestSnapshotStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "prefix-test", signedIn(), time.Hour))
	assert.Equal(t, int64(1), client.Exists(ctx, "test-prefix:prefix-test").Val())

	_, err := store.Get(ctx, "prefix-test")
	require.NoError(t, err)
}

func TestSnapshotStore_InvalidArguments(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSnapshotStore(client)
	ctx := context.Background()

	err := store.Save(ctx, "", signedIn(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot ID cannot be empty")

	err = store.Save(ctx, "ws", signedIn(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ttl must be positive")

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}
