// Package testutil holds shared test fixtures: a fake blog backend and a
// redis connection for the snapshot store tests.
package testutil

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisAddr = "localhost:6379"
	// Tests use a high DB index so a developer's DB 0 is never flushed.
	defaultRedisDB = 13
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// TestTime is the fixed instant tests use for snapshot and notice timestamps.
func TestTime() time.Time {
	return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
}

func redisRequired() bool {
	switch strings.ToLower(os.Getenv("TEST_REQUIRE_REDIS")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func testRedisOptions(t TestingTB) *redis.Options {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		addr = defaultRedisAddr
	}
	db := defaultRedisDB
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			db = i
		} else {
			t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
		}
	}
	return &redis.Options{Addr: addr, DB: db}
}

// SetupTestRedis returns a client on an emptied test database. The test is
// skipped when redis is unreachable unless TEST_REQUIRE_REDIS is set, in
// which case it fails. The database is flushed again when the test ends.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	opts := testRedisOptions(t)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if redisRequired() {
			t.Fatalf("redis not available at %s: %v", opts.Addr, err)
		}
		t.Skipf("redis not available at %s: %v", opts.Addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis db %d: %v", opts.DB, err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.FlushDB(ctx).Err(); err != nil {
			t.Logf("warning: flush test redis db: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Logf("warning: close test redis client: %v", err)
		}
	})
	return client
}
