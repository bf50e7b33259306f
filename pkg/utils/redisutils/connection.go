// The redisutils package simplifies and automates recurring operations like
// connecting to, formatting for, and parsing from Redis.
package redisutils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultAddr = "localhost:6379"
	TestAddr    = "localhost:6380"
)

// SetupClient() initializes a new Redis client connected to the specified address.
func SetupClient(addr string) *redis.Client {
	if addr == "" {
		addr = DefaultAddr
	}
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

// SetupTestClient() initializes a new Redis client for testing.
func SetupTestClient() *redis.Client {
	return SetupClient(TestAddr)
}

// Ping() returns an error if the server can't be reached within the timeout.
func Ping(ctx context.Context, cl *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := cl.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis at %s is unreachable: %w", cl.Options().Addr, err)
	}
	return nil
}

// CleanupRedis() cleans up the Redis database between tests to ensure isolation.
func CleanupRedis(cl *redis.Client) {
	cl.FlushAll(context.Background())
}
