package redis

import (
	"context"
	"time"
)

// Client defines the interface for the Redis client backing snapshot
// persistence: connection lifecycle plus the single get/set pair the
// snapshot store needs to read and write a trading pair's serialized
// book.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) bool

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
