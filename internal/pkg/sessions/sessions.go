// Package sessions tracks issued bearer tokens in a shared key-value
// store: one session record per live token, plus a revocation tombstone
// per explicitly revoked jti. All coordination is delegated to the
// store; nothing here takes in-process locks.
package sessions

import (
	"context"
	"time"
)

// Store is the slice of the Redis client the session subsystem needs.
// *redis.Client (internal/pkg/redis) satisfies it; tests substitute an
// in-memory implementation.
type Store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

// Hash field names of a session record.
const (
	fieldDevice     = "device"
	fieldIP         = "ip"
	fieldCreatedAt  = "created_at"
	fieldLastActive = "last_active"
)

// ExpiresSentinel marks a session whose key has outlived its TTL but
// not yet been removed by the store.
const ExpiresSentinel = "expired"

const deviceMaxLen = 128

// View is one session as presented to its owner.
type View struct {
	JTI        string `json:"jti"`
	Device     string `json:"device"`
	IP         string `json:"ip"`
	CreatedAt  string `json:"created_at"`
	LastActive string `json:"last_active"`
	Revoked    bool   `json:"revoked"`
	ExpiresAt  string `json:"expires_at"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// TruncateDevice bounds a client-supplied agent string.
func TruncateDevice(ua string) string {
	if ua == "" {
		return "Unknown"
	}
	if len(ua) > deviceMaxLen {
		return ua[:deviceMaxLen]
	}
	return ua
}
