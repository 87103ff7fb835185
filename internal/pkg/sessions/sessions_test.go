package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkpress/core/internal/pkg/sessions"
	"github.com/inkpress/core/internal/pkg/sessions/sessionstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*sessions.Registry, *sessions.Ledger, *sessionstest.Store) {
	t.Helper()
	store := sessionstest.New()
	ledger := sessions.NewLedger(store)
	registry := sessions.NewRegistry(store, ledger, nil)
	return registry, ledger, store
}

func TestRegistryCreateAndList(t *testing.T) {
	ctx := context.Background()
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "Mozilla/5.0", "10.0.0.1", time.Hour))
	require.NoError(t, registry.Create(ctx, "user-1", "jti-2", "curl/8.0", "10.0.0.2", time.Hour))
	require.NoError(t, registry.Create(ctx, "user-2", "jti-3", "Mozilla/5.0", "10.0.0.3", time.Hour))

	views, err := registry.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	seen := map[string]sessions.View{}
	for _, v := range views {
		seen[v.JTI] = v
		assert.False(t, v.Revoked)
		assert.NotEqual(t, sessions.ExpiresSentinel, v.ExpiresAt)
		assert.NotEmpty(t, v.CreatedAt)
		assert.Equal(t, v.CreatedAt, v.LastActive)
	}
	assert.Contains(t, seen, "jti-1")
	assert.Contains(t, seen, "jti-2")
	assert.Equal(t, "10.0.0.1", seen["jti-1"].IP)
	assert.Equal(t, "curl/8.0", seen["jti-2"].Device)

	// user-2's session never leaks into user-1's listing.
	assert.NotContains(t, seen, "jti-3")
}

func TestRegistryListMarksRevoked(t *testing.T) {
	ctx := context.Background()
	registry, ledger, _ := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "ua", "ip", time.Hour))
	require.NoError(t, ledger.Revoke(ctx, "jti-1", time.Hour))

	// Revoked but not removed: the stale record stays listed with the
	// revoked flag rather than erroring, until its own TTL prunes it.
	views, err := registry.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Revoked)
}

func TestRegistryListMarksExpired(t *testing.T) {
	ctx := context.Background()
	registry, _, store := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "ua", "ip", time.Hour))
	// Key present but without a positive TTL.
	store.SetExpiry(sessions.SessionKey("user-1", "jti-1"), time.Time{})

	views, err := registry.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, sessions.ExpiresSentinel, views[0].ExpiresAt)
}

func TestRegistryTouch(t *testing.T) {
	ctx := context.Background()
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "ua", "ip", time.Hour))

	views, err := registry.List(ctx, "user-1")
	require.NoError(t, err)
	created := views[0].CreatedAt

	time.Sleep(5 * time.Millisecond)
	registry.Touch(ctx, "user-1", "jti-1")

	views, err = registry.List(ctx, "user-1")
	require.NoError(t, err)

	createdAt, err := time.Parse(time.RFC3339Nano, created)
	require.NoError(t, err)
	lastActive, err := time.Parse(time.RFC3339Nano, views[0].LastActive)
	require.NoError(t, err)
	assert.True(t, lastActive.After(createdAt), "last_active should advance past created_at")
}

func TestRegistryTouchMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	registry, _, store := newRegistry(t)

	// Touching a session that never existed must not create a record.
	registry.Touch(ctx, "user-1", "jti-ghost")
	exists, err := store.Exists(ctx, sessions.SessionKey("user-1", "jti-ghost"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "ua", "ip", time.Hour))
	require.NoError(t, registry.Remove(ctx, "user-1", "jti-1"))
	require.NoError(t, registry.Remove(ctx, "user-1", "jti-1"))

	exists, err := registry.Exists(ctx, "user-1", "jti-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegistryRemaining(t *testing.T) {
	ctx := context.Background()
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Create(ctx, "user-1", "jti-1", "ua", "ip", time.Hour))

	remaining := registry.Remaining(ctx, "user-1", "jti-1", 2*time.Hour)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	// Absent session falls back to the conservative bound.
	assert.Equal(t, 2*time.Hour, registry.Remaining(ctx, "user-1", "jti-ghost", 2*time.Hour))
}

func TestLedgerRevokeIdempotent(t *testing.T) {
	ctx := context.Background()
	store := sessionstest.New()
	ledger := sessions.NewLedger(store)

	revoked, err := ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "jti-1", time.Hour))
	require.NoError(t, ledger.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLedgerRevokeExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	store := sessionstest.New()
	ledger := sessions.NewLedger(store)

	require.NoError(t, ledger.Revoke(ctx, "jti-1", 0))
	revoked, err := ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLedgerStoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := sessionstest.New()
	ledger := sessions.NewLedger(store)
	store.Fail = true

	_, err := ledger.IsRevoked(ctx, "jti-1")
	assert.ErrorIs(t, err, sessionstest.ErrStoreDown)
}
