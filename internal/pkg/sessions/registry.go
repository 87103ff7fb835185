package sessions

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Registry records one entry per issued token, keyed by (subject, jti).
// Record lifetime always equals the token lifetime; the store's own key
// expiry removes records the service never gets to delete.
type Registry struct {
	store  Store
	ledger *Ledger
	log    *zap.Logger
}

func NewRegistry(store Store, ledger *Ledger, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, ledger: ledger, log: log}
}

// Create writes the session record for a freshly issued token.
func (r *Registry) Create(ctx context.Context, subject, jti, device, ip string, ttl time.Duration) error {
	now := timestamp(time.Now())
	key := SessionKey(subject, jti)
	if err := r.store.HSet(ctx, key, map[string]string{
		fieldDevice:     TruncateDevice(device),
		fieldIP:         ip,
		fieldCreatedAt:  now,
		fieldLastActive: now,
	}); err != nil {
		return err
	}
	return r.store.Expire(ctx, key, ttl)
}

// List returns all of the subject's sessions, each annotated with its
// revocation state and computed expiry. Entries whose key vanished or
// whose TTL is non-positive are marked expired rather than failing the
// whole call; the store's expiry will prune them.
func (r *Registry) List(ctx context.Context, subject string) ([]View, error) {
	keys, err := r.store.ScanKeys(ctx, SubjectPattern(subject))
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(keys))
	for _, key := range keys {
		jti := JTIFromSessionKey(key)
		if jti == "" {
			continue
		}

		fields, err := r.store.HGetAll(ctx, key)
		if err != nil {
			r.log.Warn("session fetch failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if len(fields) == 0 {
			// Raced with key expiry between SCAN and HGETALL.
			continue
		}

		revoked, err := r.ledger.IsRevoked(ctx, jti)
		if err != nil {
			r.log.Warn("tombstone check failed", zap.String("jti", jti), zap.Error(err))
			continue
		}

		expiresAt := ExpiresSentinel
		if ttl, err := r.store.TTL(ctx, key); err == nil && ttl > 0 {
			expiresAt = timestamp(time.Now().Add(ttl))
		}

		views = append(views, View{
			JTI:        jti,
			Device:     fields[fieldDevice],
			IP:         fields[fieldIP],
			CreatedAt:  fields[fieldCreatedAt],
			LastActive: fields[fieldLastActive],
			Revoked:    revoked,
			ExpiresAt:  expiresAt,
		})
	}
	return views, nil
}

// Touch updates the session's last-active timestamp. Best-effort: an
// already-expired or concurrently removed record is a silent no-op, and
// store errors are logged, never returned.
func (r *Registry) Touch(ctx context.Context, subject, jti string) {
	key := SessionKey(subject, jti)
	exists, err := r.store.Exists(ctx, key)
	if err != nil || !exists {
		return
	}
	if err := r.store.HSet(ctx, key, map[string]string{
		fieldLastActive: timestamp(time.Now()),
	}); err != nil {
		r.log.Debug("session touch failed", zap.String("key", key), zap.Error(err))
	}
}

// Exists reports whether (subject, jti) has a live session record.
func (r *Registry) Exists(ctx context.Context, subject, jti string) (bool, error) {
	return r.store.Exists(ctx, SessionKey(subject, jti))
}

// Remaining returns the session record's remaining TTL. Since records
// are created with TTL equal to the token lifetime, this is also the
// token's maximum remaining lifetime. Non-positive results fall back to
// fallback, which is a conservative upper bound for tombstones.
func (r *Registry) Remaining(ctx context.Context, subject, jti string, fallback time.Duration) time.Duration {
	ttl, err := r.store.TTL(ctx, SessionKey(subject, jti))
	if err != nil || ttl <= 0 {
		return fallback
	}
	return ttl
}

// Remove deletes the session record. Idempotent.
func (r *Registry) Remove(ctx context.Context, subject, jti string) error {
	return r.store.Del(ctx, SessionKey(subject, jti))
}
