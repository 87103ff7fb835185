package sessions

import (
	"context"
	"time"
)

const tombstoneValue = "revoked"

// Ledger records revoked token identifiers. A tombstone's presence makes
// its token invalid regardless of signature or expiry; tombstone TTL is
// bounded by the token's remaining lifetime, so the ledger never grows
// past the set of tokens that could still verify.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Revoke writes a tombstone for jti. Idempotent: revoking an already
// revoked jti rewrites the tombstone with the (shorter or equal) ttl.
func (l *Ledger) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing left to revoke.
		return nil
	}
	return l.store.Set(ctx, TombstoneKey(jti), tombstoneValue, ttl)
}

// IsRevoked reports whether jti has a tombstone. Single key lookup; this
// runs on the hot path of every authorized request.
func (l *Ledger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return l.store.Exists(ctx, TombstoneKey(jti))
}
