package auth

import (
	"context"
	"errors"
	"time"

	"github.com/inkpress/core/internal/models"
	jwtpkg "github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service issues bearer tokens and administers the sessions they open.
type Service struct {
	db       *gorm.DB
	registry *sessions.Registry
	ledger   *sessions.Ledger
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewService(db *gorm.DB, registry *sessions.Registry, ledger *sessions.Ledger, tokenTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, registry: registry, ledger: ledger, tokenTTL: tokenTTL, log: log}
}

// Login verifies the credentials and mints a signed token carrying the
// user's identity and a snapshot of their current role. The matching
// session record is written with TTL equal to the token lifetime.
func (s *Service) Login(ctx context.Context, email, password, device, ip string) (token, jti string, err error) {
	var u models.UserModel
	if err := s.db.Select("id, password, role").
		Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", errInvalidCredentials
		}
		return "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", errInvalidCredentials
	}

	token, jti, err = jwtpkg.Sign(u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", "", err
	}
	if err := s.registry.Create(ctx, u.ID, jti, device, ip, s.tokenTTL); err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// Logout revokes the presented token and removes its session record.
// Idempotent: revoking an already revoked jti and deleting an absent
// record are both no-ops. A crash between the two writes leaves a
// revoked-but-listed session, which the tombstone still governs.
func (s *Service) Logout(ctx context.Context, subject, jti string, remaining time.Duration) error {
	if err := s.ledger.Revoke(ctx, jti, remaining); err != nil {
		return err
	}
	if err := s.registry.Remove(ctx, subject, jti); err != nil {
		s.log.Warn("session remove failed after revoke", zap.String("jti", jti), zap.Error(err))
	}
	return nil
}

// ListSessions returns the caller's own sessions only.
func (s *Service) ListSessions(ctx context.Context, subject string) ([]sessions.View, error) {
	return s.registry.List(ctx, subject)
}

// RevokeSession revokes one of the caller's sessions by jti. The session
// record must exist under the caller's own identity; guessing another
// user's jti yields errSessionNotFound, not a revocation.
func (s *Service) RevokeSession(ctx context.Context, subject, jti string) error {
	exists, err := s.registry.Exists(ctx, subject, jti)
	if err != nil {
		return err
	}
	if !exists {
		return errSessionNotFound
	}

	ttl := s.registry.Remaining(ctx, subject, jti, s.tokenTTL)
	if err := s.ledger.Revoke(ctx, jti, ttl); err != nil {
		return err
	}
	if err := s.registry.Remove(ctx, subject, jti); err != nil {
		s.log.Warn("session remove failed after revoke", zap.String("jti", jti), zap.Error(err))
	}
	return nil
}

// LogoutAll sweeps every session of the subject. Best-effort: a failure
// on one entry is logged and the sweep continues.
func (s *Service) LogoutAll(ctx context.Context, subject string) error {
	views, err := s.registry.List(ctx, subject)
	if err != nil {
		return err
	}
	for _, v := range views {
		ttl := s.registry.Remaining(ctx, subject, v.JTI, s.tokenTTL)
		if err := s.ledger.Revoke(ctx, v.JTI, ttl); err != nil {
			s.log.Warn("revoke failed during logout-all", zap.String("jti", v.JTI), zap.Error(err))
			continue
		}
		if err := s.registry.Remove(ctx, subject, v.JTI); err != nil {
			s.log.Warn("session remove failed during logout-all", zap.String("jti", v.JTI), zap.Error(err))
		}
	}
	return nil
}
