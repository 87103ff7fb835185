package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/sessions"
	"github.com/inkpress/core/internal/pkg/sessions/sessionstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gateFixture struct {
	store    *sessionstest.Store
	registry *sessions.Registry
	ledger   *sessions.Ledger
	router   *gin.Engine
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	store := sessionstest.New()
	ledger := sessions.NewLedger(store)
	registry := sessions.NewRegistry(store, ledger, nil)

	r := gin.New()
	authMW := Auth(registry, ledger)
	r.GET("/protected", authMW, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": CurrentUserID(c),
			"role":    CurrentRole(c),
			"jti":     CurrentJTI(c),
		})
	})
	r.PUT("/publish", authMW, RequireRole(models.RoleEditor, models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
	})

	return &gateFixture{store: store, registry: registry, ledger: ledger, router: r}
}

func (f *gateFixture) issue(t *testing.T, userID, role string, ttl time.Duration) (string, string) {
	t.Helper()
	token, jti, err := jwt.Sign(userID, role, ttl)
	require.NoError(t, err)
	require.NoError(t, f.registry.Create(context.Background(), userID, jti, "test-agent", "127.0.0.1", ttl))
	return token, jti
}

func (f *gateFixture) request(method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	f := newGateFixture(t)
	w := f.request(http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMalformedToken(t *testing.T) {
	f := newGateFixture(t)
	w := f.request(http.MethodGet, "/protected", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthExpiredToken(t *testing.T) {
	f := newGateFixture(t)
	token, _, err := jwt.Sign("user-1", models.RoleAuthor, -time.Minute)
	require.NoError(t, err)

	w := f.request(http.MethodGet, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthValidToken(t *testing.T) {
	f := newGateFixture(t)
	token, jti := f.issue(t, "user-1", models.RoleAuthor, time.Hour)

	w := f.request(http.MethodGet, "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, models.RoleAuthor, body["role"])
	assert.Equal(t, jti, body["jti"])
}

func TestAuthRevokedToken(t *testing.T) {
	f := newGateFixture(t)
	token, jti := f.issue(t, "user-1", models.RoleAuthor, time.Hour)

	require.NoError(t, f.ledger.Revoke(context.Background(), jti, time.Hour))

	// Every request after revocation is rejected, with the same body an
	// invalid token would produce.
	for i := 0; i < 3; i++ {
		w := f.request(http.MethodGet, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	invalid := f.request(http.MethodGet, "/protected", "garbage")
	revoked := f.request(http.MethodGet, "/protected", token)
	assert.JSONEq(t, invalid.Body.String(), revoked.Body.String())
}

func TestAuthFailsClosedOnStoreError(t *testing.T) {
	f := newGateFixture(t)
	token, _ := f.issue(t, "user-1", models.RoleAuthor, time.Hour)
	f.store.Fail = true

	w := f.request(http.MethodGet, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthTouchUpdatesLastActive(t *testing.T) {
	f := newGateFixture(t)
	token, _ := f.issue(t, "user-1", models.RoleAuthor, time.Hour)

	views, err := f.registry.List(context.Background(), "user-1")
	require.NoError(t, err)
	created := views[0].CreatedAt

	time.Sleep(5 * time.Millisecond)
	w := f.request(http.MethodGet, "/protected", token)
	require.Equal(t, http.StatusOK, w.Code)

	views, err = f.registry.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, created, views[0].LastActive)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"author is not implicitly an editor", models.RoleAuthor, http.StatusForbidden},
		{"editor allowed", models.RoleEditor, http.StatusOK},
		{"admin allowed", models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			token, _ := f.issue(t, "user-1", tt.role, time.Hour)
			w := f.request(http.MethodPut, "/publish", token)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"abc", "abc"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeToken(tt.raw))
	}
}
