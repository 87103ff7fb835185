package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	jwtpkg "github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/sessions"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/login", h.login)
	a.POST("/logout", authMW, h.logout)
	a.GET("/sessions", authMW, h.listSessions)
	a.POST("/revoke-session/:jti", authMW, h.revokeSession)
	a.POST("/logout_all", authMW, h.logoutAll)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, jti, err := h.svc.Login(c.Request.Context(), dto.Email, dto.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{AccessToken: token, JTI: jti})
}

func (h *Handler) logout(c *gin.Context) {
	subject := middleware.CurrentUserID(c)
	jti := middleware.CurrentJTI(c)

	// The tombstone only needs to outlive the token itself.
	remaining := h.svc.tokenTTL
	if claims, err := jwtpkg.Parse(middleware.NormalizeToken(c.GetHeader("Authorization"))); err == nil {
		remaining = claims.Remaining(time.Now())
	}

	if err := h.svc.Logout(c.Request.Context(), subject, jti, remaining); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Msg(c, "Successfully logged out")
}

func (h *Handler) listSessions(c *gin.Context) {
	views, err := h.svc.ListSessions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if views == nil {
		views = []sessions.View{}
	}
	response.OK(c, gin.H{"sessions": views})
}

func (h *Handler) revokeSession(c *gin.Context) {
	jti := c.Param("jti")
	err := h.svc.RevokeSession(c.Request.Context(), middleware.CurrentUserID(c), jti)
	if err != nil {
		if errors.Is(err, errSessionNotFound) {
			response.NotFound(c, "Session not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Msg(c, "Session "+jti+" revoked successfully.")
}

func (h *Handler) logoutAll(c *gin.Context) {
	if err := h.svc.LogoutAll(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Msg(c, "Logged out from all sessions")
}
