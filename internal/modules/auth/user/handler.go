package user

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users")

	users.POST("", h.register)
	users.GET("", authMW, middleware.RequireRole(models.RoleEditor, models.RoleAuthor), h.list)
	users.GET("/me", authMW, h.me)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errUsernameTaken), errors.Is(err, errEmailTaken), errors.Is(err, errInvalidRole):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(u, 0))
}

func (h *Handler) list(c *gin.Context) {
	users, counts, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]userResponse, len(users))
	for i, u := range users {
		items[i] = toResponse(&u, counts[u.ID])
	}
	response.OK(c, items)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.Get(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c, "User not found")
		return
	}
	response.OK(c, toResponse(u, 0))
}

func toResponse(u *models.UserModel, posts int64) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt.UTC().Format(time.RFC3339),
		PostsCount: posts,
	}
}
