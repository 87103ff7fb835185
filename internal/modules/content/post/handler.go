package post

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
)

// Announcer is told about newly published posts. May be nil.
type Announcer interface {
	AnnouncePost(ctx context.Context, title, slug, excerpt string)
}

// Handler handles post HTTP requests.
type Handler struct {
	svc       *Service
	announcer Announcer
}

func NewHandler(svc *Service, announcer Announcer) *Handler {
	return &Handler{svc: svc, announcer: announcer}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/:id", h.get)
	posts.POST("/:id/like", h.like)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
	authed.PUT("/publish/:slug",
		middleware.RequireRole(models.RoleEditor, models.RoleAdmin), h.publish)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p, false)
	}
	response.Paged(c, items, pag)
}

// get GET /posts/:id accepts an id or slug and increments the view counter.
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c, "Post not found")
		return
	}

	if err := h.svc.IncrementViews(post.ID); err == nil && post.Analytics != nil {
		post.Analytics.Views++
	}
	response.OK(c, toResponse(post, true))
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(&dto, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, errInvalidStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(post, true))
}

// update PUT /posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, errInvalidStatus):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, toResponse(post, true))
}

// publish PUT /posts/publish/:slug, roles editor and admin only.
func (h *Handler) publish(c *gin.Context) {
	post, err := h.svc.Publish(c.Param("slug"))
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	if h.announcer != nil {
		h.announcer.AnnouncePost(c.Request.Context(), post.Title, post.Slug, excerpt(post.BodyMD))
	}
	response.OK(c, toResponse(post, true))
}

// delete DELETE /posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Msg(c, "Post deleted successfully")
}

const excerptMaxLen = 200

func excerpt(md string) string {
	s := strings.TrimSpace(md)
	runes := []rune(s)
	if len(runes) <= excerptMaxLen {
		return s
	}
	return string(runes[:excerptMaxLen]) + "..."
}

// like POST /posts/:id/like
func (h *Handler) like(c *gin.Context) {
	likes, err := h.svc.Like(c.Param("id"))
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"msg": "Post liked", "likes": likes})
}
