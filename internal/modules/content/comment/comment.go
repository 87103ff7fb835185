package comment

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/middleware"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

type CreateCommentDTO struct {
	PostID   string  `json:"post_id" binding:"required"`
	Body     string  `json:"body"    binding:"required"`
	ParentID *string `json:"parent_id"`
}

type commentResponse struct {
	ID           string            `json:"id"`
	PostID       string            `json:"post_id"`
	UserID       string            `json:"user_id"`
	Username     string            `json:"username,omitempty"`
	Body         string            `json:"body"`
	ParentID     *string           `json:"parent_id"`
	CreatedAt    time.Time         `json:"created_at"`
	RepliesCount int               `json:"replies_count"`
	Replies      []commentResponse `json:"replies,omitempty"`
}

var (
	errPostNotFound   = errors.New("post not found")
	errParentNotFound = errors.New("parent comment not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListForPost returns top-level comments for a post, newest first, with
// one level of replies preloaded.
func (s *Service) ListForPost(postID string) ([]models.CommentModel, error) {
	var count int64
	if err := s.db.Model(&models.PostModel{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errPostNotFound
	}

	var comments []models.CommentModel
	err := s.db.
		Preload("User").
		Preload("Replies").
		Preload("Replies.User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// Create adds a comment; a reply must reference a parent on the same post.
func (s *Service) Create(dto *CreateCommentDTO, userID string) (*models.CommentModel, error) {
	var count int64
	if err := s.db.Model(&models.PostModel{}).Where("id = ?", dto.PostID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errPostNotFound
	}

	if dto.ParentID != nil {
		if err := s.db.Model(&models.CommentModel{}).
			Where("id = ? AND post_id = ?", *dto.ParentID, dto.PostID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errParentNotFound
		}
	}

	cm := models.CommentModel{
		PostID:   dto.PostID,
		UserID:   userID,
		Body:     dto.Body,
		ParentID: dto.ParentID,
	}
	if err := s.db.Create(&cm).Error; err != nil {
		return nil, err
	}
	return &cm, s.db.Preload("User").First(&cm, "id = ?", cm.ID).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/posts/:id/comments", h.listForPost)
	rg.POST("/comments", authMW, h.create)
}

func (h *Handler) listForPost(c *gin.Context) {
	comments, err := h.svc.ListForPost(c.Param("id"))
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	items := make([]commentResponse, len(comments))
	for i, cm := range comments {
		items[i] = toResponse(&cm, true)
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cm, err := h.svc.Create(&dto, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, errPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, errParentNotFound):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(cm, false))
}

func toResponse(cm *models.CommentModel, includeReplies bool) commentResponse {
	r := commentResponse{
		ID:           cm.ID,
		PostID:       cm.PostID,
		UserID:       cm.UserID,
		Body:         cm.Body,
		ParentID:     cm.ParentID,
		CreatedAt:    cm.CreatedAt,
		RepliesCount: len(cm.Replies),
	}
	if cm.User != nil {
		r.Username = cm.User.Username
	}
	if includeReplies {
		for _, reply := range cm.Replies {
			r.Replies = append(r.Replies, toResponse(&reply, false))
		}
	}
	return r
}
