package tag

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

type tagResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PostsCount int64  `json:"posts_count"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.list)
}

func (h *Handler) list(c *gin.Context) {
	var tags []models.TagModel
	if err := h.db.Order("name ASC").Find(&tags).Error; err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]tagResponse, len(tags))
	for i, t := range tags {
		var n int64
		if err := h.db.Table("post_tags").Where("tag_model_id = ?", t.ID).Count(&n).Error; err != nil {
			response.InternalError(c, err)
			return
		}
		items[i] = tagResponse{ID: t.ID, Name: t.Name, PostsCount: n}
	}
	response.OK(c, items)
}
