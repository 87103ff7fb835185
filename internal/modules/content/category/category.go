package category

import (
	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,max=50"`
}

type categoryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PostsCount int64  `json:"posts_count"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]categoryResponse, error) {
	var cats []models.CategoryModel
	if err := s.db.Order("created_at ASC").Find(&cats).Error; err != nil {
		return nil, err
	}

	items := make([]categoryResponse, len(cats))
	for i, cat := range cats {
		var n int64
		if err := s.db.Model(&models.PostModel{}).Where("category_id = ?", cat.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		items[i] = categoryResponse{ID: cat.ID, Name: cat.Name, PostsCount: n}
	}
	return items, nil
}

func (s *Service) Create(name string) (*models.CategoryModel, error) {
	cat := models.CategoryModel{Name: name}
	return &cat, s.db.Create(&cat).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.POST("", authMW, h.create)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(dto.Name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, categoryResponse{ID: cat.ID, Name: cat.Name})
}
