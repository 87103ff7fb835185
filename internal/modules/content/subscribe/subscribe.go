package subscribe

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

type SubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/subscribers", h.create)
	rg.GET("/subscribers", authMW, h.list)
}

func (h *Handler) create(c *gin.Context) {
	var dto SubscribeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var count int64
	if err := h.db.Model(&models.SubscriberModel{}).Where("email = ?", dto.Email).Count(&count).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	if count > 0 {
		response.BadRequest(c, "Email already subscribed")
		return
	}

	sub := models.SubscriberModel{
		Email:        dto.Email,
		Active:       true,
		SubscribedAt: time.Now(),
	}
	if err := h.db.Create(&sub).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, sub)
}

func (h *Handler) list(c *gin.Context) {
	var subs []models.SubscriberModel
	if err := h.db.Where("active = ?", true).Order("subscribed_at DESC").Find(&subs).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, subs)
}
