package post

import (
	"errors"
	"time"

	"github.com/inkpress/core/internal/models"
)

type CreatePostDTO struct {
	Title      string   `json:"title"   binding:"required,max=255"`
	Slug       string   `json:"slug"`
	BodyMD     string   `json:"body_md" binding:"required"`
	BodyHTML   string   `json:"body_html"`
	Status     string   `json:"status"`
	CategoryID *string  `json:"category_id"`
	Tags       []string `json:"tags"`
}

type UpdatePostDTO struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	BodyMD     *string   `json:"body_md"`
	BodyHTML   *string   `json:"body_html"`
	Status     *string   `json:"status"`
	CategoryID *string   `json:"category_id"`
	Tags       *[]string `json:"tags"`
}

type ListQuery struct {
	Status     string `form:"status"`
	CategoryID string `form:"category_id"`
	AuthorID   string `form:"author_id"`
}

type postResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Author        string             `json:"author,omitempty"`
	Category      string             `json:"category,omitempty"`
	Tags          []string           `json:"tags"`
	CommentsCount int                `json:"comments_count"`
	VersionsCount int                `json:"versions_count"`
	BodyMD        string             `json:"body_md,omitempty"`
	BodyHTML      string             `json:"body_html,omitempty"`
	Analytics     *analyticsResponse `json:"analytics,omitempty"`
}

type analyticsResponse struct {
	Views           int `json:"views"`
	Likes           int `json:"likes"`
	ReadTimeSeconds int `json:"read_time_seconds"`
}

var (
	errPostNotFound  = errors.New("post not found")
	errInvalidStatus = errors.New("invalid status")
)

func validStatus(status string) bool {
	switch status {
	case models.PostStatusDraft, models.PostStatusPending, models.PostStatusPublished, models.PostStatusArchived:
		return true
	}
	return false
}

func toResponse(p *models.PostModel, includeBody bool) postResponse {
	r := postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Tags:          make([]string, 0, len(p.Tags)),
		CommentsCount: len(p.Comments),
		VersionsCount: len(p.Versions),
	}
	if p.Author != nil {
		r.Author = p.Author.Username
	}
	if p.Category != nil {
		r.Category = p.Category.Name
	}
	for _, t := range p.Tags {
		r.Tags = append(r.Tags, t.Name)
	}
	if includeBody {
		r.BodyMD = p.BodyMD
		r.BodyHTML = p.BodyHTML
	}
	if p.Analytics != nil {
		r.Analytics = &analyticsResponse{
			Views:           p.Analytics.Views,
			Likes:           p.Analytics.Likes,
			ReadTimeSeconds: p.Analytics.ReadTimeSeconds,
		}
	}
	return r
}
