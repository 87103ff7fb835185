package post

import (
	"errors"
	"fmt"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/pagination"
	"github.com/inkpress/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of posts. Status defaults to published;
// "all" disables the status filter.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.PostModel, response.Pagination, error) {
	status := lq.Status
	if status == "" {
		status = models.PostStatusPublished
	}

	tx := s.db.Model(&models.PostModel{}).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC")

	if status != "all" {
		tx = tx.Where("status = ?", status)
	}
	if lq.CategoryID != "" {
		tx = tx.Where("category_id = ?", lq.CategoryID)
	}
	if lq.AuthorID != "" {
		tx = tx.Where("author_id = ?", lq.AuthorID)
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetByIdentifier fetches a post by ID first, then falls back to slug.
// Returns (nil, nil) when absent.
func (s *Service) GetByIdentifier(identifier string) (*models.PostModel, error) {
	var post models.PostModel
	err := s.db.
		Preload("Author").Preload("Category").Preload("Tags").
		Preload("Versions").Preload("Comments").Preload("Analytics").
		Where("id = ? OR slug = ?", identifier, identifier).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a post with a generated (or given) slug, its initial
// analytics row and its tags. Slug collisions get a timestamp suffix.
func (s *Service) Create(dto *CreatePostDTO, authorID string) (*models.PostModel, error) {
	status := dto.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !validStatus(status) {
		return nil, errInvalidStatus
	}

	slug := dto.Slug
	if slug == "" {
		slug = GenerateSlug(dto.Title)
	}
	unique, err := s.uniqueSlug(slug, "")
	if err != nil {
		return nil, err
	}

	post := models.PostModel{
		Title:      dto.Title,
		Slug:       unique,
		BodyMD:     dto.BodyMD,
		BodyHTML:   dto.BodyHTML,
		Status:     status,
		AuthorID:   authorID,
		CategoryID: dto.CategoryID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PostAnalyticsModel{PostID: post.ID}).Error; err != nil {
			return err
		}
		if len(dto.Tags) > 0 {
			tags, err := resolveTags(tx, dto.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByIdentifier(post.ID)
}

// Update snapshots the current body as a new version, then applies the
// given fields. A title change without an explicit slug re-derives it.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var versionCount int64
		if err := tx.Model(&models.PostVersionModel{}).Where("post_id = ?", post.ID).Count(&versionCount).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PostVersionModel{
			PostID:        post.ID,
			VersionNumber: int(versionCount) + 1,
			BodyMD:        post.BodyMD,
		}).Error; err != nil {
			return err
		}

		if dto.Title != nil {
			post.Title = *dto.Title
			if dto.Slug == nil {
				slug, err := s.uniqueSlugTx(tx, GenerateSlug(post.Title), post.ID)
				if err != nil {
					return err
				}
				post.Slug = slug
			}
		}
		if dto.Slug != nil {
			slug, err := s.uniqueSlugTx(tx, *dto.Slug, post.ID)
			if err != nil {
				return err
			}
			post.Slug = slug
		}
		if dto.BodyMD != nil {
			post.BodyMD = *dto.BodyMD
		}
		if dto.BodyHTML != nil {
			post.BodyHTML = *dto.BodyHTML
		}
		if dto.Status != nil {
			if !validStatus(*dto.Status) {
				return errInvalidStatus
			}
			post.Status = *dto.Status
		}
		if dto.CategoryID != nil {
			post.CategoryID = dto.CategoryID
		}
		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		if dto.Tags != nil {
			tags, err := resolveTags(tx, *dto.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByIdentifier(post.ID)
}

// Publish flips the post with the given slug to published. The route is
// role-gated; the service itself only cares that the post exists.
func (s *Service) Publish(slug string) (*models.PostModel, error) {
	res := s.db.Model(&models.PostModel{}).
		Where("slug = ?", slug).
		Update("status", models.PostStatusPublished)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errPostNotFound
	}
	return s.GetByIdentifier(slug)
}

// Delete removes a post; versions, comments and analytics cascade.
func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.PostModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errPostNotFound
	}
	return nil
}

// IncrementViews bumps the view counter. Best-effort; a missing
// analytics row is created on the fly.
func (s *Service) IncrementViews(postID string) error {
	res := s.db.Model(&models.PostAnalyticsModel{}).
		Where("post_id = ?", postID).
		Update("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.db.Create(&models.PostAnalyticsModel{PostID: postID, Views: 1}).Error
	}
	return nil
}

// Like bumps the like counter and returns the new count.
func (s *Service) Like(postID string) (int, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errPostNotFound
		}
		return 0, err
	}

	res := s.db.Model(&models.PostAnalyticsModel{}).
		Where("post_id = ?", postID).
		Update("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.db.Create(&models.PostAnalyticsModel{PostID: postID, Likes: 1}).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var analytics models.PostAnalyticsModel
	if err := s.db.Where("post_id = ?", postID).First(&analytics).Error; err != nil {
		return 0, err
	}
	return analytics.Likes, nil
}

func (s *Service) uniqueSlug(slug, excludeID string) (string, error) {
	return s.uniqueSlugTx(s.db, slug, excludeID)
}

func (s *Service) uniqueSlugTx(tx *gorm.DB, slug, excludeID string) (string, error) {
	var count int64
	q := tx.Model(&models.PostModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return slug, nil
	}
	return fmt.Sprintf("%s-%d", slug, time.Now().Unix()), nil
}

func resolveTags(tx *gorm.DB, names []string) ([]models.TagModel, error) {
	tags := make([]models.TagModel, 0, len(names))
	for _, name := range names {
		var tag models.TagModel
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.TagModel{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
