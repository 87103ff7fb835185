package user

import (
	"errors"

	"github.com/inkpress/core/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Register creates a user with a bcrypt password hash. Role defaults to
// author and must be one of the enumerated roles when given.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	role := dto.Role
	if role == "" {
		role = models.RoleAuthor
	}
	if !models.ValidRole(role) {
		return nil, errInvalidRole
	}

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("username = ?", dto.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errUsernameTaken
	}
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", dto.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{
		Username: dto.Username,
		Email:    dto.Email,
		Password: string(hash),
		Role:     role,
	}
	return &u, s.db.Create(&u).Error
}

// List returns all users with their post counts.
func (s *Service) List() ([]models.UserModel, map[string]int64, error) {
	var users []models.UserModel
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int64, len(users))
	type row struct {
		AuthorID string
		N        int64
	}
	var rows []row
	if err := s.db.Model(&models.PostModel{}).
		Select("author_id, COUNT(*) AS n").
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.N
	}
	return users, counts, nil
}

// Get loads one user by id. Returns (nil, nil) when absent.
func (s *Service) Get(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
