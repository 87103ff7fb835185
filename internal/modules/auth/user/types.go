package user

import "errors"

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at"`
	PostsCount int64  `json:"posts_count"`
}

var (
	errUsernameTaken = errors.New("username already exists")
	errEmailTaken    = errors.New("email already exists")
	errInvalidRole   = errors.New("invalid role")
)
