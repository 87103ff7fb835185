package auth

import "errors"

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	JTI         string `json:"jti,omitempty"`
}

var (
	// errInvalidCredentials covers both unknown email and wrong
	// password; the response never distinguishes them.
	errInvalidCredentials = errors.New("invalid credentials")
	errSessionNotFound    = errors.New("session not found")
)
