package handler

import "github.com/aegis-id/auth-service/internal/core/domain"

// registerRequest deliberately has no role field: the stored entity is
// built from an explicit allow-list of inputs and registration always
// yields a regular user. Unknown JSON fields are simply dropped by Bind.
type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}
