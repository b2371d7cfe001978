package handler

import "github.com/aegis-id/auth-service/internal/core/domain"

type changeRoleRequest struct {
	Role domain.Role `json:"role" validate:"required,oneof=user admin"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type userListResponse struct {
	Users []domain.User `json:"users"`
}
