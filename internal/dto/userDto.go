package dto

import (
	"time"

	"titlehub/internal/models"
)

// CreateUserRequest is the admin-provisioning payload.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Role     string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	Bio      string `json:"bio" binding:"omitempty,max=500"`
}

// UpdateUserRequest is the admin patch; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=254"`
	Role  *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
	Bio   *string `json:"bio" binding:"omitempty,max=500"`
}

// UpdateMeRequest accepts a role field for wire compatibility, but it is
// silently ignored for non-admin callers.
type UpdateMeRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=254"`
	Bio   *string `json:"bio" binding:"omitempty,max=500"`
	Role  *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedUserResponse(data []UserResponse, total, page, pageSize int) *PaginatedUserResponse {
	return &PaginatedUserResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
