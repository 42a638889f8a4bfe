package dto

import (
	"time"

	"main/model"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UserResponse is the outward shape of an account. Profile is projected from
// the stored filename to an absolute URL; it stays empty when no picture has
// been uploaded.
type UserResponse struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Profile   string    `json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(user *model.User, baseURL string) UserResponse {
	resp := UserResponse{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Profile != "" {
		resp.Profile = baseURL + "/uploads/profiles/" + user.Profile
	}
	return resp
}
