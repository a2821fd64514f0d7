package response

import (
	"time"

	"heart-predict/internal/data/entity"
)

type AuthResponse struct {
	UserID     int64           `json:"user_id"`
	Token      string          `json:"token,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	Role       entity.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
}

type UserResponse struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	PhoneNumber *string         `json:"phone_number,omitempty"`
	Role        entity.UserRole `json:"role"`
	IsVerified  bool            `json:"is_verified"`
	CreatedAt   time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthToResponse omits the token when no session could be issued.
func AuthToResponse(user *entity.User, session *entity.Session, token string) AuthResponse {
	resp := AuthResponse{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}

	if session != nil && token != "" {
		expiresAt := session.ExpiresAt
		resp.Token = token
		resp.ExpiresAt = &expiresAt
	}

	return resp
}
