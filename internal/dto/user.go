package dto

import (
	"time"

	"github.com/yschu/twitter/backend/internal/models"
)

// UserResponse is the public user representation (safe for API responses).
// The password hash never leaves the models layer.
type UserResponse struct {
	ID           string    `json:"id"`
	Account      string    `json:"account"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	Cover        string    `json:"cover"`
	Introduction string    `json:"introduction"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountResponse is the trimmed shape returned by the account-settings
// update: callers re-fetch the full profile separately.
type AccountResponse struct {
	ID      string `json:"id"`
	Account string `json:"account"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// ProfileResponse is a user enriched with social counts relative to the
// authenticated principal.
type ProfileResponse struct {
	UserResponse
	TweetCount     int64 `json:"tweetCount"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	IsFollowed     bool  `json:"isFollowed"`
}

// ToUserResponse converts models.User to UserResponse
func ToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}

	return &UserResponse{
		ID:           user.ID,
		Account:      user.Account,
		Name:         user.Name,
		Email:        user.Email,
		Avatar:       user.Avatar,
		Cover:        user.Cover,
		Introduction: user.Introduction,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}

// ToAccountResponse converts models.User to the trimmed account shape
func ToAccountResponse(user *models.User) *AccountResponse {
	if user == nil {
		return nil
	}

	return &AccountResponse{
		ID:      user.ID,
		Account: user.Account,
		Name:    user.Name,
		Email:   user.Email,
	}
}
