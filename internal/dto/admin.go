package dto

import (
	"time"

	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/repository"
)

// Moderation listings truncate tweet bodies to keep rows scannable
const adminTweetPreviewLength = 50

// FollowUserResponse is one entry in a followers/followings listing
type FollowUserResponse struct {
	UserResponse
	IsFollowed bool      `json:"isFollowed"`
	FollowedAt time.Time `json:"followedAt"`
}

// TopUserResponse is one entry in the recommended-users listing
type TopUserResponse struct {
	UserResponse
	FollowerCount int64 `json:"followerCount"`
	IsFollowed    bool  `json:"isFollowed"`
}

// AdminUserResponse is a user with engagement counters for the admin
// dashboard
type AdminUserResponse struct {
	UserResponse
	TweetCount     int64 `json:"tweetCount"`
	LikeCount      int64 `json:"likeCount"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// AdminTweetResponse is a tweet row in the moderation listing with a
// truncated body
type AdminTweetResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	User        *UserResponse `json:"user,omitempty"`
}

// PaginatedUsers wraps an admin user listing with paging info
type PaginatedUsers struct {
	Users      []*AdminUserResponse `json:"users"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int64                `json:"totalPages"`
}

// ToFollowUserResponse converts a follow-list entry to its API shape
func ToFollowUserResponse(entry *repository.FollowListEntry) *FollowUserResponse {
	if entry == nil {
		return nil
	}

	return &FollowUserResponse{
		UserResponse: *ToUserResponse(&entry.User),
		IsFollowed:   entry.IsFollowed,
		FollowedAt:   entry.FollowedAt,
	}
}

// ToTopUserResponse converts a ranked user to its API shape
func ToTopUserResponse(ranked *repository.RankedUser) *TopUserResponse {
	if ranked == nil {
		return nil
	}

	return &TopUserResponse{
		UserResponse:  *ToUserResponse(&ranked.User),
		FollowerCount: ranked.FollowerCount,
		IsFollowed:    ranked.IsFollowed,
	}
}

// ToAdminUserResponse converts an admin listing entry to its API shape
func ToAdminUserResponse(entry *repository.AdminUserEntry) *AdminUserResponse {
	if entry == nil {
		return nil
	}

	return &AdminUserResponse{
		UserResponse:   *ToUserResponse(&entry.User),
		TweetCount:     entry.TweetCount,
		LikeCount:      entry.LikeCount,
		FollowerCount:  entry.FollowerCount,
		FollowingCount: entry.FollowingCount,
	}
}

// ToAdminTweetResponse converts a tweet to its moderation-listing shape
func ToAdminTweetResponse(tweet *models.Tweet) *AdminTweetResponse {
	if tweet == nil {
		return nil
	}

	description := tweet.Description
	if runes := []rune(description); len(runes) > adminTweetPreviewLength {
		description = string(runes[:adminTweetPreviewLength])
	}

	resp := &AdminTweetResponse{
		ID:          tweet.ID,
		UserID:      tweet.UserID,
		Description: description,
		CreatedAt:   tweet.CreatedAt,
	}
	if tweet.User.ID != "" {
		resp.User = ToUserResponse(&tweet.User)
	}

	return resp
}
