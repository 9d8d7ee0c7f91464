package dto

import (
	"time"

	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/repository"
)

// TweetResponse is a tweet with its author and engagement counters
type TweetResponse struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	ReplyCount  int64         `json:"replyCount"`
	LikeCount   int64         `json:"likeCount"`
	IsLiked     bool          `json:"isLiked"`
	User        *UserResponse `json:"user,omitempty"`
}

// ReplyResponse is a comment on a tweet
type ReplyResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	TweetID   string        `json:"tweetId"`
	Comment   string        `json:"comment"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// RepliedTweetResponse is a user's reply together with the tweet it
// replied to
type RepliedTweetResponse struct {
	ReplyResponse
	Tweet *TweetResponse `json:"tweet"`
}

// LikedTweetResponse is a tweet a user liked, keyed by the like time
type LikedTweetResponse struct {
	TweetResponse
	LikedAt time.Time `json:"likedAt"`
}

// ToTweetResponse converts a tweet with stats to its API shape
func ToTweetResponse(t *repository.TweetWithStats) *TweetResponse {
	if t == nil {
		return nil
	}

	resp := &TweetResponse{
		ID:          t.Tweet.ID,
		UserID:      t.Tweet.UserID,
		Description: t.Tweet.Description,
		CreatedAt:   t.Tweet.CreatedAt,
		ReplyCount:  t.ReplyCount,
		LikeCount:   t.LikeCount,
		IsLiked:     t.IsLiked,
	}
	if t.Tweet.User.ID != "" {
		resp.User = ToUserResponse(&t.Tweet.User)
	}

	return resp
}

// ToTweetResponses converts a slice of tweets with stats
func ToTweetResponses(tweets []repository.TweetWithStats) []*TweetResponse {
	out := make([]*TweetResponse, 0, len(tweets))
	for i := range tweets {
		out = append(out, ToTweetResponse(&tweets[i]))
	}
	return out
}

// ToReplyResponse converts a reply to its API shape
func ToReplyResponse(reply *models.Reply) *ReplyResponse {
	if reply == nil {
		return nil
	}

	resp := &ReplyResponse{
		ID:        reply.ID,
		UserID:    reply.UserID,
		TweetID:   reply.TweetID,
		Comment:   reply.Comment,
		CreatedAt: reply.CreatedAt,
	}
	if reply.User.ID != "" {
		resp.User = ToUserResponse(&reply.User)
	}

	return resp
}

// ToRepliedTweetResponse pairs a reply with the tweet it answered.
// The replied tweet carries no counters in this listing.
func ToRepliedTweetResponse(reply *models.Reply) *RepliedTweetResponse {
	if reply == nil {
		return nil
	}

	resp := &RepliedTweetResponse{
		ReplyResponse: *ToReplyResponse(reply),
	}
	if reply.Tweet.ID != "" {
		tweet := &TweetResponse{
			ID:          reply.Tweet.ID,
			UserID:      reply.Tweet.UserID,
			Description: reply.Tweet.Description,
			CreatedAt:   reply.Tweet.CreatedAt,
		}
		if reply.Tweet.User.ID != "" {
			tweet.User = ToUserResponse(&reply.Tweet.User)
		}
		resp.Tweet = tweet
	}

	return resp
}

// ToLikedTweetResponse converts a liked-tweet entry to its API shape
func ToLikedTweetResponse(entry *repository.LikedTweetEntry) *LikedTweetResponse {
	if entry == nil {
		return nil
	}

	return &LikedTweetResponse{
		TweetResponse: *ToTweetResponse(&entry.TweetWithStats),
		LikedAt:       entry.LikedAt,
	}
}
