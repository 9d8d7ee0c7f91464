package handlers

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/dto"
	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/metrics"
	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/util"
	"github.com/yschu/twitter/backend/internal/validation"
)

// TweetRequest is the payload for creating a tweet
type TweetRequest struct {
	Description string `json:"description"`
}

// ReplyRequest is the payload for replying to a tweet
type ReplyRequest struct {
	Comment string `json:"comment"`
}

// PostTweet creates a tweet authored by the authenticated user
func (h *Handlers) PostTweet(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgTweetEmpty))
		return
	}

	if validation.IsBlank(req.Description) {
		util.RespondWithAPIError(c, errors.ValidationError("description", msgTweetEmpty))
		return
	}
	if len([]rune(req.Description)) > validation.MaxTweetLength {
		util.RespondWithAPIError(c, errors.ValidationError("description", msgTweetTooLong))
		return
	}

	tweet := models.Tweet{
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
	}

	if err := h.tweets.CreateTweet(c.Request.Context(), &tweet); err != nil {
		logger.Log.Error("failed to create tweet", zap.Error(err), zap.String("user_id", userID))
		util.RespondInternalError(c)
		return
	}

	metrics.Get().TweetsCreatedTotal.Inc()
	logger.Log.Info("tweet created",
		zap.String("tweet_id", tweet.ID),
		zap.String("user_id", userID),
	)

	created, err := h.tweets.GetTweet(c.Request.Context(), tweet.ID, userID)
	if err != nil {
		logger.Log.Error("failed to reload tweet", zap.Error(err), zap.String("tweet_id", tweet.ID))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, dto.ToTweetResponse(created))
}

// GetTweets lists all tweets, newest first
func (h *Handlers) GetTweets(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	tweets, err := h.tweets.ListTweets(c.Request.Context(), viewerID)
	if err != nil {
		logger.Log.Error("failed to list tweets", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, dto.ToTweetResponses(tweets))
}

// GetTweet returns a single tweet with its counters
func (h *Handlers) GetTweet(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	tweet, err := h.tweets.GetTweet(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		h.respondTweetLookupError(c, err)
		return
	}

	util.RespondSuccess(c, dto.ToTweetResponse(tweet))
}

// GetReplies lists a tweet's replies in conversation order
func (h *Handlers) GetReplies(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	replies, err := h.tweets.ListReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondTweetLookupError(c, err)
		return
	}

	out := make([]*dto.ReplyResponse, 0, len(replies))
	for i := range replies {
		out = append(out, dto.ToReplyResponse(&replies[i]))
	}

	util.RespondSuccess(c, out)
}

// PostReply adds a reply to a tweet
func (h *Handlers) PostReply(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgTweetEmpty))
		return
	}

	if validation.IsBlank(req.Comment) {
		util.RespondWithAPIError(c, errors.ValidationError("comment", msgTweetEmpty))
		return
	}

	reply := models.Reply{
		UserID:  userID,
		TweetID: c.Param("id"),
		Comment: strings.TrimSpace(req.Comment),
	}

	if err := h.tweets.CreateReply(c.Request.Context(), &reply); err != nil {
		h.respondTweetLookupError(c, err)
		return
	}

	util.RespondSuccess(c, dto.ToReplyResponse(&reply))
}

// PostLike likes a tweet on behalf of the authenticated user
func (h *Handlers) PostLike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	tweetID := c.Param("id")
	err := h.tweets.CreateLike(c.Request.Context(), userID, tweetID)
	if err != nil {
		if stderrors.Is(err, repository.ErrAlreadyLiked) {
			util.RespondWithAPIError(c, errors.BadRequest(msgAlreadyLiked))
			return
		}
		h.respondTweetLookupError(c, err)
		return
	}

	metrics.Get().LikesTotal.WithLabelValues("like").Inc()
	util.RespondSuccess(c, gin.H{"tweetId": tweetID})
}

// PostUnlike removes the authenticated user's like from a tweet
func (h *Handlers) PostUnlike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	tweetID := c.Param("id")
	err := h.tweets.DeleteLike(c.Request.Context(), userID, tweetID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotLiked) {
			util.RespondWithAPIError(c, errors.BadRequest("尚未喜歡此推文！"))
			return
		}
		h.respondTweetLookupError(c, err)
		return
	}

	metrics.Get().LikesTotal.WithLabelValues("unlike").Inc()
	util.RespondSuccess(c, gin.H{"tweetId": tweetID})
}

// respondTweetLookupError maps repository tweet failures to API errors
func (h *Handlers) respondTweetLookupError(c *gin.Context, err error) {
	if stderrors.Is(err, repository.ErrTweetNotFound) {
		util.RespondNotFound(c, "tweet")
		return
	}

	logger.Log.Error("tweet lookup failed", zap.Error(err))
	util.RespondInternalError(c)
}
