package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/metrics"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/util"
)

// FollowshipRequest carries the target user of a new followship
type FollowshipRequest struct {
	ID string `json:"id"`
}

// PostFollowship follows the user named in the request body
func (h *Handlers) PostFollowship(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req FollowshipRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if req.ID == userID {
		util.RespondWithAPIError(c, errors.BadRequest(msgCannotFollowSelf))
		return
	}

	ctx := c.Request.Context()

	target, err := h.users.GetUser(ctx, req.ID)
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	if err := h.users.CreateFollow(ctx, userID, target.ID); err != nil {
		if stderrors.Is(err, repository.ErrAlreadyFollowing) {
			util.RespondWithAPIError(c, errors.BadRequest(msgAlreadyFollowing))
			return
		}
		logger.Log.Error("failed to create followship",
			zap.Error(err),
			zap.String("follower_id", userID),
			zap.String("following_id", target.ID),
		)
		util.RespondInternalError(c)
		return
	}

	metrics.Get().FollowshipsTotal.WithLabelValues("follow").Inc()
	util.RespondSuccess(c, gin.H{"followingId": target.ID})
}

// DeleteFollowship unfollows the user named in the path
func (h *Handlers) DeleteFollowship(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	followingID := c.Param("followingId")

	err := h.users.DeleteFollow(c.Request.Context(), userID, followingID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFollowing) {
			util.RespondNotFound(c, "followship")
			return
		}
		logger.Log.Error("failed to delete followship",
			zap.Error(err),
			zap.String("follower_id", userID),
			zap.String("following_id", followingID),
		)
		util.RespondInternalError(c)
		return
	}

	metrics.Get().FollowshipsTotal.WithLabelValues("unfollow").Inc()
	util.RespondSuccess(c, gin.H{"followingId": followingID})
}
