package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/dto"
	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/util"
)

const defaultAdminPageSize = 10

// AdminGetUsers lists all users with engagement counters, most tweets
// first, paginated with ?page= and ?limit=.
func (h *Handlers) AdminGetUsers(c *gin.Context) {
	page := util.ParsePositiveInt(c.Query("page"), 1)
	limit := util.ParsePositiveInt(c.Query("limit"), defaultAdminPageSize)

	entries, total, err := h.users.ListUsersWithStats(c.Request.Context(), limit, util.Offset(limit, page))
	if err != nil {
		logger.Log.Error("failed to list users", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.AdminUserResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.ToAdminUserResponse(&entries[i]))
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	util.RespondSuccess(c, &dto.PaginatedUsers{
		Users:      out,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// PatchUserRequest is the role-change payload
type PatchUserRequest struct {
	Role string `json:"role"`
}

// AdminPatchUser changes a user's role. The root account is immutable.
func (h *Handlers) AdminPatchUser(c *gin.Context) {
	var req PatchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		util.RespondWithAPIError(c, errors.ValidationError("role", "role 只能是 user 或 admin！"))
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	if user.IsRoot() {
		util.RespondWithAPIError(c, errors.BadRequest(msgRootRoleProtected))
		return
	}

	user.Role = req.Role
	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		logger.Log.Error("failed to change role", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	logger.Log.Info("user role changed",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role),
	)

	util.RespondSuccess(c, dto.ToUserResponse(user))
}

// AdminGetTweets lists every tweet for moderation with truncated bodies
func (h *Handlers) AdminGetTweets(c *gin.Context) {
	tweets, err := h.tweets.ListAllTweets(c.Request.Context())
	if err != nil {
		logger.Log.Error("failed to list tweets for moderation", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.AdminTweetResponse, 0, len(tweets))
	for i := range tweets {
		out = append(out, dto.ToAdminTweetResponse(&tweets[i]))
	}

	util.RespondSuccess(c, out)
}

// AdminDeleteTweet removes a tweet with its replies and likes
func (h *Handlers) AdminDeleteTweet(c *gin.Context) {
	adminID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	tweetID := c.Param("id")
	err := h.tweets.DeleteTweetCascade(c.Request.Context(), tweetID)
	if err != nil {
		if stderrors.Is(err, repository.ErrTweetNotFound) {
			util.RespondNotFound(c, "tweet")
			return
		}
		logger.Log.Error("failed to delete tweet", zap.Error(err), zap.String("tweet_id", tweetID))
		util.RespondInternalError(c)
		return
	}

	logger.Log.Info("tweet removed by moderator",
		zap.String("tweet_id", tweetID),
		zap.String("admin_id", adminID),
	)

	util.RespondSuccess(c, gin.H{"tweetId": tweetID})
}
