package handlers

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yschu/twitter/backend/internal/dto"
	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/repository"
	"github.com/yschu/twitter/backend/internal/util"
	"github.com/yschu/twitter/backend/internal/validation"
)

// GetUser returns a user's profile with social counters relative to the
// authenticated principal.
func (h *Handlers) GetUser(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	stats, err := h.users.GetUserStats(c.Request.Context(), user.ID, viewerID)
	if err != nil {
		logger.Log.Error("failed to load user stats", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, &dto.ProfileResponse{
		UserResponse:   *dto.ToUserResponse(user),
		TweetCount:     stats.TweetCount,
		FollowerCount:  stats.FollowerCount,
		FollowingCount: stats.FollowingCount,
		IsFollowed:     stats.IsFollowed,
	})
}

// GetTopUsers returns the most-followed regular users
func (h *Handlers) GetTopUsers(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	// top=N caps the list; without it every regular user is returned
	limit := util.ParsePositiveInt(c.Query("top"), 0)

	ranked, err := h.users.GetTopUsers(c.Request.Context(), viewerID, limit)
	if err != nil {
		logger.Log.Error("failed to list top users", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.TopUserResponse, 0, len(ranked))
	for i := range ranked {
		out = append(out, dto.ToTopUserResponse(&ranked[i]))
	}

	util.RespondSuccess(c, out)
}

// UpdateSettingRequest is the account-settings update payload
type UpdateSettingRequest struct {
	Account       string `json:"account"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	CheckPassword string `json:"checkPassword"`
}

// PutUserSetting updates account credentials. Users can only edit their
// own settings.
func (h *Handlers) PutUserSetting(c *gin.Context) {
	principal, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if c.Param("id") != principal.ID {
		util.RespondUnauthorized(c, msgPermissionDenied)
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if validation.IsBlank(req.Account) || validation.IsBlank(req.Name) || validation.IsBlank(req.Email) {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if req.Password != req.CheckPassword {
		util.RespondWithAPIError(c, errors.ValidationError("checkPassword", msgPasswordMismatch))
		return
	}

	if !validation.IsValidEmail(req.Email) {
		util.RespondWithAPIError(c, errors.ValidationError("email", "email 格式錯誤！"))
		return
	}

	ctx := c.Request.Context()

	// Uniqueness checks exclude the principal's own record
	if other, err := h.users.GetUserByEmail(ctx, req.Email); err == nil && other.ID != principal.ID {
		util.RespondWithAPIError(c, errors.ValidationError("email", msgEmailTaken))
		return
	} else if err != nil && !stderrors.Is(err, repository.ErrUserNotFound) {
		logger.Log.Error("email lookup failed", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	if other, err := h.users.GetUserByAccount(ctx, req.Account); err == nil && other.ID != principal.ID {
		util.RespondWithAPIError(c, errors.ValidationError("account", msgAccountTaken))
		return
	} else if err != nil && !stderrors.Is(err, repository.ErrUserNotFound) {
		logger.Log.Error("account lookup failed", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	principal.Account = req.Account
	principal.Name = req.Name
	principal.Email = req.Email

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Error("failed to hash password", zap.Error(err))
			util.RespondInternalError(c)
			return
		}
		principal.Password = string(hashed)
	}

	if err := h.users.UpdateUser(ctx, principal); err != nil {
		logger.Log.Error("failed to update user settings", zap.Error(err), zap.String("user_id", principal.ID))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, dto.ToAccountResponse(principal))
}

// PutUser updates profile fields (name, introduction, avatar, cover).
// The body is multipart/form-data so images ride along with text fields.
func (h *Handlers) PutUser(c *gin.Context) {
	principal, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	if c.Param("id") != principal.ID {
		util.RespondUnauthorized(c, msgPermissionDenied)
		return
	}

	name := c.PostForm("name")

	if validation.IsBlank(name) {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}
	if err := validation.ValidateName(name); err != nil {
		util.RespondWithAPIError(c, errors.ValidationError("name", msgNameLimit))
		return
	}

	// An omitted introduction keeps the stored value
	introduction, hasIntroduction := c.GetPostForm("introduction")
	if hasIntroduction && len([]rune(introduction)) > validation.MaxIntroductionChars {
		util.RespondWithAPIError(c, errors.ValidationError("introduction", msgIntroductionLimit))
		return
	}

	ctx := c.Request.Context()

	principal.Name = name
	if hasIntroduction {
		principal.Introduction = introduction
	}

	// Explicit delete flags clear images without replacing them
	if c.PostForm("deleteAvatar") == "1" {
		principal.Avatar = ""
	}
	if c.PostForm("deleteCover") == "1" {
		principal.Cover = ""
	}

	for _, upload := range []struct {
		field string
		kind  string
		dest  *string
	}{
		{"avatar", "avatar", &principal.Avatar},
		{"cover", "cover", &principal.Cover},
	} {
		file, header, err := c.Request.FormFile(upload.field)
		if err != nil {
			continue
		}

		if !validation.IsValidImageFile(header.Filename) {
			file.Close()
			util.RespondWithAPIError(c, errors.ValidationError(upload.field, "圖片格式不支援！"))
			return
		}

		result, err := h.uploader.UploadImage(ctx, file, header, principal.ID, upload.kind)
		file.Close()
		if err != nil {
			logger.Log.Error("image upload failed",
				zap.Error(err),
				zap.String("user_id", principal.ID),
				zap.String("field", upload.field),
			)
			util.RespondInternalError(c)
			return
		}

		*upload.dest = result.URL
	}

	if err := h.users.UpdateUser(ctx, principal); err != nil {
		logger.Log.Error("failed to update profile", zap.Error(err), zap.String("user_id", principal.ID))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, dto.ToUserResponse(principal))
}

// GetFollowers lists the users following the target user
func (h *Handlers) GetFollowers(c *gin.Context) {
	h.followList(c, h.users.GetFollowers)
}

// GetFollowings lists the users the target user follows
func (h *Handlers) GetFollowings(c *gin.Context) {
	h.followList(c, h.users.GetFollowings)
}

func (h *Handlers) followList(c *gin.Context, list func(ctx context.Context, userID, viewerID string) ([]repository.FollowListEntry, error)) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	entries, err := list(c.Request.Context(), user.ID, viewerID)
	if err != nil {
		logger.Log.Error("failed to list followships", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.FollowUserResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.ToFollowUserResponse(&entries[i]))
	}

	util.RespondSuccess(c, out)
}

// GetUserTweets lists the target user's tweets
func (h *Handlers) GetUserTweets(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	tweets, err := h.tweets.ListTweetsByUser(c.Request.Context(), user.ID, viewerID)
	if err != nil {
		logger.Log.Error("failed to list user tweets", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	util.RespondSuccess(c, dto.ToTweetResponses(tweets))
}

// GetUserLikes lists the tweets the target user has liked
func (h *Handlers) GetUserLikes(c *gin.Context) {
	viewerID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	entries, err := h.tweets.ListLikedTweets(c.Request.Context(), user.ID, viewerID)
	if err != nil {
		logger.Log.Error("failed to list liked tweets", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.LikedTweetResponse, 0, len(entries))
	for i := range entries {
		out = append(out, dto.ToLikedTweetResponse(&entries[i]))
	}

	util.RespondSuccess(c, out)
}

// GetUserRepliedTweets lists the target user's replies with the tweets
// they answered
func (h *Handlers) GetUserRepliedTweets(c *gin.Context) {
	if _, ok := util.GetUserIDFromContext(c); !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserLookupError(c, err)
		return
	}

	replies, err := h.tweets.ListRepliesByUser(c.Request.Context(), user.ID)
	if err != nil {
		logger.Log.Error("failed to list replied tweets", zap.Error(err), zap.String("user_id", user.ID))
		util.RespondInternalError(c)
		return
	}

	out := make([]*dto.RepliedTweetResponse, 0, len(replies))
	for i := range replies {
		out = append(out, dto.ToRepliedTweetResponse(&replies[i]))
	}

	util.RespondSuccess(c, out)
}

// respondUserLookupError maps repository lookup failures to API errors
func (h *Handlers) respondUserLookupError(c *gin.Context, err error) {
	if stderrors.Is(err, repository.ErrUserNotFound) {
		util.RespondNotFound(c, "user")
		return
	}

	logger.Log.Error("user lookup failed", zap.Error(err))
	util.RespondInternalError(c)
}
