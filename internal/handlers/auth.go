package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yschu/twitter/backend/internal/auth"
	"github.com/yschu/twitter/backend/internal/dto"
	"github.com/yschu/twitter/backend/internal/errors"
	"github.com/yschu/twitter/backend/internal/logger"
	"github.com/yschu/twitter/backend/internal/metrics"
	"github.com/yschu/twitter/backend/internal/models"
	"github.com/yschu/twitter/backend/internal/util"
	"github.com/yschu/twitter/backend/internal/validation"
)

// User-facing messages kept verbatim from the product copy
const (
	msgAllFieldsRequired = "所有欄位都是必填！"
	msgPasswordMismatch  = "兩次密碼輸入不同！"
	msgEmailTaken        = "email 已重複註冊！"
	msgAccountTaken      = "account 已重複註冊！"
	msgBadCredentials    = "帳號或密碼錯誤！"
	msgCannotFollowSelf  = "不能追蹤自己！"
	msgTweetEmpty        = "內容不可空白"
	msgTweetTooLong      = "字數不可超過 140 字"
	msgIntroductionLimit = "自我介紹字數超出上限！"
	msgNameLimit         = "名稱字數超出上限！"
	msgRootRoleProtected = "無法變更 root 的權限！"
	msgAlreadyFollowing  = "已經追蹤過此使用者！"
	msgAlreadyLiked      = "已經喜歡過此推文！"
	msgPermissionDenied  = "無權限執行此操作！"
)

// Login authenticates a regular user and issues a token.
// Admin accounts cannot sign in through the user endpoint.
func (h *Handlers) Login(c *gin.Context) {
	h.login(c, models.RoleUser)
}

// AdminLogin authenticates an admin through the back-office endpoint
func (h *Handlers) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

// login authenticates against a required role. Failures are reported with
// one generic message so responses leak nothing about which credential
// was wrong.
func (h *Handlers) login(c *gin.Context, requiredRole string) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if validation.IsBlank(req.Email) || req.Password == "" {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if stderrors.Is(err, auth.ErrUserNotFound) || stderrors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondWithAPIError(c, errors.Unauthorized(msgBadCredentials))
			return
		}
		logger.Log.Error("login failed", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	if resp.User.Role != requiredRole {
		util.RespondWithAPIError(c, errors.Unauthorized(msgBadCredentials))
		return
	}

	util.RespondSuccess(c, gin.H{
		"token": resp.Token,
		"user":  dto.ToUserResponse(&resp.User),
	})
}

// Register creates a new user account
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithAPIError(c, errors.BadRequest(msgAllFieldsRequired))
		return
	}

	if validation.IsBlank(req.Account) || validation.IsBlank(req.Name) ||
		validation.IsBlank(req.Email) || req.Password == "" || req.CheckPassword == "" {
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

	if err := validation.ValidateName(req.Name); err != nil {
		util.RespondWithAPIError(c, errors.ValidationError("name", msgNameLimit))
		return
	}

	user, err := h.auth.Register(req)
	if err != nil {
		switch {
		case stderrors.Is(err, auth.ErrEmailExists):
			util.RespondWithAPIError(c, errors.ValidationError("email", msgEmailTaken))
		case stderrors.Is(err, auth.ErrAccountExists):
			util.RespondWithAPIError(c, errors.ValidationError("account", msgAccountTaken))
		default:
			logger.Log.Error("registration failed", zap.Error(err))
			util.RespondInternalError(c)
		}
		return
	}

	metrics.Get().UsersRegisteredTotal.Inc()
	logger.Log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("account", user.Account),
	)

	util.RespondSuccess(c, dto.ToUserResponse(user))
}
