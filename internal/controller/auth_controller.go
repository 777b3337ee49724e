package controller

import (
	"errors"

	"mquest_backend/internal/model"
	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Password string `json:"password" binding:"required,min=4"`
	Nickname string `json:"nickname"`
	Role     string `json:"role" binding:"omitempty,oneof=student parent"`
	ParentID *uint  `json:"parentId"`
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=4"`
}

// Login godoc
// @Summary ログイン
// @Description ユーザーIDとパスワードで認証しJWTを発行する
// @Tags 認証
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "ログイン情報"
// @Success 200 {object} util.Response{data=service.LoginResult} "成功"
// @Failure 400 {object} util.Response "リクエスト不正"
// @Failure 401 {object} util.Response "認証失敗"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// Register godoc
// @Summary ユーザー登録
// @Description 生徒または保護者アカウントを作成する
// @Tags 認証
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "登録情報"
// @Success 201 {object} util.Response{data=object} "作成成功"
// @Failure 400 {object} util.Response "リクエスト不正"
// @Failure 409 {object} util.Response "ユーザーID重複"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Role:     model.UserRole(req.Role),
		ParentID: req.ParentID,
	}

	if err := c.AuthService.Register(user); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			util.Error(ctx, 409, err.Error())
		} else if errors.Is(err, util.ErrEmptyPassword) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// ChangePassword godoc
// @Summary パスワード変更
// @Description 現在のパスワードを確認して新しいパスワードへ変更する。初回ログインフラグもここで落ちる
// @Tags 認証
// @Accept  json
// @Produce  json
// @Param   body body ChangePasswordRequest true "変更内容"
// @Success 200 {object} util.Response "変更成功"
// @Failure 400 {object} util.Response "現在のパスワード不一致"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordMismatch), errors.Is(err, util.ErrEmptyPassword):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Me godoc
// @Summary ログイン中ユーザーの取得
// @Tags 認証
// @Produce  json
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}
