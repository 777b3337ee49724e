package controller

import (
	"errors"

	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// swagger:model UpdateNicknameRequest
type UpdateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,max=80"`
}

// GetProfile godoc
// @Summary プロフィール取得
// @Tags ユーザー
// @Produce  json
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// UpdateNickname godoc
// @Summary ニックネーム変更
// @Tags ユーザー
// @Accept  json
// @Produce  json
// @Param   body body UpdateNicknameRequest true "新しいニックネーム"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "リクエスト不正"
// @Security BearerAuth
// @Router /api/users/nickname [put]
func (c *UserController) UpdateNickname(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateNicknameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateNickname(claims.UserID, req.Nickname)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary アバター画像アップロード
// @Description multipart/form-data の avatar フィールドで画像を受け取る
// @Tags ユーザー
// @Accept  mpfd
// @Produce  json
// @Param   avatar formData file true "画像ファイル"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "ファイル不正"
// @Security BearerAuth
// @Router /api/users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, fileHeader)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"avatar": url})
}
