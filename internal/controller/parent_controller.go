package controller

import (
	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ParentController struct {
	UserService     *service.UserService
	ProgressService *service.ProgressService
}

func NewParentController(userService *service.UserService, progressService *service.ProgressService) *ParentController {
	return &ParentController{
		UserService:     userService,
		ProgressService: progressService,
	}
}

// ListChildren godoc
// @Summary 子どもの学習状況一覧
// @Description 保護者に紐づく生徒ごとの進捗とメダルを返す
// @Tags 保護者
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.StudentOverview} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/parent/children [get]
func (c *ParentController) ListChildren(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	children, err := c.UserService.ListChildren(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	overviews, err := c.ProgressService.StudentOverviews(children)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overviews)
}
