package controller

import (
	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ConqueredQuests godoc
// @Summary 世界制覇マップのデータ取得
// @Description クリア済みクエストとその挑戦回数を返す
// @Tags 進捗
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.ConqueredQuest} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/progress/conquered [get]
func (c *ProgressController) ConqueredQuests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	conquered, err := c.ProgressService.ConqueredQuests(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, conquered)
}

// Medals godoc
// @Summary メダル（挑戦回数）集計の取得
// @Tags 進捗
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.MedalSummary} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/progress/medals [get]
func (c *ProgressController) Medals(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	medals, err := c.ProgressService.MedalSummaries(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, medals)
}

// Overview godoc
// @Summary 進捗ページのデータ取得
// @Description クリア状況と週次・月次の挑戦グラフを返す
// @Tags 進捗
// @Produce  json
// @Success 200 {object} util.Response{data=model.ProgressOverview} "成功"
// @Failure 401 {object} util.Response "未認証"
// @Security BearerAuth
// @Router /api/progress/overview [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.ProgressService.Overview(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
