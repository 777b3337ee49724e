package controller

import (
	"errors"
	"strconv"

	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestController struct {
	QuestService *service.QuestService
}

func NewQuestController(questService *service.QuestService) *QuestController {
	return &QuestController{QuestService: questService}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// optionalUserID ログインしていればそのユーザーID、いなければ0
func optionalUserID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

// ListSubjects godoc
// @Summary 科目一覧
// @Tags クエスト
// @Produce  json
// @Success 200 {object} util.Response{data=[]object} "成功"
// @Router /api/subjects [get]
func (c *QuestController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.QuestService.ListSubjects()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// ListLevels godoc
// @Summary 科目内のレベル一覧
// @Tags クエスト
// @Produce  json
// @Param   subject path string true "科目キー"
// @Success 200 {object} util.Response{data=[]string} "成功"
// @Router /api/subjects/{subject}/levels [get]
func (c *QuestController) ListLevels(ctx *gin.Context) {
	levels, err := c.QuestService.ListLevels(ctx.Param("subject"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, levels)
}

// ListQuests godoc
// @Summary 科目×レベルのクエスト一覧
// @Description ログイン中は挑戦回数とクリア状況を重ねて返す
// @Tags クエスト
// @Produce  json
// @Param   subject path string true "科目キー"
// @Param   level path string true "レベル"
// @Success 200 {object} util.Response{data=[]service.QuestSummary} "成功"
// @Router /api/subjects/{subject}/levels/{level}/quests [get]
func (c *QuestController) ListQuests(ctx *gin.Context) {
	quests, err := c.QuestService.ListQuests(ctx.Param("subject"), ctx.Param("level"), optionalUserID(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quests)
}

// GetRunQuest godoc
// @Summary 挑戦開始（出題内容の取得）
// @Description 正答を含まない出題ビューを返す。選択肢は表示順をシャッフルする
// @Tags クエスト
// @Produce  json
// @Param   id path int true "クエストID"
// @Success 200 {object} util.Response{data=service.RunQuest} "成功"
// @Failure 404 {object} util.Response "クエストが存在しない"
// @Router /api/quests/{id}/run [get]
func (c *QuestController) GetRunQuest(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	run, err := c.QuestService.GetRunQuest(questID)
	if err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, run)
}
