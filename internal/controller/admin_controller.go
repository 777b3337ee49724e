package controller

import (
	"errors"
	"net/http"
	"strconv"

	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	QuestService    *service.QuestService
	UserService     *service.UserService
	ProgressService *service.ProgressService
}

func NewAdminController(questService *service.QuestService, userService *service.UserService, progressService *service.ProgressService) *AdminController {
	return &AdminController{
		QuestService:    questService,
		UserService:     userService,
		ProgressService: progressService,
	}
}

// CreateQuest godoc
// @Summary クエスト作成
// @Tags 管理
// @Accept  json
// @Produce  json
// @Param   body body service.QuestInput true "クエスト情報"
// @Success 201 {object} util.Response{data=model.Quest} "作成成功"
// @Failure 400 {object} util.Response "リクエスト不正"
// @Security BearerAuth
// @Router /api/admin/quests [post]
func (c *AdminController) CreateQuest(ctx *gin.Context) {
	var input service.QuestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.CreateQuest(input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quest)
}

// UpdateQuest godoc
// @Summary クエスト更新
// @Tags 管理
// @Accept  json
// @Produce  json
// @Param   id path int true "クエストID"
// @Param   body body service.QuestInput true "クエスト情報"
// @Success 200 {object} util.Response{data=model.Quest} "更新成功"
// @Failure 404 {object} util.Response "クエストが存在しない"
// @Security BearerAuth
// @Router /api/admin/quests/{id} [put]
func (c *AdminController) UpdateQuest(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input service.QuestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.UpdateQuest(questID, input)
	if err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quest)
}

// DeleteQuest godoc
// @Summary クエスト削除
// @Description クエストと紐づく問題・履歴・進捗をまとめて削除する
// @Tags 管理
// @Produce  json
// @Param   id path int true "クエストID"
// @Success 200 {object} util.Response "削除成功"
// @Failure 404 {object} util.Response "クエストが存在しない"
// @Security BearerAuth
// @Router /api/admin/quests/{id} [delete]
func (c *AdminController) DeleteQuest(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.QuestService.DeleteQuest(questID); err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListQuestions godoc
// @Summary クエスト内の問題一覧（正答含む）
// @Tags 管理
// @Produce  json
// @Param   id path int true "クエストID"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 404 {object} util.Response "クエストが存在しない"
// @Security BearerAuth
// @Router /api/admin/quests/{id}/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.QuestService.ListQuestions(questID)
	if err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, questions)
}

// AddQuestion godoc
// @Summary 問題追加
// @Description 種別ごとの正答payload形式をここで検証してから保存する
// @Tags 管理
// @Accept  json
// @Produce  json
// @Param   id path int true "クエストID"
// @Param   body body service.QuestionInput true "問題情報"
// @Success 201 {object} util.Response{data=model.Question} "作成成功"
// @Failure 400 {object} util.Response "payload形式不正"
// @Security BearerAuth
// @Router /api/admin/quests/{id}/questions [post]
func (c *AdminController) AddQuestion(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestService.AddQuestion(questID, input)
	if err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 問題更新
// @Tags 管理
// @Accept  json
// @Produce  json
// @Param   id path int true "問題ID"
// @Param   body body service.QuestionInput true "問題情報"
// @Success 200 {object} util.Response{data=model.Question} "更新成功"
// @Failure 404 {object} util.Response "問題が存在しない"
// @Security BearerAuth
// @Router /api/admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var input service.QuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestService.UpdateQuestion(questionID, input)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 問題削除
// @Tags 管理
// @Produce  json
// @Param   id path int true "問題ID"
// @Success 200 {object} util.Response "削除成功"
// @Failure 404 {object} util.Response "問題が存在しない"
// @Security BearerAuth
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.QuestService.DeleteQuestion(questionID); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListStudents godoc
// @Summary 生徒一覧と進捗サマリ
// @Tags 管理
// @Produce  json
// @Param   page query int false "ページ番号" default(1)
// @Param   limit query int false "1ページあたりの件数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Security BearerAuth
// @Router /api/admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	students, total, err := c.UserService.ListStudents(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	overviews, err := c.ProgressService.StudentOverviews(students)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data: util.PageResponse{
			List:  overviews,
			Total: total,
			Page:  page,
			Limit: limit,
		},
	})
}
