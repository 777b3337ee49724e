package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mquest_backend/internal/grading"
	"mquest_backend/internal/service"
	"mquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// Submit godoc
// @Summary クエスト提出（採点）
// @Description 解答フィールド（q0, q1, q2_0 ...）を受け取り採点する。
// @Description JSONボディ（値は文字列または文字列配列）とフォーム送信の両方を受け付ける。
// @Description 未ログインでも採点はされるが履歴には残らない
// @Tags クエスト
// @Accept  json
// @Produce  json
// @Param   id path int true "クエストID"
// @Success 200 {object} util.Response{data=service.SubmissionOutcome} "採点結果"
// @Failure 400 {object} util.Response "解答フィールド不正"
// @Failure 404 {object} util.Response "クエストが存在しない"
// @Router /api/quests/{id}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	questID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sub, err := parseSubmission(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.SubmissionService.Submit(ctx.Request.Context(), optionalUserID(ctx), questID, sub)
	if err != nil {
		if errors.Is(err, util.ErrQuestNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, outcome)
}

// parseSubmission 解答フィールドを種別に依存しないキー値の束として取り出す。
// multiple_choiceのように同じキーへ複数値が来るケースがあるため値は常にリスト
func parseSubmission(ctx *gin.Context) (grading.Submission, error) {
	contentType := ctx.ContentType()
	if strings.Contains(contentType, "json") {
		var body map[string]interface{}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, fmt.Errorf("invalid submission body: %w", err)
		}
		return submissionFromJSON(body)
	}

	if err := ctx.Request.ParseMultipartForm(1 << 20); err != nil {
		if err := ctx.Request.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
	}

	sub := grading.Submission{}
	for key, values := range ctx.Request.PostForm {
		sub[key] = values
	}
	return sub, nil
}

func submissionFromJSON(body map[string]interface{}) (grading.Submission, error) {
	sub := grading.Submission{}
	for key, raw := range body {
		switch v := raw.(type) {
		case string:
			sub[key] = []string{v}
		case float64:
			sub[key] = []string{strconv.FormatFloat(v, 'f', -1, 64)}
		case []interface{}:
			values := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field %s: array values must be strings", key)
				}
				values = append(values, s)
			}
			sub[key] = values
		default:
			return nil, fmt.Errorf("field %s: unsupported value type", key)
		}
	}
	return sub, nil
}
