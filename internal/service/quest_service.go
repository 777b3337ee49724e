package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"
	"mquest_backend/internal/util"

	"gorm.io/gorm"
)

type QuestService struct {
	DB           *gorm.DB
	QuestRepo    *repository.QuestRepository
	QuestionRepo *repository.QuestionRepository
	HistoryRepo  *repository.QuestHistoryRepository
}

func NewQuestService(db *gorm.DB, questRepo *repository.QuestRepository, questionRepo *repository.QuestionRepository, historyRepo *repository.QuestHistoryRepository) *QuestService {
	return &QuestService{
		DB:           db,
		QuestRepo:    questRepo,
		QuestionRepo: questionRepo,
		HistoryRepo:  historyRepo,
	}
}

// QuestSummary 一覧画面に出すクエストとその挑戦履歴
type QuestSummary struct {
	ID        uint   `json:"id"`
	QuestName string `json:"questName"`
	WorldName string `json:"worldName"`
	Subject   string `json:"subject"`
	Level     string `json:"level"`
	Attempts  int    `json:"attempts"`
	IsCleared bool   `json:"isCleared"`
}

// RunChoice 出題時の選択肢。indexは登録順のままシャッフルして返す
type RunChoice struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// RunQuestion 出題ビュー。正答は含めない
type RunQuestion struct {
	ID      uint               `json:"id"`
	Type    model.QuestionType `json:"type"`
	Text    string             `json:"text"`
	Choices []RunChoice        `json:"choices,omitempty"`
	SVG     string             `json:"svg,omitempty"`
	Prompts []string           `json:"prompts,omitempty"`
}

// RunQuest 挑戦開始時にフロントへ返す内容一式
type RunQuest struct {
	ID        uint          `json:"id"`
	QuestName string        `json:"questName"`
	Subject   string        `json:"subject"`
	Level     string        `json:"level"`
	Questions []RunQuestion `json:"questions"`
}

func (s *QuestService) ListSubjects() ([]map[string]string, error) {
	keys, err := s.QuestRepo.ListSubjects()
	if err != nil {
		return nil, err
	}
	subjects := make([]map[string]string, 0, len(keys))
	for _, key := range keys {
		subjects = append(subjects, map[string]string{
			"key":  key,
			"name": model.SubjectDisplayName(key),
		})
	}
	return subjects, nil
}

func (s *QuestService) ListLevels(subject string) ([]string, error) {
	return s.QuestRepo.ListLevels(subject)
}

// ListQuests 科目×レベルのクエスト一覧。ログイン中なら履歴を重ねる
func (s *QuestService) ListQuests(subject, level string, userID uint) ([]QuestSummary, error) {
	quests, err := s.QuestRepo.ListBySubjectLevel(subject, level)
	if err != nil {
		return nil, err
	}

	histories := map[uint]model.QuestHistory{}
	if userID != 0 {
		ids := make([]uint, 0, len(quests))
		for _, q := range quests {
			ids = append(ids, q.ID)
		}
		rows, err := s.HistoryRepo.FindByUserAndQuests(userID, ids)
		if err != nil {
			return nil, err
		}
		for _, h := range rows {
			histories[h.QuestID] = h
		}
	}

	summaries := make([]QuestSummary, 0, len(quests))
	for _, q := range quests {
		summary := QuestSummary{
			ID:        q.ID,
			QuestName: q.QuestName,
			WorldName: q.WorldName,
			Subject:   q.Subject,
			Level:     q.Level,
		}
		if h, ok := histories[q.ID]; ok {
			summary.Attempts = h.Attempts
			summary.IsCleared = h.IsCleared
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetRunQuest 出題ビューを組み立てる。選択式は表示順をシャッフルするが、
// 解答は登録時のindexで照合するためindexを choices に載せて返す
func (s *QuestService) GetRunQuest(questID uint) (*RunQuest, error) {
	quest, err := s.QuestRepo.FindByIDWithQuestions(questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}

	run := &RunQuest{
		ID:        quest.ID,
		QuestName: quest.QuestName,
		Subject:   quest.Subject,
		Level:     quest.Level,
		Questions: make([]RunQuestion, 0, len(quest.Questions)),
	}

	for _, q := range quest.Questions {
		rq := RunQuestion{
			ID:   q.ID,
			Type: q.Type,
			Text: q.Text,
		}
		switch q.Type {
		case model.QuestionChoice, model.QuestionMultipleChoice:
			var texts []string
			if err := json.Unmarshal([]byte(q.Choices), &texts); err == nil {
				choices := make([]RunChoice, 0, len(texts))
				for i, t := range texts {
					choices = append(choices, RunChoice{Index: i, Text: t})
				}
				rand.Shuffle(len(choices), func(i, j int) {
					choices[i], choices[j] = choices[j], choices[i]
				})
				rq.Choices = choices
			}
		case model.QuestionSVGInteractive:
			rq.SVG = q.Choices
			rq.Prompts = svgPrompts(q.Answer)
		case model.QuestionNumeric:
			rq.Prompts = numericLabels(q.Answer)
		}
		run.Questions = append(run.Questions, rq)
	}

	return run, nil
}

// svgPrompts SVG小問のIDと設問を "id:prompt" 形式で列挙する
func svgPrompts(answer string) []string {
	var subs []struct {
		ID     string `json:"id"`
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(answer), &subs); err != nil {
		return nil
	}
	prompts := make([]string, 0, len(subs))
	for _, sub := range subs {
		prompts = append(prompts, sub.ID+":"+sub.Prompt)
	}
	return prompts
}

func numericLabels(answer string) []string {
	var pairs []struct {
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(answer), &pairs); err != nil {
		return nil
	}
	labels := make([]string, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, p.Label)
	}
	return labels
}

// --- 管理者向けCRUD ---

type QuestInput struct {
	Subject   string `json:"subject" binding:"required"`
	Level     string `json:"level" binding:"required"`
	QuestName string `json:"questName" binding:"required"`
	WorldName string `json:"worldName"`
}

type QuestionInput struct {
	Type        string `json:"type" binding:"required"`
	Text        string `json:"text" binding:"required"`
	Choices     string `json:"choices"`
	Answer      string `json:"answer" binding:"required"`
	Explanation string `json:"explanation"`
}

func (s *QuestService) CreateQuest(input QuestInput) (*model.Quest, error) {
	quest := &model.Quest{
		Subject:   strings.TrimSpace(input.Subject),
		Level:     strings.TrimSpace(input.Level),
		QuestName: strings.TrimSpace(input.QuestName),
		WorldName: strings.TrimSpace(input.WorldName),
	}
	if err := s.QuestRepo.Create(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

func (s *QuestService) UpdateQuest(questID uint, input QuestInput) (*model.Quest, error) {
	quest, err := s.QuestRepo.FindByID(questID)
	if err != nil {
		return nil, util.ErrQuestNotFound
	}
	quest.Subject = strings.TrimSpace(input.Subject)
	quest.Level = strings.TrimSpace(input.Level)
	quest.QuestName = strings.TrimSpace(input.QuestName)
	quest.WorldName = strings.TrimSpace(input.WorldName)
	if err := s.QuestRepo.Update(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// DeleteQuest 紐づく進捗・履歴・ログ・問題も同一トランザクションで消す
func (s *QuestService) DeleteQuest(questID uint) error {
	if _, err := s.QuestRepo.FindByID(questID); err != nil {
		return util.ErrQuestNotFound
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quest_id = ?", questID).Delete(&model.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quest_id = ?", questID).Delete(&model.QuestHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quest_id = ?", questID).Delete(&model.QuestAttemptLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quest_id = ?", questID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quest{}, questID).Error
	})
}

func (s *QuestService) AddQuestion(questID uint, input QuestionInput) (*model.Question, error) {
	if _, err := s.QuestRepo.FindByID(questID); err != nil {
		return nil, util.ErrQuestNotFound
	}

	qType := model.QuestionType(input.Type)
	if err := validateQuestionPayload(qType, input.Choices, input.Answer); err != nil {
		return nil, err
	}

	order, err := s.QuestionRepo.NextOrder(questID)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		QuestID:     questID,
		Type:        qType,
		Text:        input.Text,
		Choices:     input.Choices,
		Answer:      input.Answer,
		Explanation: input.Explanation,
		Order:       order,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestService) UpdateQuestion(questionID uint, input QuestionInput) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	qType := model.QuestionType(input.Type)
	if err := validateQuestionPayload(qType, input.Choices, input.Answer); err != nil {
		return nil, err
	}

	question.Type = qType
	question.Text = input.Text
	question.Choices = input.Choices
	question.Answer = input.Answer
	question.Explanation = input.Explanation
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestService) DeleteQuestion(questionID uint) error {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		return util.ErrQuestionNotFound
	}
	return s.QuestionRepo.DeleteByID(questionID)
}

func (s *QuestService) ListQuestions(questID uint) ([]model.Question, error) {
	if _, err := s.QuestRepo.FindByID(questID); err != nil {
		return nil, util.ErrQuestNotFound
	}
	return s.QuestionRepo.ListByQuest(questID)
}

// validateQuestionPayload 登録時に種別ごとのpayload形式を検証する。
// ここで弾いておけば採点時のMalformedはデータ破損だけになる
func validateQuestionPayload(qType model.QuestionType, choices, answer string) error {
	if !qType.Valid() {
		return fmt.Errorf("unknown question type: %s", qType)
	}

	switch qType {
	case model.QuestionChoice:
		var texts []string
		if err := json.Unmarshal([]byte(choices), &texts); err != nil || len(texts) == 0 {
			return errors.New("choice: choices must be a non-empty JSON array")
		}
		var idx int
		if err := json.Unmarshal([]byte(answer), &idx); err != nil {
			return errors.New("choice: answer must be a choice index")
		}
		if idx < 0 || idx >= len(texts) {
			return fmt.Errorf("choice: answer index %d out of range", idx)
		}
	case model.QuestionMultipleChoice:
		var texts []string
		if err := json.Unmarshal([]byte(choices), &texts); err != nil || len(texts) == 0 {
			return errors.New("multiple_choice: choices must be a non-empty JSON array")
		}
		if strings.TrimSpace(answer) == "" {
			return errors.New("multiple_choice: answer must not be empty")
		}
	case model.QuestionSort, model.QuestionFillInBlankEn:
		if strings.TrimSpace(answer) == "" {
			return errors.New("answer must not be empty")
		}
	case model.QuestionNumeric:
		var pairs []struct {
			Label  string          `json:"label"`
			Answer json.RawMessage `json:"answer"`
		}
		if err := json.Unmarshal([]byte(answer), &pairs); err != nil || len(pairs) == 0 {
			return errors.New("numeric: answer must be a non-empty JSON array of label/answer pairs")
		}
	case model.QuestionSVGInteractive:
		if strings.TrimSpace(choices) == "" {
			return errors.New("svg_interactive: choices must contain the SVG markup")
		}
		var subs []struct {
			ID     string `json:"id"`
			Answer string `json:"answer"`
		}
		if err := json.Unmarshal([]byte(answer), &subs); err != nil || len(subs) == 0 {
			return errors.New("svg_interactive: answer must be a non-empty JSON array of sub questions")
		}
	case model.QuestionFunctionGraph:
		// 関数定義は構造化オブジェクトの配列。中身の形式は手動採点側に委ねる
		var conditions []json.RawMessage
		if err := json.Unmarshal([]byte(answer), &conditions); err != nil {
			return errors.New("function_graph: answer must be a JSON array of conditions")
		}
	}
	return nil
}
