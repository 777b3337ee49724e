package service

import (
	"context"
	"testing"

	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"

	"gorm.io/gorm"
)

func newTestQuestService(db *gorm.DB) *QuestService {
	return NewQuestService(db,
		repository.NewQuestRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewQuestHistoryRepository(db))
}

func TestValidateQuestionPayload(t *testing.T) {
	tests := []struct {
		name    string
		qType   model.QuestionType
		choices string
		answer  string
		wantErr bool
	}{
		{"choice ok", model.QuestionChoice, `["a","b","c"]`, `1`, false},
		{"choice index out of range", model.QuestionChoice, `["a","b"]`, `5`, true},
		{"choice non numeric answer", model.QuestionChoice, `["a","b"]`, `"b"`, true},
		{"choice empty choices", model.QuestionChoice, `[]`, `0`, true},
		{"multiple choice ok", model.QuestionMultipleChoice, `["a","b","c"]`, `a,c`, false},
		{"multiple choice empty answer", model.QuestionMultipleChoice, `["a","b"]`, `  `, true},
		{"sort ok", model.QuestionSort, "", `"I am a student."`, false},
		{"sort empty", model.QuestionSort, "", "", true},
		{"fill in blank ok", model.QuestionFillInBlankEn, "", `color, colour`, false},
		{"numeric ok", model.QuestionNumeric, "", `[{"label":"x","answer":2}]`, false},
		{"numeric empty list", model.QuestionNumeric, "", `[]`, true},
		{"numeric not json", model.QuestionNumeric, "", `x=2`, true},
		{"svg ok", model.QuestionSVGInteractive, `<svg></svg>`, `[{"id":"a","answer":"3"}]`, false},
		{"svg without markup", model.QuestionSVGInteractive, " ", `[{"id":"a","answer":"3"}]`, true},
		{"function graph ok", model.QuestionFunctionGraph, "", `["y=2x+1"]`, false},
		{"function graph structured conditions", model.QuestionFunctionGraph, "", `[{"type":"linear","a":1,"b":2}]`, false},
		{"function graph not a list", model.QuestionFunctionGraph, "", `y=2x+1`, true},
		{"unknown type", model.QuestionType("essay"), "", `x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionPayload(tt.qType, tt.choices, tt.answer)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateQuestionPayload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetRunQuestHidesAnswers(t *testing.T) {
	db := newTestDB(t)
	qs := newTestQuestService(db)
	quest := seedQuest(t, db)

	run, err := qs.GetRunQuest(quest.ID)
	if err != nil {
		t.Fatalf("run quest: %v", err)
	}

	if len(run.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(run.Questions))
	}

	choice := run.Questions[0]
	if choice.Type != model.QuestionChoice {
		t.Fatalf("question order changed: first type = %s", choice.Type)
	}
	if len(choice.Choices) != 4 {
		t.Errorf("choices = %d, want 4", len(choice.Choices))
	}
	seen := map[int]bool{}
	for _, rc := range choice.Choices {
		if rc.Index < 0 || rc.Index > 3 {
			t.Errorf("choice index %d out of range", rc.Index)
		}
		if seen[rc.Index] {
			t.Errorf("duplicate choice index %d", rc.Index)
		}
		seen[rc.Index] = true
	}
}

func TestQuestQuestionsLoadInDisplayOrder(t *testing.T) {
	db := newTestDB(t)
	quest := seedQuest(t, db)

	// 後から登録しても表示順が小さければ先頭に来る
	head := model.Question{
		QuestID: quest.ID,
		Type:    model.QuestionSort,
		Text:    "並べ替え（先頭）",
		Answer:  `"This is a pen."`,
		Order:   0,
	}
	if err := db.Create(&head).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}

	repo := repository.NewQuestRepository(db)
	loaded, err := repo.FindByIDWithQuestions(quest.ID)
	if err != nil {
		t.Fatalf("load quest: %v", err)
	}
	if len(loaded.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(loaded.Questions))
	}
	if loaded.Questions[0].ID != head.ID {
		t.Errorf("first question = %d, want %d (order column must win)", loaded.Questions[0].ID, head.ID)
	}
	for i := 1; i < len(loaded.Questions); i++ {
		if loaded.Questions[i-1].Order > loaded.Questions[i].Order {
			t.Errorf("questions not sorted by order: %d before %d",
				loaded.Questions[i-1].Order, loaded.Questions[i].Order)
		}
	}
}

func TestListQuestsOverlaysHistory(t *testing.T) {
	db := newTestDB(t)
	qs := newTestQuestService(db)
	ss := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "overlay")

	if _, err := ss.Submit(context.Background(), user.ID, quest.ID, allCorrectSubmission()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	summaries, err := qs.ListQuests("math", "1", user.ID)
	if err != nil {
		t.Fatalf("list quests: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
	if summaries[0].Attempts != 1 || !summaries[0].IsCleared {
		t.Errorf("unexpected summary: %+v", summaries[0])
	}

	// 未ログインでは履歴なし
	anon, err := qs.ListQuests("math", "1", 0)
	if err != nil {
		t.Fatalf("list quests anonymous: %v", err)
	}
	if anon[0].Attempts != 0 || anon[0].IsCleared {
		t.Errorf("anonymous summary must not carry history: %+v", anon[0])
	}
}

func TestDeleteQuestCascades(t *testing.T) {
	db := newTestDB(t)
	qs := newTestQuestService(db)
	ss := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "delete_target")

	if _, err := ss.Submit(context.Background(), user.ID, quest.ID, allCorrectSubmission()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := qs.DeleteQuest(quest.ID); err != nil {
		t.Fatalf("delete quest: %v", err)
	}

	for name, target := range map[string]interface{}{
		"questions": &model.Question{},
		"histories": &model.QuestHistory{},
		"logs":      &model.QuestAttemptLog{},
		"progress":  &model.UserProgress{},
	} {
		var count int64
		if err := db.Model(target).Where("quest_id = ?", quest.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if count != 0 {
			t.Errorf("%s left behind after delete: %d rows", name, count)
		}
	}
}

func TestAddQuestionAssignsNextOrder(t *testing.T) {
	db := newTestDB(t)
	qs := newTestQuestService(db)
	quest := seedQuest(t, db)

	q, err := qs.AddQuestion(quest.ID, fillInBlankInput())
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if q.Order != 3 {
		t.Errorf("order = %d, want 3 (after the two seeded questions)", q.Order)
	}
}

func fillInBlankInput() QuestionInput {
	return QuestionInput{
		Type:   string(model.QuestionFillInBlankEn),
		Text:   "His favorite ____ is blue.",
		Answer: "color, colour",
	}
}
