package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"mquest_backend/internal/grading"
	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"
	"mquest_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:submission_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(db, repository.NewQuestRepository(db), nil)
}

func seedQuest(t *testing.T, db *gorm.DB) *model.Quest {
	t.Helper()
	quest := &model.Quest{
		Subject:   "math",
		Level:     "1",
		QuestName: "たし算の森",
		WorldName: "はじまりの草原",
	}
	if err := db.Create(quest).Error; err != nil {
		t.Fatalf("create quest: %v", err)
	}

	questions := []model.Question{
		{
			QuestID: quest.ID,
			Type:    model.QuestionChoice,
			Text:    "2 + 3 = ?",
			Choices: `["4","5","6","7"]`,
			Answer:  `1`,
			Order:   1,
		},
		{
			QuestID: quest.ID,
			Type:    model.QuestionSort,
			Text:    "並べ替えて文を作りなさい",
			Answer:  `"I am not a boy."`,
			Order:   2,
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
	}
	return quest
}

func seedStudent(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Password: "x",
		Role:     model.Student,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func allCorrectSubmission() grading.Submission {
	sub := grading.Submission{}
	sub.Set(grading.FieldKey(0), "1")
	sub.Set(grading.FieldKey(1), "I am not a boy .")
	return sub
}

func oneWrongSubmission() grading.Submission {
	sub := grading.Submission{}
	sub.Set(grading.FieldKey(0), "3")
	sub.Set(grading.FieldKey(1), "I am not a boy .")
	return sub
}

func TestSubmitFirstAttemptFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "taro")

	outcome, err := svc.Submit(context.Background(), user.ID, quest.ID, oneWrongSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if outcome.Result.AllCorrect {
		t.Error("expected AllCorrect=false")
	}
	if outcome.Result.Score != 1 || outcome.Result.Total != 2 {
		t.Errorf("score = %d/%d, want 1/2", outcome.Result.Score, outcome.Result.Total)
	}
	if outcome.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", outcome.Attempts)
	}
	if outcome.IsCleared {
		t.Error("expected IsCleared=false")
	}

	var history model.QuestHistory
	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.Attempts != 1 || history.Correct || history.IsCleared || history.ClearedCount != 0 {
		t.Errorf("unexpected history: %+v", history)
	}

	var logCount int64
	db.Model(&model.QuestAttemptLog{}).Where("user_id = ?", user.ID).Count(&logCount)
	if logCount != 1 {
		t.Errorf("attempt logs = %d, want 1", logCount)
	}

	var progressCount int64
	db.Model(&model.UserProgress{}).Where("user_id = ?", user.ID).Count(&progressCount)
	if progressCount != 0 {
		t.Errorf("progress rows = %d, want 0 before first clear", progressCount)
	}
}

func TestSubmitClearThenFailKeepsClearedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "hanako")
	ctx := context.Background()

	cleared, err := svc.Submit(ctx, user.ID, quest.ID, allCorrectSubmission())
	if err != nil {
		t.Fatalf("submit clear: %v", err)
	}
	if !cleared.Result.AllCorrect || !cleared.IsCleared || !cleared.FirstClear {
		t.Fatalf("unexpected clear outcome: %+v", cleared)
	}

	failed, err := svc.Submit(ctx, user.ID, quest.ID, oneWrongSubmission())
	if err != nil {
		t.Fatalf("submit fail: %v", err)
	}
	if failed.Result.AllCorrect {
		t.Error("expected second attempt to fail grading")
	}
	if !failed.IsCleared {
		t.Error("IsCleared must stay true after a later failed attempt")
	}
	if failed.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", failed.Attempts)
	}

	var history model.QuestHistory
	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.Correct {
		t.Error("Correct reflects the latest attempt and must be false")
	}
	if !history.IsCleared || history.ClearedCount != 1 {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestSubmitRepeatedClearKeepsFirstConqueredAt(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "jiro")
	ctx := context.Background()

	first, err := svc.Submit(ctx, user.ID, quest.ID, allCorrectSubmission())
	if err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if !first.FirstClear {
		t.Fatal("expected FirstClear=true on first clear")
	}

	var progress model.UserProgress
	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	firstConquered := *progress.ConqueredAt

	second, err := svc.Submit(ctx, user.ID, quest.ID, allCorrectSubmission())
	if err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if second.FirstClear {
		t.Error("FirstClear must be false on a repeat clear")
	}

	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&progress).Error; err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	if !progress.ConqueredAt.Equal(firstConquered) {
		t.Errorf("ConqueredAt changed: %v -> %v", firstConquered, *progress.ConqueredAt)
	}

	var history model.QuestHistory
	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.ClearedCount != 2 || history.Attempts != 2 {
		t.Errorf("unexpected history: %+v", history)
	}

	var medals int
	if err := db.Model(&model.User{}).Select("medals").Where("id = ?", user.ID).Scan(&medals).Error; err != nil {
		t.Fatalf("load medals: %v", err)
	}
	if medals != 1 {
		t.Errorf("medals = %d, want 1 (only the first clear awards one)", medals)
	}
}

func TestSubmitAnonymousSkipsLedger(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)

	outcome, err := svc.Submit(context.Background(), 0, quest.ID, allCorrectSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !outcome.Result.AllCorrect {
		t.Error("grading must still run for anonymous submissions")
	}

	var histories, logs int64
	db.Model(&model.QuestHistory{}).Count(&histories)
	db.Model(&model.QuestAttemptLog{}).Count(&logs)
	if histories != 0 || logs != 0 {
		t.Errorf("anonymous submission wrote to the ledger: histories=%d logs=%d", histories, logs)
	}
}

func TestSubmitUnknownQuest(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)

	if _, err := svc.Submit(context.Background(), 1, 9999, allCorrectSubmission()); err == nil {
		t.Fatal("expected error for unknown quest")
	}
}

func TestDuplicateHistoryRowIsDetectable(t *testing.T) {
	db := newTestDB(t)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "racer")

	first := model.QuestHistory{UserID: user.ID, QuestID: quest.ID, Attempts: 1}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create history: %v", err)
	}

	// 同時初回提出の競合側が受け取るエラー
	second := model.QuestHistory{UserID: user.ID, QuestID: quest.ID, Attempts: 1}
	err := db.Create(&second).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestSubmitConcurrentFirstSubmissionReturnsGrading(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "shiro")

	// 履歴の読み取りとINSERTの間に、同一ユーザーのもう1リクエストが
	// 先に履歴を書き込んだ状況を再現する
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_history_insert", func(tx *gorm.DB) {
		if injected || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "quest_histories" {
			return
		}
		injected = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO quest_histories (user_id, quest_id, attempts) VALUES (?, ?, ?)",
			user.ID, quest.ID, 1); err != nil {
			t.Fatalf("insert rival history: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	outcome, err := svc.Submit(context.Background(), user.ID, quest.ID, allCorrectSubmission())
	if err != nil {
		t.Fatalf("submit must recover from the duplicate history row: %v", err)
	}
	if !injected {
		t.Fatal("rival insert never ran")
	}
	if !outcome.Result.AllCorrect || outcome.Result.Score != 2 {
		t.Errorf("grading result must still be returned: %+v", outcome.Result)
	}
	if outcome.FirstClear {
		t.Error("the losing request must not report FirstClear")
	}

	// 負けた側のトランザクションは丸ごと巻き戻るので挑戦ログも残らない
	var logs int64
	db.Model(&model.QuestAttemptLog{}).Where("user_id = ?", user.ID).Count(&logs)
	if logs != 0 {
		t.Errorf("attempt logs = %d, want 0 after rollback", logs)
	}
}

func TestSubmitRestoresMissingProgressForClearedHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "rescue")

	// クリア済み履歴だけあって制覇マップの行が欠けている状態。
	// 次の提出が不正解でも進捗行は復元される
	history := model.QuestHistory{
		UserID:       user.ID,
		QuestID:      quest.ID,
		IsCleared:    true,
		ClearedCount: 1,
		Attempts:     1,
	}
	if err := db.Create(&history).Error; err != nil {
		t.Fatalf("create history: %v", err)
	}

	outcome, err := svc.Submit(context.Background(), user.ID, quest.ID, oneWrongSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Result.AllCorrect {
		t.Fatal("expected the attempt itself to fail grading")
	}
	if !outcome.IsCleared {
		t.Error("IsCleared must stay true")
	}

	var progress model.UserProgress
	if err := db.Where("user_id = ? AND quest_id = ?", user.ID, quest.ID).First(&progress).Error; err != nil {
		t.Fatalf("progress row was not restored: %v", err)
	}
	if progress.Status != model.ProgressCleared || progress.ConqueredAt == nil {
		t.Errorf("unexpected progress: %+v", progress)
	}
}

func TestSubmitAttemptLogIsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "saburo")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, user.ID, quest.ID, oneWrongSubmission()); err != nil {
			t.Fatalf("submit #%d: %v", i+1, err)
		}
	}

	var logs []model.QuestAttemptLog
	if err := db.Where("user_id = ?", user.ID).Order("id").Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("logs = %d, want 3", len(logs))
	}
	for _, l := range logs {
		if l.CorrectAnswers != 1 || l.TotalQuestions != 2 {
			t.Errorf("unexpected log row: %+v", l)
		}
	}

	var historyCount int64
	db.Model(&model.QuestHistory{}).Where("user_id = ?", user.ID).Count(&historyCount)
	if historyCount != 1 {
		t.Errorf("history rows = %d, want exactly 1 per user and quest", historyCount)
	}
}
