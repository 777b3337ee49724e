package service

import (
	"context"
	"testing"

	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"

	"gorm.io/gorm"
)

func newTestProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewQuestHistoryRepository(db),
		repository.NewAttemptLogRepository(db),
		repository.NewQuestRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
}

func TestConqueredQuests(t *testing.T) {
	db := newTestDB(t)
	ps := newTestProgressService(db)
	ss := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "conqueror")
	ctx := context.Background()

	conquered, err := ps.ConqueredQuests(ctx, user.ID)
	if err != nil {
		t.Fatalf("conquered: %v", err)
	}
	if len(conquered) != 0 {
		t.Fatalf("conquered = %d, want 0 before any clear", len(conquered))
	}

	if _, err := ss.Submit(ctx, user.ID, quest.ID, oneWrongSubmission()); err != nil {
		t.Fatalf("failed attempt: %v", err)
	}
	if _, err := ss.Submit(ctx, user.ID, quest.ID, allCorrectSubmission()); err != nil {
		t.Fatalf("clearing attempt: %v", err)
	}

	conquered, err = ps.ConqueredQuests(ctx, user.ID)
	if err != nil {
		t.Fatalf("conquered after clear: %v", err)
	}
	if len(conquered) != 1 {
		t.Fatalf("conquered = %d, want 1", len(conquered))
	}
	if conquered[0].QuestID != quest.ID {
		t.Errorf("questID = %d, want %d", conquered[0].QuestID, quest.ID)
	}
	if conquered[0].Attempts != 2 {
		t.Errorf("attempts = %d, want 2 (failures count too)", conquered[0].Attempts)
	}
	if conquered[0].MapType != quest.WorldName {
		t.Errorf("mapType = %q, want %q", conquered[0].MapType, quest.WorldName)
	}
}

func TestMedalSummaries(t *testing.T) {
	db := newTestDB(t)
	ps := newTestProgressService(db)
	ss := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "medalist")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := ss.Submit(ctx, user.ID, quest.ID, oneWrongSubmission()); err != nil {
			t.Fatalf("submit #%d: %v", i+1, err)
		}
	}

	medals, err := ps.MedalSummaries(ctx, user.ID)
	if err != nil {
		t.Fatalf("medals: %v", err)
	}
	if len(medals) != 1 {
		t.Fatalf("medal rows = %d, want 1", len(medals))
	}
	if medals[0].Subject != "math" || medals[0].Level != "1" {
		t.Errorf("unexpected grouping: %+v", medals[0])
	}
	if medals[0].TotalAttempts != 3 {
		t.Errorf("totalAttempts = %d, want 3", medals[0].TotalAttempts)
	}
}

func TestStudentOverviews(t *testing.T) {
	db := newTestDB(t)
	ps := newTestProgressService(db)
	ss := newTestSubmissionService(db)
	quest := seedQuest(t, db)
	user := seedStudent(t, db, "observed")
	ctx := context.Background()

	if _, err := ss.Submit(ctx, user.ID, quest.ID, allCorrectSubmission()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	reloaded, err := repository.NewUserRepository(db).FindByID(user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}

	overviews, err := ps.StudentOverviews([]model.User{*reloaded})
	if err != nil {
		t.Fatalf("overviews: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("overviews = %d, want 1", len(overviews))
	}
	ov := overviews[0]
	if ov.Username != "observed" {
		t.Errorf("username = %q", ov.Username)
	}
	if len(ov.Progress) != 1 || ov.Progress[0].ClearedCount != 1 {
		t.Errorf("unexpected progress: %+v", ov.Progress)
	}
	if len(ov.Medals) != 1 || ov.Medals[0].Count != 1 {
		t.Errorf("unexpected medals: %+v", ov.Medals)
	}
}
