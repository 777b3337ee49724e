package repository

import (
	"mquest_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndQuest(userID, questID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND quest_id = ?", userID, questID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListClearedByUser 世界制覇マップに出すクリア済み進捗
func (r *ProgressRepository) ListClearedByUser(userID uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.ProgressCleared).Find(&records).Error
	return records, err
}

// ClearedSummaries 科目×レベルごとのクリア済みクエスト数（進捗ページ用）
func (r *ProgressRepository) ClearedSummaries(userID uint) ([]model.ClearedSummary, error) {
	var summaries []model.ClearedSummary
	err := r.DB.Model(&model.UserProgress{}).
		Select("quests.subject AS subject, quests.level AS level, COUNT(quests.id) AS cleared_count").
		Joins("JOIN quests ON quests.id = user_progress.quest_id").
		Where("user_progress.user_id = ? AND user_progress.status = ?", userID, model.ProgressCleared).
		Group("quests.subject, quests.level").
		Order("quests.subject, quests.level").
		Scan(&summaries).Error
	return summaries, err
}
