package repository

import (
	"mquest_backend/internal/model"

	"gorm.io/gorm"
)

type QuestHistoryRepository struct {
	DB *gorm.DB
}

func NewQuestHistoryRepository(db *gorm.DB) *QuestHistoryRepository {
	return &QuestHistoryRepository{DB: db}
}

func (r *QuestHistoryRepository) FindByUserAndQuest(userID, questID uint) (*model.QuestHistory, error) {
	var history model.QuestHistory
	err := r.DB.Where("user_id = ? AND quest_id = ?", userID, questID).First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *QuestHistoryRepository) FindByUser(userID uint) ([]model.QuestHistory, error) {
	var histories []model.QuestHistory
	err := r.DB.Where("user_id = ?", userID).Find(&histories).Error
	return histories, err
}

// FindByUserAndQuests クエスト選択画面の履歴表示用
func (r *QuestHistoryRepository) FindByUserAndQuests(userID uint, questIDs []uint) ([]model.QuestHistory, error) {
	var histories []model.QuestHistory
	if len(questIDs) == 0 {
		return histories, nil
	}
	err := r.DB.Where("user_id = ? AND quest_id IN ?", userID, questIDs).Find(&histories).Error
	return histories, err
}

// MedalSummaries 科目×レベルごとの挑戦回数合計（メダル画面用）
func (r *QuestHistoryRepository) MedalSummaries(userID uint) ([]model.MedalSummary, error) {
	var summaries []model.MedalSummary
	err := r.DB.Model(&model.QuestHistory{}).
		Select("quests.subject AS subject, quests.level AS level, SUM(quest_histories.attempts) AS total_attempts").
		Joins("JOIN quests ON quests.id = quest_histories.quest_id").
		Where("quest_histories.user_id = ?", userID).
		Group("quests.subject, quests.level").
		Order("quests.subject, quests.level").
		Scan(&summaries).Error
	return summaries, err
}
