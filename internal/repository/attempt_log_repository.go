package repository

import (
	"time"

	"mquest_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptLogRepository struct {
	DB *gorm.DB
}

func NewAttemptLogRepository(db *gorm.DB) *AttemptLogRepository {
	return &AttemptLogRepository{DB: db}
}

func (r *AttemptLogRepository) Create(log *model.QuestAttemptLog) error {
	return r.DB.Create(log).Error
}

func (r *AttemptLogRepository) CountByUserAndQuest(userID, questID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestAttemptLog{}).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Count(&count).Error
	return count, err
}

// WeeklyBuckets 直近N週の挑戦数・クリア数を週ラベル（%Y-%u）で集計する。
// クリアは「正答数 = 総問題数」の挑戦
func (r *AttemptLogRepository) WeeklyBuckets(userID uint, since time.Time) ([]model.AttemptBucket, error) {
	return r.buckets(userID, since, "%Y-%u")
}

// MonthlyBuckets 直近N日の挑戦数・クリア数を月ラベル（%Y-%m）で集計する
func (r *AttemptLogRepository) MonthlyBuckets(userID uint, since time.Time) ([]model.AttemptBucket, error) {
	return r.buckets(userID, since, "%Y-%m")
}

func (r *AttemptLogRepository) buckets(userID uint, since time.Time, format string) ([]model.AttemptBucket, error) {
	var buckets []model.AttemptBucket
	err := r.DB.Model(&model.QuestAttemptLog{}).
		Select("DATE_FORMAT(attempted_at, ?) AS label, "+
			"SUM(CASE WHEN correct_answers = total_questions THEN 1 ELSE 0 END) AS cleared_count, "+
			"COUNT(id) AS attempt_count", format).
		Where("user_id = ? AND attempted_at >= ?", userID, since).
		Group("label").
		Order("label").
		Scan(&buckets).Error
	return buckets, err
}
