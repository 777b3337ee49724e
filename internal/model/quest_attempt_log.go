package model

import "time"

// QuestAttemptLog 挑戦1回につき1行の追記専用ログ。更新されない。
// 週次・月次の集計グラフはこのテーブルから作る
// swagger:model QuestAttemptLog
type QuestAttemptLog struct {
	BaseModel
	UserID         uint      `gorm:"index;not null" json:"userId"`
	QuestID        uint      `gorm:"index;not null" json:"questId"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	AttemptedAt    time.Time `gorm:"index" json:"attemptedAt"`
}

func (QuestAttemptLog) TableName() string {
	return "quest_attempt_logs"
}
