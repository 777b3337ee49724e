package model

import "time"

const (
	ProgressUnlocked = "unlocked"
	ProgressCleared  = "cleared"
)

// UserProgress 世界制覇マップ用の進捗。clearedは単調で、
// ConqueredAtは初回クリア時刻のまま保持される
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      uint       `gorm:"not null;uniqueIndex:unique_user_quest_progress" json:"userId"`
	QuestID     uint       `gorm:"not null;uniqueIndex:unique_user_quest_progress" json:"questId"`
	Status      string     `gorm:"size:50;not null;default:'unlocked'" json:"status"`
	ConqueredAt *time.Time `json:"conqueredAt,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
