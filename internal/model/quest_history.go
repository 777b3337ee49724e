package model

import "time"

// QuestHistory ユーザー×クエストの挑戦サマリ（1行、毎回上書き）
// swagger:model QuestHistory
type QuestHistory struct {
	BaseModel
	UserID  uint `gorm:"not null;uniqueIndex:unique_user_quest" json:"userId"`
	QuestID uint `gorm:"not null;uniqueIndex:unique_user_quest" json:"questId"`
	// Correct 直近の挑戦が全問正解だったか
	Correct bool `gorm:"not null;default:false" json:"correct"`
	// IsCleared 一度でも全問正解したか。trueになったら戻らない
	IsCleared    bool      `gorm:"default:false" json:"isCleared"`
	ClearedCount int       `gorm:"default:0" json:"clearedCount"`
	Attempts     int       `gorm:"default:0" json:"attempts"`
	LastAttempt  time.Time `json:"lastAttempt"`
}

func (QuestHistory) TableName() string {
	return "quest_histories"
}
