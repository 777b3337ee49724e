package model

// ConqueredQuest 生徒ダッシュボードの世界制覇マップ用データ
type ConqueredQuest struct {
	QuestID  uint   `json:"questId"`
	Attempts int    `json:"attempts"`
	MapType  string `json:"mapType"` // Quest.WorldName
}

// MedalSummary 科目×レベルごとの挑戦回数（メダル）集計
type MedalSummary struct {
	Subject       string `json:"subject"`
	Level         string `json:"level"`
	TotalAttempts int    `json:"totalAttempts"`
}

// ClearedSummary 科目×レベルごとのクリア済みクエスト数
type ClearedSummary struct {
	Subject      string `json:"subject"`
	Level        string `json:"level"`
	ClearedCount int    `json:"clearedCount"`
}

// AttemptBucket 週次・月次グラフの1バケット
type AttemptBucket struct {
	Label        string `json:"label"` // "2026-35"（週）または "2026-09"（月）
	ClearedCount int    `json:"clearedCount"`
	AttemptCount int    `json:"attemptCount"`
}

// AttemptChart グラフ描画用のラベル・系列ペア
type AttemptChart struct {
	Labels       []string `json:"labels"`
	ClearedCount []int    `json:"clearedCount"`
	AttemptCount []int    `json:"attemptCount"`
}

// ProgressOverview 進捗ページ全体のレスポンス
type ProgressOverview struct {
	Cleared []ClearedSummary `json:"cleared"`
	Weekly  AttemptChart     `json:"weekly"`
	Monthly AttemptChart     `json:"monthly"`
}

// StudentOverview 管理者向け生徒一覧の1人分
type StudentOverview struct {
	Username string           `json:"username"`
	Nickname string           `json:"nickname"`
	Progress []ClearedSummary `json:"progress"`
	Medals   []QuestMedal     `json:"medals"`
}

// QuestMedal クエスト単位の挑戦回数
type QuestMedal struct {
	QuestID uint `json:"questId"`
	Count   int  `json:"count"`
}
