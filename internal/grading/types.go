package grading

import (
	"fmt"

	"mquest_backend/internal/model"
)

// Submission 1回の解答リクエストのフィールド集合。キーは単一解答の
// 問題が q<問題番号>、サブ解答を持つ問題（numeric/svg_interactive）が
// q<問題番号>_<サブID>。複数選択はHTMLフォームの多値に合わせて値を複数持つ
type Submission map[string][]string

// Get 最初の値を返す。未提出なら空文字
func (s Submission) Get(key string) string {
	if vals, ok := s[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// List キーの全値を返す
func (s Submission) List(key string) []string {
	return s[key]
}

// Set 単一値をセット（テスト・フォーム変換用）
func (s Submission) Set(key, value string) {
	s[key] = []string{value}
}

// LabeledValue numeric/svg_interactiveのサブ解答1件の表示用ペア
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Verdict 1問分の採点結果。UserAnswer/Expectedはそのまま結果画面に
// 渡せる形にしてある（choice系はインデックス文字列、複合問題はLabeledValue列）
type Verdict struct {
	QuestionID uint               `json:"questionId"`
	Type       model.QuestionType `json:"type"`
	Correct    bool               `json:"correct"`
	// NeedsManual 自動採点が定義されていない種別（function_graph）
	NeedsManual bool        `json:"needsManual,omitempty"`
	UserAnswer  interface{} `json:"userAnswer"`
	Expected    interface{} `json:"expected"`
	// DataError 保存されている正答payloadが壊れていた場合の診断メッセージ。
	// この問題は不正解として扱われるが、採点全体は続行される
	DataError string `json:"dataError,omitempty"`
}

// Result クエスト全体の採点集計
type Result struct {
	Results    []Verdict `json:"results"`
	AllCorrect bool      `json:"allCorrect"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	// NeedsManual いずれかの問題が手動採点待ち
	NeedsManual bool `json:"needsManual,omitempty"`
}

// MalformedAnswerError 正答payloadが種別の期待する形にパースできない。
// データ不整合でありユーザー起因ではない
type MalformedAnswerError struct {
	QuestionID uint
	Type       model.QuestionType
	Reason     string
}

func (e *MalformedAnswerError) Error() string {
	return fmt.Sprintf("question %d (%s): malformed answer data: %s", e.QuestionID, e.Type, e.Reason)
}

// UnsupportedTypeError 採点ルールが定義されていない問題種別
type UnsupportedTypeError struct {
	QuestionID uint
	Type       model.QuestionType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("question %d: unsupported question type %q", e.QuestionID, e.Type)
}

// FieldKey 問題のフォームフィールドキー（q0, q1, ...）
func FieldKey(index int) string {
	return fmt.Sprintf("q%d", index)
}

// SubFieldKey サブ解答のフィールドキー（q0_0, q2_axis_x, ...）
func SubFieldKey(index int, subID string) string {
	return fmt.Sprintf("q%d_%s", index, subID)
}
