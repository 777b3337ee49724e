package model

type QuestionType string

const (
	QuestionChoice         QuestionType = "choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionSort           QuestionType = "sort"
	QuestionFillInBlankEn  QuestionType = "fill_in_the_blank_en"
	QuestionNumeric        QuestionType = "numeric"
	QuestionSVGInteractive QuestionType = "svg_interactive"
	QuestionFunctionGraph  QuestionType = "function_graph"
)

// KnownQuestionTypes 出题フォームで選択できる種別の一覧
var KnownQuestionTypes = []QuestionType{
	QuestionChoice,
	QuestionMultipleChoice,
	QuestionSort,
	QuestionFillInBlankEn,
	QuestionNumeric,
	QuestionSVGInteractive,
	QuestionFunctionGraph,
}

func (t QuestionType) Valid() bool {
	for _, k := range KnownQuestionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	QuestID uint         `gorm:"index;not null" json:"questId"`
	Type    QuestionType `gorm:"size:30;not null" json:"type"`
	Text    string       `gorm:"type:text;not null" json:"text"`
	// Choices 選択肢payload。choice/multiple_choiceはJSON配列、
	// svg_interactiveは生のSVGマークアップ、それ以外は未使用
	Choices string `gorm:"type:text" json:"choices,omitempty"`
	// Answer 正答payload。種別ごとにシリアライズ形式が異なる（採点側でパース）
	Answer      string `gorm:"type:text" json:"-"`
	Explanation string `gorm:"type:text" json:"explanation,omitempty"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}
