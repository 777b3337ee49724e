package model

// 科目キーと表示名のマッピング
var SubjectNames = map[string]string{
	"math":     "数学",
	"english":  "英語",
	"japanese": "国語",
}

func SubjectDisplayName(key string) string {
	if name, ok := SubjectNames[key]; ok {
		return name
	}
	return key
}

// swagger:model Quest
type Quest struct {
	BaseModel
	Subject   string `gorm:"size:100;not null;index:idx_subject_level" json:"subject"`
	Level     string `gorm:"size:10;not null;index:idx_subject_level" json:"level"`
	QuestName string `gorm:"size:100;not null" json:"questName"`
	WorldName string `gorm:"size:100" json:"worldName"` // 世界制覇マップ上の表示位置

	Questions []Question `gorm:"foreignKey:QuestID" json:"questions,omitempty"`
}

func (Quest) TableName() string {
	return "quests"
}
