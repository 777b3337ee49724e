package repository

import (
	"mquest_backend/internal/model"

	"gorm.io/gorm"
)

type QuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: db}
}

func (r *QuestRepository) Create(quest *model.Quest) error {
	return r.DB.Create(quest).Error
}

func (r *QuestRepository) Update(quest *model.Quest) error {
	return r.DB.Save(quest).Error
}

func (r *QuestRepository) FindByID(id uint) (*model.Quest, error) {
	var quest model.Quest
	if err := r.DB.First(&quest, id).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}

// FindByIDWithQuestions 問題を保存順（order, id）で読み込む
func (r *QuestRepository) FindByIDWithQuestions(id uint) (*model.Quest, error) {
	var quest model.Quest
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.`order`, questions.id")
	}).First(&quest, id).Error
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

func (r *QuestRepository) ListSubjects() ([]string, error) {
	var subjects []string
	err := r.DB.Model(&model.Quest{}).Distinct("subject").Order("subject").Pluck("subject", &subjects).Error
	return subjects, err
}

func (r *QuestRepository) ListLevels(subject string) ([]string, error) {
	var levels []string
	query := r.DB.Model(&model.Quest{}).Distinct("level").Order("level")
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	err := query.Pluck("level", &levels).Error
	return levels, err
}

func (r *QuestRepository) ListBySubjectLevel(subject, level string) ([]model.Quest, error) {
	var quests []model.Quest
	query := r.DB.Model(&model.Quest{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	err := query.Order("id").Find(&quests).Error
	return quests, err
}

func (r *QuestRepository) FindByIDs(ids []uint) ([]model.Quest, error) {
	var quests []model.Quest
	if len(ids) == 0 {
		return quests, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&quests).Error
	return quests, err
}
