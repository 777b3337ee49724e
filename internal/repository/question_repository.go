package repository

import (
	"mquest_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByQuest(questID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("quest_id = ?", questID).Order("`order`, id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) DeleteByID(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// NextOrder クエスト内で次の表示順を採番する
func (r *QuestionRepository) NextOrder(questID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Question{}).Where("quest_id = ?", questID).
		Select("COALESCE(MAX(`order`), 0)").Scan(&max).Error
	return max + 1, err
}
