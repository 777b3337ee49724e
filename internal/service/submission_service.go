package service

import (
	"context"
	"errors"
	"time"

	"mquest_backend/internal/grading"
	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"
	"mquest_backend/internal/util"
	"mquest_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionService 提出の採点と履歴更新を担う。採点そのものは
// gradingパッケージの純粋関数で、ここではその結果をDBへ反映する
type SubmissionService struct {
	DB        *gorm.DB
	QuestRepo *repository.QuestRepository
	Redis     *redis.Client
}

func NewSubmissionService(db *gorm.DB, questRepo *repository.QuestRepository, redisClient *redis.Client) *SubmissionService {
	return &SubmissionService{
		DB:        db,
		QuestRepo: questRepo,
		Redis:     redisClient,
	}
}

// SubmissionOutcome 採点結果と更新後の履歴サマリ
type SubmissionOutcome struct {
	QuestID    uint           `json:"questId"`
	QuestName  string         `json:"questName"`
	Result     grading.Result `json:"result"`
	Attempts   int            `json:"attempts"`
	IsCleared  bool           `json:"isCleared"`
	FirstClear bool           `json:"firstClear"`
}

// Submit クエスト1回分の提出を採点する。userIDが0（未ログイン）の場合は
// 採点だけ行い履歴には書かない
func (s *SubmissionService) Submit(ctx context.Context, userID, questID uint, sub grading.Submission) (*SubmissionOutcome, error) {
	quest, err := s.QuestRepo.FindByIDWithQuestions(questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}

	result := grading.Score(quest.Questions, sub)
	monitoring.RecordSubmission(result.AllCorrect)

	outcome := &SubmissionOutcome{
		QuestID:   quest.ID,
		QuestName: quest.QuestName,
		Result:    result,
		IsCleared: result.AllCorrect,
	}

	if userID == 0 {
		return outcome, nil
	}

	if err := s.recordAttempt(userID, quest.ID, result, outcome); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 同一ユーザーの初回提出が同時に走った場合。片方の書き込みだけ
			// 残せばよいので、このリクエストは採点結果のみ返す
			zap.L().Warn("concurrent first submission, history write skipped",
				zap.Uint("userID", userID),
				zap.Uint("questID", quest.ID))
			return outcome, nil
		}
		return nil, err
	}

	s.invalidateCaches(ctx, userID)
	return outcome, nil
}

// recordAttempt 履歴サマリの上書き、挑戦ログの追記、制覇マップの更新を
// 1トランザクションで行う。クリア済みフラグは一度立ったら降りない
func (s *SubmissionService) recordAttempt(userID, questID uint, result grading.Result, outcome *SubmissionOutcome) error {
	now := time.Now()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var history model.QuestHistory
		err := tx.Where("user_id = ? AND quest_id = ?", userID, questID).First(&history).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			history = model.QuestHistory{
				UserID:      userID,
				QuestID:     questID,
				Correct:     result.AllCorrect,
				IsCleared:   result.AllCorrect,
				Attempts:    1,
				LastAttempt: now,
			}
			if result.AllCorrect {
				history.ClearedCount = 1
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			history.Attempts++
			history.Correct = result.AllCorrect
			history.LastAttempt = now
			if result.AllCorrect {
				history.IsCleared = true
				history.ClearedCount++
			}
			if err := tx.Save(&history).Error; err != nil {
				return err
			}
		}

		log := model.QuestAttemptLog{
			UserID:         userID,
			QuestID:        questID,
			CorrectAnswers: result.Score,
			TotalQuestions: result.Total,
			AttemptedAt:    now,
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		outcome.Attempts = history.Attempts
		outcome.IsCleared = history.IsCleared

		// 更新後の履歴がクリア済みなら制覇マップ側も揃える。進捗行が
		// 欠けていた場合もここで復元される
		if !history.IsCleared {
			return nil
		}

		var progress model.UserProgress
		err = tx.Where("user_id = ? AND quest_id = ?", userID, questID).First(&progress).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			conquered := now
			progress = model.UserProgress{
				UserID:      userID,
				QuestID:     questID,
				Status:      model.ProgressCleared,
				ConqueredAt: &conquered,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
			outcome.FirstClear = true
		case err != nil:
			return err
		case progress.Status != model.ProgressCleared:
			conquered := now
			progress.Status = model.ProgressCleared
			progress.ConqueredAt = &conquered
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
			outcome.FirstClear = true
		default:
			// クリア済み。ConqueredAtは初回クリア時刻のまま
		}

		if outcome.FirstClear {
			if err := tx.Model(&model.User{}).Where("id = ?", userID).
				UpdateColumn("medals", gorm.Expr("medals + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SubmissionService) invalidateCaches(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	keys := []string{
		conqueredCacheKey(userID),
		medalsCacheKey(userID),
		overviewCacheKey(userID),
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("progress cache invalidation failed", zap.Uint("userID", userID), zap.Error(err))
	}
}
