package service

import (
	"context"
	"encoding/json"
	"time"

	"mquest_backend/internal/model"
	"mquest_backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const progressCacheTTL = 5 * time.Minute

// ProgressService ダッシュボードと進捗ページの集計を担う。
// 集計はDB側で行い、結果をRedisに短時間キャッシュする
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	HistoryRepo    *repository.QuestHistoryRepository
	AttemptLogRepo *repository.AttemptLogRepository
	QuestRepo      *repository.QuestRepository
	UserRepo       *repository.UserRepository
	Redis          *redis.Client
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	historyRepo *repository.QuestHistoryRepository,
	attemptLogRepo *repository.AttemptLogRepository,
	questRepo *repository.QuestRepository,
	userRepo *repository.UserRepository,
	redisClient *redis.Client,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		HistoryRepo:    historyRepo,
		AttemptLogRepo: attemptLogRepo,
		QuestRepo:      questRepo,
		UserRepo:       userRepo,
		Redis:          redisClient,
	}
}

// ConqueredQuests 世界制覇マップに置くクリア済みクエスト
func (s *ProgressService) ConqueredQuests(ctx context.Context, userID uint) ([]model.ConqueredQuest, error) {
	var cached []model.ConqueredQuest
	if s.readCache(ctx, conqueredCacheKey(userID), &cached) {
		return cached, nil
	}

	progress, err := s.ProgressRepo.ListClearedByUser(userID)
	if err != nil {
		return nil, err
	}

	questIDs := make([]uint, 0, len(progress))
	for _, p := range progress {
		questIDs = append(questIDs, p.QuestID)
	}
	quests, err := s.QuestRepo.FindByIDs(questIDs)
	if err != nil {
		return nil, err
	}
	worldNames := make(map[uint]string, len(quests))
	for _, q := range quests {
		worldNames[q.ID] = q.WorldName
	}

	histories, err := s.HistoryRepo.FindByUserAndQuests(userID, questIDs)
	if err != nil {
		return nil, err
	}
	attempts := make(map[uint]int, len(histories))
	for _, h := range histories {
		attempts[h.QuestID] = h.Attempts
	}

	conquered := make([]model.ConqueredQuest, 0, len(progress))
	for _, p := range progress {
		conquered = append(conquered, model.ConqueredQuest{
			QuestID:  p.QuestID,
			Attempts: attempts[p.QuestID],
			MapType:  worldNames[p.QuestID],
		})
	}

	s.writeCache(ctx, conqueredCacheKey(userID), conquered)
	return conquered, nil
}

// MedalSummaries 科目×レベルごとの挑戦回数
func (s *ProgressService) MedalSummaries(ctx context.Context, userID uint) ([]model.MedalSummary, error) {
	var cached []model.MedalSummary
	if s.readCache(ctx, medalsCacheKey(userID), &cached) {
		return cached, nil
	}

	summaries, err := s.HistoryRepo.MedalSummaries(userID)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, medalsCacheKey(userID), summaries)
	return summaries, nil
}

// Overview 進捗ページ。クリア状況と週次・月次の推移グラフ
func (s *ProgressService) Overview(ctx context.Context, userID uint) (*model.ProgressOverview, error) {
	var cached model.ProgressOverview
	if s.readCache(ctx, overviewCacheKey(userID), &cached) {
		return &cached, nil
	}

	cleared, err := s.ProgressRepo.ClearedSummaries(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	weeklyBuckets, err := s.AttemptLogRepo.WeeklyBuckets(userID, now.AddDate(0, 0, -7*12))
	if err != nil {
		return nil, err
	}
	monthlyBuckets, err := s.AttemptLogRepo.MonthlyBuckets(userID, now.AddDate(-1, 0, 0))
	if err != nil {
		return nil, err
	}

	overview := &model.ProgressOverview{
		Cleared: cleared,
		Weekly:  bucketsToChart(weeklyBuckets),
		Monthly: bucketsToChart(monthlyBuckets),
	}

	s.writeCache(ctx, overviewCacheKey(userID), overview)
	return overview, nil
}

// StudentOverviews 管理者・保護者向けの生徒別サマリ
func (s *ProgressService) StudentOverviews(users []model.User) ([]model.StudentOverview, error) {
	overviews := make([]model.StudentOverview, 0, len(users))
	for _, user := range users {
		progress, err := s.ProgressRepo.ClearedSummaries(user.ID)
		if err != nil {
			return nil, err
		}

		histories, err := s.HistoryRepo.FindByUser(user.ID)
		if err != nil {
			return nil, err
		}
		medals := make([]model.QuestMedal, 0, len(histories))
		for _, h := range histories {
			medals = append(medals, model.QuestMedal{QuestID: h.QuestID, Count: h.Attempts})
		}

		overviews = append(overviews, model.StudentOverview{
			Username: user.Username,
			Nickname: user.Nickname,
			Progress: progress,
			Medals:   medals,
		})
	}
	return overviews, nil
}

func bucketsToChart(buckets []model.AttemptBucket) model.AttemptChart {
	chart := model.AttemptChart{
		Labels:       make([]string, 0, len(buckets)),
		ClearedCount: make([]int, 0, len(buckets)),
		AttemptCount: make([]int, 0, len(buckets)),
	}
	for _, b := range buckets {
		chart.Labels = append(chart.Labels, b.Label)
		chart.ClearedCount = append(chart.ClearedCount, b.ClearedCount)
		chart.AttemptCount = append(chart.AttemptCount, b.AttemptCount)
	}
	return chart
}

func (s *ProgressService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		zap.L().Warn("progress cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ProgressService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, progressCacheTTL).Err(); err != nil {
		zap.L().Warn("progress cache write failed", zap.String("key", key), zap.Error(err))
	}
}
