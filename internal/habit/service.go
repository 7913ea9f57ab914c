// Package habit は習慣トラッキングのビジネスロジックを提供する。
package habit

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/repository"
	"github.com/hitoshi/vida/internal/security"
)

// Service は習慣に関するビジネスロジックを提供する。
type Service struct {
	repo      repository.HabitRepository
	sanitizer security.TextSanitizerService
	logger    *slog.Logger
	now       func() time.Time // テストで固定するための時刻源
}

// NewService はServiceを生成する。
func NewService(repo repository.HabitRepository, sanitizer security.TextSanitizerService, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		logger:    logger,
		now:       time.Now,
	}
}

// List はセッションのユーザーに見える習慣一覧を返す。
func (s *Service) List(ctx context.Context, session *model.Session) ([]model.Habit, error) {
	return s.repo.List(ctx, session)
}

// Add は新しい習慣を追加する。
// 名前はマークアップ除去と前後空白の除去を行い、空になった場合は拒否する。
func (s *Service) Add(ctx context.Context, session *model.Session, name string) (*model.Habit, error) {
	cleanName := s.sanitizer.Sanitize(name)
	if cleanName == "" {
		return nil, model.NewEmptyHabitNameError()
	}

	habit, err := s.repo.Create(ctx, session, cleanName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("habit added",
		slog.Int64("habit_id", habit.ID),
	)

	return habit, nil
}

// Complete は今日の達成を記録する。
// 前回達成が昨日なら連続達成日数を+1、それ以外は1にリセットする。
// 同じ日の二重記録、および見えない習慣IDに対してはfalseを返し、更新は行わない。
func (s *Service) Complete(ctx context.Context, session *model.Session, habitID int64) (bool, error) {
	habit, err := s.repo.FindByID(ctx, session, habitID)
	if err != nil {
		return false, err
	}
	if habit == nil {
		return false, nil
	}

	today := s.now()
	if doneToday(habit.LastDoneDate, today) {
		return false, nil
	}

	newStreak := advanceStreak(habit.LastDoneDate, habit.Streak, today)
	todayISO := today.Format(dateLayout)

	if err := s.repo.UpdateProgress(ctx, session, habitID, newStreak, habit.TotalDone+1, todayISO); err != nil {
		return false, err
	}

	s.logger.Info("habit completed",
		slog.Int64("habit_id", habitID),
		slog.Int("streak", newStreak),
	)

	return true, nil
}

// Delete は指定IDの習慣を削除する。
func (s *Service) Delete(ctx context.Context, session *model.Session, habitID int64) error {
	return s.repo.DeleteByID(ctx, session, habitID)
}
