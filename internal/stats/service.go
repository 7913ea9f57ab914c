// Package stats は習慣とリマインダーの集計統計を提供する。
package stats

import (
	"context"
	"log/slog"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/repository"
)

// Service はユーザーごとの統計を集計する。
type Service struct {
	habits    repository.HabitRepository
	reminders repository.ReminderRepository
	logger    *slog.Logger
}

// NewService はServiceを生成する。
func NewService(habits repository.HabitRepository, reminders repository.ReminderRepository, logger *slog.Logger) *Service {
	return &Service{
		habits:    habits,
		reminders: reminders,
		logger:    logger,
	}
}

// Summary はセッションのユーザーの統計を集計して返す。
// いずれかの取得に失敗した場合は統計を返さずエラーとする。
func (s *Service) Summary(ctx context.Context, session *model.Session) (*model.Stats, error) {
	habits, err := s.habits.List(ctx, session)
	if err != nil {
		return nil, err
	}
	reminders, err := s.reminders.List(ctx, session)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		TotalHabits:    len(habits),
		TotalReminders: len(reminders),
	}
	for _, h := range habits {
		stats.TotalDone += h.TotalDone
		if h.Streak > stats.BestStreak {
			stats.BestStreak = h.Streak
		}
	}

	return stats, nil
}
