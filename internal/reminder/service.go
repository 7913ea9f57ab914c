// Package reminder は期日付きリマインダーのビジネスロジックを提供する。
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/repository"
	"github.com/hitoshi/vida/internal/security"
)

// dateLayout は期日の保存形式。
const dateLayout = "2006-01-02"

// Service はリマインダーに関するビジネスロジックを提供する。
type Service struct {
	repo      repository.ReminderRepository
	sanitizer security.TextSanitizerService
	logger    *slog.Logger
}

// NewService はServiceを生成する。
func NewService(repo repository.ReminderRepository, sanitizer security.TextSanitizerService, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// List はセッションのユーザーに見えるリマインダー一覧を返す。
func (s *Service) List(ctx context.Context, session *model.Session) ([]model.Reminder, error) {
	return s.repo.List(ctx, session)
}

// Add は新しいリマインダーを追加する。
// タイトルはマークアップ除去後に空なら拒否し、期日はYYYY-MM-DD形式に正規化する。
func (s *Service) Add(ctx context.Context, session *model.Session, title, dueDate string) (*model.Reminder, error) {
	cleanTitle := s.sanitizer.Sanitize(title)
	if cleanTitle == "" {
		return nil, model.NewEmptyReminderTitleError()
	}

	normalized, err := normalizeISODate(dueDate)
	if err != nil {
		return nil, model.NewInvalidDateError(dueDate)
	}

	reminder, err := s.repo.Create(ctx, session, cleanTitle, normalized)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reminder added",
		slog.Int64("reminder_id", reminder.ID),
		slog.String("due_date", reminder.DueDate),
	)

	return reminder, nil
}

// Delete は指定IDのリマインダーを削除する。
func (s *Service) Delete(ctx context.Context, session *model.Session, reminderID int64) error {
	return s.repo.DeleteByID(ctx, session, reminderID)
}

// normalizeISODate は入力をYYYY-MM-DD形式の日付として検証・正規化する。
func normalizeISODate(value string) (string, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", err
	}
	return parsed.Format(dateLayout), nil
}
