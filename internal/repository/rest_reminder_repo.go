package repository

import (
	"context"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/supabase"
)

// reminderColumns は取得対象のカラム。
const reminderColumns = "id,title,due_date"

// RestReminderRepo はリモートのデータエンドポイントを使用したリマインダーリポジトリ。
type RestReminderRepo struct {
	client *supabase.Client
}

// NewRestReminderRepo はRestReminderRepoを生成する。
func NewRestReminderRepo(client *supabase.Client) *RestReminderRepo {
	return &RestReminderRepo{client: client}
}

// List はセッションのユーザーに見えるリマインダー一覧を期日昇順・ID昇順で返す。
func (r *RestReminderRepo) List(ctx context.Context, session *model.Session) ([]model.Reminder, error) {
	if session == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	reminders := []model.Reminder{}
	err := r.client.From("reminders").
		Columns(reminderColumns).
		Order("due_date", false).
		Order("id", false).
		Select(ctx, session.AccessToken, &reminders)
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// Create はリマインダーを作成し、作成された行を返す。
func (r *RestReminderRepo) Create(ctx context.Context, session *model.Session, title, dueDate string) (*model.Reminder, error) {
	if session == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	var rows []model.Reminder
	err := r.client.From("reminders").Insert(ctx, session.AccessToken, map[string]any{
		"title":    title,
		"due_date": dueDate,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.NewTransientError("挿入された行が返されませんでした")
	}

	return &rows[0], nil
}

// DeleteByID は指定IDのリマインダーを削除する。
func (r *RestReminderRepo) DeleteByID(ctx context.Context, session *model.Session, reminderID int64) error {
	if session == nil {
		return model.NewNotAuthenticatedError()
	}

	return r.client.From("reminders").
		Eq("id", reminderID).
		Delete(ctx, session.AccessToken)
}
