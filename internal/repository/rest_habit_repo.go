package repository

import (
	"context"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/supabase"
)

// habitColumns は取得対象のカラム。
const habitColumns = "id,name,streak,total_done,last_done_date"

// habitRow はデータエンドポイントとの行のやり取りに使う中間形。
// last_done_date はNULL許容のためポインタで受ける。
type habitRow struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Streak       int     `json:"streak"`
	TotalDone    int     `json:"total_done"`
	LastDoneDate *string `json:"last_done_date"`
}

func (r habitRow) toModel() model.Habit {
	habit := model.Habit{
		ID:        r.ID,
		Name:      r.Name,
		Streak:    r.Streak,
		TotalDone: r.TotalDone,
	}
	if r.LastDoneDate != nil {
		habit.LastDoneDate = *r.LastDoneDate
	}
	return habit
}

// RestHabitRepo はリモートのデータエンドポイントを使用した習慣リポジトリ。
// user_idによる絞り込みは行わない。行の可視性はアクセストークンを検証する
// リモートの行レベルポリシーが決定する。
type RestHabitRepo struct {
	client *supabase.Client
}

// NewRestHabitRepo はRestHabitRepoを生成する。
func NewRestHabitRepo(client *supabase.Client) *RestHabitRepo {
	return &RestHabitRepo{client: client}
}

// List はセッションのユーザーに見える習慣一覧をID降順で返す。
func (r *RestHabitRepo) List(ctx context.Context, session *model.Session) ([]model.Habit, error) {
	if session == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	var rows []habitRow
	err := r.client.From("habits").
		Columns(habitColumns).
		Order("id", true).
		Select(ctx, session.AccessToken, &rows)
	if err != nil {
		return nil, err
	}

	habits := make([]model.Habit, 0, len(rows))
	for _, row := range rows {
		habits = append(habits, row.toModel())
	}
	return habits, nil
}

// FindByID は指定IDの習慣を取得する。見えない行はnilを返す。
func (r *RestHabitRepo) FindByID(ctx context.Context, session *model.Session, habitID int64) (*model.Habit, error) {
	if session == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	var rows []habitRow
	err := r.client.From("habits").
		Columns(habitColumns).
		Eq("id", habitID).
		Limit(1).
		Select(ctx, session.AccessToken, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	habit := rows[0].toModel()
	return &habit, nil
}

// Create は習慣を作成し、作成された行を返す。
// 所有者IDはリモート側がトークンから導出して設定する。
func (r *RestHabitRepo) Create(ctx context.Context, session *model.Session, name string) (*model.Habit, error) {
	if session == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	var rows []habitRow
	err := r.client.From("habits").Insert(ctx, session.AccessToken, map[string]any{
		"name": name,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.NewTransientError("挿入された行が返されませんでした")
	}

	habit := rows[0].toModel()
	return &habit, nil
}

// UpdateProgress は達成記録のフィールドを更新する。
func (r *RestHabitRepo) UpdateProgress(ctx context.Context, session *model.Session, habitID int64, streak, totalDone int, lastDoneDate string) error {
	if session == nil {
		return model.NewNotAuthenticatedError()
	}

	return r.client.From("habits").
		Eq("id", habitID).
		Update(ctx, session.AccessToken, map[string]any{
			"streak":         streak,
			"total_done":     totalDone,
			"last_done_date": lastDoneDate,
		})
}

// DeleteByID は指定IDの習慣を削除する。
func (r *RestHabitRepo) DeleteByID(ctx context.Context, session *model.Session, habitID int64) error {
	if session == nil {
		return model.NewNotAuthenticatedError()
	}

	return r.client.From("habits").
		Eq("id", habitID).
		Delete(ctx, session.AccessToken)
}
