// Package repository は共有テーブルへの行スコープ付きデータアクセスを定義する。
// すべての操作は現在セッションを明示的に受け取り、そのアクセストークンを
// リモート呼び出しに添付する。所有者による行の絞り込みはクライアントでは
// 行わず、リモートの行レベルポリシーに完全に委譲する。
package repository

import (
	"context"

	"github.com/hitoshi/vida/internal/model"
)

// HabitRepository は習慣データへの行スコープ付きアクセスインターフェース。
type HabitRepository interface {
	// List はセッションのユーザーに見える習慣一覧をID降順で返す。
	List(ctx context.Context, session *model.Session) ([]model.Habit, error)

	// FindByID は指定IDの習慣を取得する。
	// セッションのユーザーに見えない行は存在しないものとしてnilを返す。
	FindByID(ctx context.Context, session *model.Session, habitID int64) (*model.Habit, error)

	// Create は習慣を作成し、作成された行を返す。
	Create(ctx context.Context, session *model.Session, name string) (*model.Habit, error)

	// UpdateProgress は達成記録のフィールドを更新する。
	UpdateProgress(ctx context.Context, session *model.Session, habitID int64, streak, totalDone int, lastDoneDate string) error

	// DeleteByID は指定IDの習慣を削除する。
	DeleteByID(ctx context.Context, session *model.Session, habitID int64) error
}

// ReminderRepository はリマインダーデータへの行スコープ付きアクセスインターフェース。
type ReminderRepository interface {
	// List はセッションのユーザーに見えるリマインダー一覧を期日昇順で返す。
	List(ctx context.Context, session *model.Session) ([]model.Reminder, error)

	// Create はリマインダーを作成し、作成された行を返す。
	Create(ctx context.Context, session *model.Session, title, dueDate string) (*model.Reminder, error)

	// DeleteByID は指定IDのリマインダーを削除する。
	DeleteByID(ctx context.Context, session *model.Session, reminderID int64) error
}
