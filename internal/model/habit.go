// Package model はドメインモデルを定義する。
package model

// Habit は日々の習慣を表す。
// 所有ユーザーの紐付けはリモートの行レベルポリシーが行うため、
// クライアント側のモデルには所有者IDを持たせない。
type Habit struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Streak       int    `json:"streak"`
	TotalDone    int    `json:"total_done"`
	LastDoneDate string `json:"last_done_date"` // YYYY-MM-DD。未達成の場合は空文字列
}

// Reminder は期日付きのリマインダーを表す。
type Reminder struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"` // YYYY-MM-DD
}

// Stats は習慣とリマインダーの集計値を表す。
type Stats struct {
	TotalHabits    int `json:"total_habits"`
	TotalDone      int `json:"total_done"`
	BestStreak     int `json:"best_streak"`
	TotalReminders int `json:"total_reminders"`
}
