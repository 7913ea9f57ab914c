package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hitoshi/vida/internal/model"
)

// fakeReminderRepo はテスト用のインメモリ実装。
type fakeReminderRepo struct {
	reminders []model.Reminder
	nextID    int64
	listErr   error
}

func (f *fakeReminderRepo) List(_ context.Context, _ *model.Session) ([]model.Reminder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reminders, nil
}

func (f *fakeReminderRepo) Create(_ context.Context, _ *model.Session, title, dueDate string) (*model.Reminder, error) {
	f.nextID++
	r := model.Reminder{ID: f.nextID, Title: title, DueDate: dueDate}
	f.reminders = append(f.reminders, r)
	return &r, nil
}

func (f *fakeReminderRepo) DeleteByID(_ context.Context, _ *model.Session, reminderID int64) error {
	for i, r := range f.reminders {
		if r.ID == reminderID {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return nil
		}
	}
	return model.NewNotFoundError("リマインダー")
}

// fakeSanitizer はタグ除去の代わりに前後の空白だけを落とす。
type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(input)
}

func newTestService(repo *fakeReminderRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, fakeSanitizer{}, logger)
}

func testSession() *model.Session {
	return &model.Session{UserID: "user-1", AccessToken: "token"}
}

func TestAdd_StoresNormalizedReminder(t *testing.T) {
	repo := &fakeReminderRepo{}
	svc := newTestService(repo)

	got, err := svc.Add(context.Background(), testSession(), "  歯医者の予約  ", "2026-09-15")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got.Title != "歯医者の予約" {
		t.Errorf("タイトルが正規化されていない: %q", got.Title)
	}
	if got.DueDate != "2026-09-15" {
		t.Errorf("期日が不正: %q", got.DueDate)
	}
}

func TestAdd_EmptyTitle_Rejected(t *testing.T) {
	repo := &fakeReminderRepo{}
	svc := newTestService(repo)

	_, err := svc.Add(context.Background(), testSession(), "   ", "2026-09-15")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorが返るべき: %v", err)
	}
	if apiErr.Code != model.ErrCodeEmptyReminderTitle {
		t.Errorf("コードが不正: %s", apiErr.Code)
	}
	if len(repo.reminders) != 0 {
		t.Error("拒否されたリマインダーが保存されている")
	}
}

func TestAdd_InvalidDate_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		dueDate string
	}{
		{"空文字", ""},
		{"スラッシュ区切り", "2026/09/15"},
		{"存在しない日付", "2026-02-30"},
		{"日付以外", "tomorrow"},
		{"逆順", "15-09-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReminderRepo{}
			svc := newTestService(repo)

			_, err := svc.Add(context.Background(), testSession(), "買い物", tt.dueDate)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("APIErrorが返るべき: %v", err)
			}
			if apiErr.Code != model.ErrCodeInvalidDate {
				t.Errorf("コードが不正: %s", apiErr.Code)
			}
		})
	}
}

func TestList_ReturnsReminders(t *testing.T) {
	repo := &fakeReminderRepo{reminders: []model.Reminder{
		{ID: 1, Title: "家賃の支払い", DueDate: "2026-09-01"},
		{ID: 2, Title: "車検", DueDate: "2026-10-20"},
	}}
	svc := newTestService(repo)

	got, err := svc.List(context.Background(), testSession())
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("件数が不正: %d", len(got))
	}
}

func TestDelete_RemovesReminder(t *testing.T) {
	repo := &fakeReminderRepo{reminders: []model.Reminder{{ID: 7, Title: "ゴミ出し", DueDate: "2026-09-02"}}, nextID: 7}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), testSession(), 7); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(repo.reminders) != 0 {
		t.Error("リマインダーが削除されていない")
	}
}
