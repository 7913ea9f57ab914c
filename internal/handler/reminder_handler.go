package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/vida/internal/middleware"
	"github.com/hitoshi/vida/internal/model"
)

// ReminderServiceInterface はリマインダーハンドラーが必要とするサービスインターフェース。
type ReminderServiceInterface interface {
	List(ctx context.Context, session *model.Session) ([]model.Reminder, error)
	Add(ctx context.Context, session *model.Session, title, dueDate string) (*model.Reminder, error)
	Delete(ctx context.Context, session *model.Session, reminderID int64) error
}

// ReminderHandler はリマインダー管理のHTTPハンドラー。
type ReminderHandler struct {
	service ReminderServiceInterface
}

// NewReminderHandler はReminderHandlerを生成する。
func NewReminderHandler(service ReminderServiceInterface) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// addReminderRequest はリマインダー追加リクエストのボディ。
type addReminderRequest struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

// ListReminders はリマインダー一覧を期日昇順で返す。
// GET /api/reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	reminders, err := h.service.List(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}

	writeJSON(w, http.StatusOK, reminders)
}

// AddReminder はリマインダーを追加する。
// POST /api/reminders
func (h *ReminderHandler) AddReminder(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req addReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	reminder, err := h.service.Add(r.Context(), session, req.Title, req.DueDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

// DeleteReminder はリマインダーを削除する。
// DELETE /api/reminders/{id}
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	reminderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), session, reminderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
