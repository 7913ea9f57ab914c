package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/vida/internal/middleware"
	"github.com/hitoshi/vida/internal/model"
)

// HabitServiceInterface は習慣ハンドラーが必要とするサービスインターフェース。
type HabitServiceInterface interface {
	List(ctx context.Context, session *model.Session) ([]model.Habit, error)
	Add(ctx context.Context, session *model.Session, name string) (*model.Habit, error)
	Complete(ctx context.Context, session *model.Session, habitID int64) (bool, error)
	Delete(ctx context.Context, session *model.Session, habitID int64) error
}

// HabitHandler は習慣管理のHTTPハンドラー。
type HabitHandler struct {
	service HabitServiceInterface
}

// NewHabitHandler はHabitHandlerを生成する。
func NewHabitHandler(service HabitServiceInterface) *HabitHandler {
	return &HabitHandler{service: service}
}

// addHabitRequest は習慣追加リクエストのボディ。
type addHabitRequest struct {
	Name string `json:"name"`
}

// completeHabitResponse は習慣完了のAPIレスポンス。
// すでに当日完了済みの場合はcompletedがfalseになる。
type completeHabitResponse struct {
	Completed bool `json:"completed"`
}

// ListHabits は習慣一覧を返す。
// GET /api/habits
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	habits, err := h.service.List(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}

	writeJSON(w, http.StatusOK, habits)
}

// AddHabit は習慣を追加する。
// POST /api/habits
func (h *HabitHandler) AddHabit(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req addHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	habit, err := h.service.Add(r.Context(), session, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

// CompleteHabit は習慣の当日完了を記録する。
// POST /api/habits/{id}/complete
func (h *HabitHandler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	habitID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	completed, err := h.service.Complete(r.Context(), session, habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeHabitResponse{Completed: completed})
}

// DeleteHabit は習慣を削除する。
// DELETE /api/habits/{id}
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	habitID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), session, habitID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// parseIDParam はURLパスの{id}を数値IDとして解析する。
// 失敗時は404レスポンスを書き込みfalseを返す。
func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNotFoundError("リソース"))
		return 0, false
	}
	return id, true
}

// invalidRequestError はリクエストボディ解析失敗のエラーを返す。
func invalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, middleware.StatusForAPIError(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}
