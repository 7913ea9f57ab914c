package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/vida/internal/middleware"
	"github.com/hitoshi/vida/internal/model"
)

// StatsServiceInterface は統計ハンドラーが必要とするサービスインターフェース。
type StatsServiceInterface interface {
	Summary(ctx context.Context, session *model.Session) (*model.Stats, error)
}

// StatsHandler は統計のHTTPハンドラー。
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetStats は習慣とリマインダーの集計統計を返す。
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	stats, err := h.service.Summary(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
