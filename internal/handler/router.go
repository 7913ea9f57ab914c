package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/vida/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionSource     middleware.SessionSource
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string
	Logger            *slog.Logger
	StatusMetrics     middleware.StatusMetrics

	// 認証
	AuthController AuthControllerInterface
	AuthMetrics    AuthMetrics

	// ドメインサービス
	HabitService    HabitServiceInterface
	ReminderService ReminderServiceInterface
	StatsService    StatsServiceInterface

	// /metrics エンドポイント（nilの場合は公開しない）
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → RequestID → Logging → SecurityHeaders → CORS
//	→（認証ルート）RateLimit(Auth)
//	→（APIルート）Session → RateLimit(General)
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusMetrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthController, deps.AuthMetrics)
	habitHandler := NewHabitHandler(deps.HabitService)
	reminderHandler := NewReminderHandler(deps.ReminderService)
	statsHandler := NewStatsHandler(deps.StatsService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 認証ルート（サインアップ・ログインはIP単位のレート制限を適用）
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/signup", authHandler.Signup)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionSource, deps.Logger))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 習慣管理
		r.Route("/api/habits", func(r chi.Router) {
			r.Get("/", habitHandler.ListHabits)
			r.Post("/", habitHandler.AddHabit)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/complete", habitHandler.CompleteHabit)
				r.Delete("/", habitHandler.DeleteHabit)
			})
		})

		// リマインダー管理
		r.Route("/api/reminders", func(r chi.Router) {
			r.Get("/", reminderHandler.ListReminders)
			r.Post("/", reminderHandler.AddReminder)
			r.Delete("/{id}", reminderHandler.DeleteReminder)
		})

		// 統計
		r.Get("/api/stats", statsHandler.GetStats)
	})

	return r
}
