// Package handler はHTTP APIのハンドラー群を提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/supabase"
)

// AuthControllerInterface は認証ハンドラーが必要とするセッション操作のインターフェース。
// session.Controllerの部分集合として定義する。
type AuthControllerInterface interface {
	SignUp(ctx context.Context, email, password string) (*supabase.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context)
	Current() (*model.Session, error)
}

// AuthMetrics は認証失敗の計測に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthMetrics interface {
	RecordAuthFailure(code string)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	controller AuthControllerInterface
	metrics    AuthMetrics
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(controller AuthControllerInterface, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		controller: controller,
		metrics:    metrics,
	}
}

// credentialsRequest はサインアップ・ログインリクエストのボディ。
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUpResponse はサインアップ結果のAPIレスポンス。
type signUpResponse struct {
	State  string `json:"state"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
}

// sessionResponse は認証済みセッションのAPIレスポンス。
// トークン自体はサーバー内にのみ保持し、レスポンスには含めない。
type sessionResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Signup は新規アカウント登録を処理する。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.controller.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordFailure(err)
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, signUpResponse{
		State:  string(result.State),
		UserID: result.UserID,
		Email:  result.Email,
	})
}

// Login はメールアドレスとパスワードによるログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, err := h.controller.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordFailure(err)
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Logout は現在のセッションを破棄する。
// 未認証でも冪等に成功する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.controller.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在の認証済みユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.Current()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// decodeCredentials はリクエストボディを解析し、メールアドレスとパスワードの
// 形式を事前検証する。失敗時はエラーレスポンスを書き込みfalseを返す。
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return req, false
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
		return req, false
	}
	if req.Password == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
		return req, false
	}

	return req, true
}

// recordFailure は認証エラーをコード別にメトリクスへ記録する。
func (h *AuthHandler) recordFailure(err error) {
	if h.metrics == nil {
		return
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		h.metrics.RecordAuthFailure(apiErr.Code)
	}
}

// toSessionResponse はmodel.SessionからAPIレスポンスに変換する。
func toSessionResponse(session *model.Session) sessionResponse {
	resp := sessionResponse{
		UserID: session.UserID,
		Email:  session.Email,
	}
	if !session.ExpiresAt.IsZero() {
		resp.ExpiresAt = session.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}
