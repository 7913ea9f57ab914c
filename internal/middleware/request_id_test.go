package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRequestIDMiddleware_GeneratesID はリクエストIDが採番され、
// コンテキストとレスポンスヘッダーの両方に設定されることを検証する。
func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var ctxID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if ctxID == "" {
		t.Error("コンテキストにリクエストIDが設定されていない")
	}
	if headerID := w.Header().Get("X-Request-ID"); headerID != ctxID {
		t.Errorf("ヘッダーのID %q がコンテキストのID %q と一致しない", headerID, ctxID)
	}
}

// TestRequestIDMiddleware_PreservesIncomingID は受信したX-Request-IDを
// 採番し直さずそのまま使うことを検証する。
func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var ctxID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "incoming-id-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if ctxID != "incoming-id-123" {
		t.Errorf("request_id = %q, want incoming-id-123", ctxID)
	}
}

// TestRequestIDMiddleware_UniquePerRequest はリクエストごとに異なるIDが
// 採番されることを検証する。
func TestRequestIDMiddleware_UniquePerRequest(t *testing.T) {
	mw := NewRequestIDMiddleware()

	ids := make(map[string]bool)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[RequestIDFromContext(r.Context())] = true
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(ids) != 10 {
		t.Errorf("一意なIDの数 = %d, want 10", len(ids))
	}
}
