package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/vida/internal/model"
)

type habitRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestQuery_Select_BuildsPostgRESTQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/rest/v1/habits" {
			t.Errorf("path = %s, want /rest/v1/habits", r.URL.Path)
		}

		q := r.URL.Query()
		if got := q.Get("select"); got != "id,name" {
			t.Errorf("select = %q, want %q", got, "id,name")
		}
		if got := q.Get("id"); got != "eq.7" {
			t.Errorf("idフィルタ = %q, want %q", got, "eq.7")
		}
		if got := q.Get("order"); got != "id.desc" {
			t.Errorf("order = %q, want %q", got, "id.desc")
		}
		if got := q.Get("limit"); got != "1" {
			t.Errorf("limit = %q, want %q", got, "1")
		}

		if got := r.Header.Get("Authorization"); got != "Bearer token-abc" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer token-abc")
		}

		json.NewEncoder(w).Encode([]habitRow{{ID: 7, Name: "leer"}})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	var rows []habitRow
	err := c.From("habits").
		Columns("id,name").
		Eq("id", 7).
		Order("id", true).
		Limit(1).
		Select(context.Background(), "token-abc", &rows)
	if err != nil {
		t.Fatalf("Select がエラーを返した: %v", err)
	}

	if len(rows) != 1 || rows[0].ID != 7 || rows[0].Name != "leer" {
		t.Errorf("rows = %+v, want [{7 leer}]", rows)
	}
}

func TestQuery_Insert_SendsPayloadAndPreferHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer = %q, want return=representation", got)
		}

		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["name"] != "entrenar" {
			t.Errorf("name = %v, want entrenar", payload["name"])
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]habitRow{{ID: 1, Name: "entrenar"}})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	var rows []habitRow
	err := c.From("habits").Insert(context.Background(), "token-abc", map[string]any{"name": "entrenar"}, &rows)
	if err != nil {
		t.Fatalf("Insert がエラーを返した: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("rows = %+v, want 挿入された1行", rows)
	}
}

func TestQuery_Update_RequiresFilter(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")

	err := c.From("habits").Update(context.Background(), "token-abc", map[string]any{"streak": 2})
	assertAPIErrorCode(t, err, model.ErrCodeNotFound)
}

func TestQuery_Update_SendsPatchWithFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.7" {
			t.Errorf("idフィルタ = %q, want eq.7", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	err := c.From("habits").Eq("id", 7).Update(context.Background(), "token-abc", map[string]any{"streak": 2})
	if err != nil {
		t.Fatalf("Update がエラーを返した: %v", err)
	}
}

func TestQuery_Delete_RequiresFilter(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")

	err := c.From("habits").Delete(context.Background(), "token-abc")
	assertAPIErrorCode(t, err, model.ErrCodeNotFound)
}

func TestQuery_Delete_SendsDeleteWithFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.3" {
			t.Errorf("idフィルタ = %q, want eq.3", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	err := c.From("reminders").Eq("id", 3).Delete(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("Delete がエラーを返した: %v", err)
	}
}

func TestMapDataError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantCode   string
	}{
		{"401はUNAUTHORIZED", http.StatusUnauthorized, `{}`, model.ErrCodeUnauthorized},
		{"403はUNAUTHORIZED", http.StatusForbidden, `{"message":"permission denied"}`, model.ErrCodeUnauthorized},
		{"404はNOT_FOUND", http.StatusNotFound, `{}`, model.ErrCodeNotFound},
		{"406はNOT_FOUND", http.StatusNotAcceptable, `{}`, model.ErrCodeNotFound},
		{"PGRST116はNOT_FOUND", http.StatusBadRequest, `{"code":"PGRST116","message":"no rows"}`, model.ErrCodeNotFound},
		{"500はTRANSIENT", http.StatusInternalServerError, `{}`, model.ErrCodeTransient},
		{"503はTRANSIENT", http.StatusServiceUnavailable, `{}`, model.ErrCodeTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapDataError(tt.statusCode, []byte(tt.body), "habits")
			assertAPIErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestQuery_Select_UnauthorizedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"message": "JWT expired"})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	var rows []habitRow
	err := c.From("habits").Select(context.Background(), "expired", &rows)
	assertAPIErrorCode(t, err, model.ErrCodeUnauthorized)
}
