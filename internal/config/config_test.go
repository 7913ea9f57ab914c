package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hitoshi/vida/internal/model"
)

// testAnonKey はJWT形式の形をしたテスト用キー。
const testAnonKey = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.test-payload.test-signature"

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", testAnonKey)
}

func assertMissingSecret(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("エラーを期待したが nil が返った")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIError を期待したが %T が返った: %v", err, err)
	}
	if apiErr.Code != model.ErrCodeMissingSecret {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMissingSecret)
	}
	if apiErr.Category != "config" {
		t.Errorf("Category = %q, want %q", apiErr.Category, "config")
	}
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.SupabaseURL != "https://abcdefgh.supabase.co" {
		t.Errorf("SupabaseURL = %q, want %q", cfg.SupabaseURL, "https://abcdefgh.supabase.co")
	}
	if cfg.SupabaseAnonKey != testAnonKey {
		t.Errorf("SupabaseAnonKey = %q, want %q", cfg.SupabaseAnonKey, testAnonKey)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 10*time.Second)
	}
	if !cfg.OutboundGuard {
		t.Error("OutboundGuard = false, want true")
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.RateLimitGeneral != 120 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 120)
	}
	if cfg.RateLimitAuth != 10 {
		t.Errorf("RateLimitAuth = %d, want %d", cfg.RateLimitAuth, 10)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoad_OptionalValuesOverridden(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("OUTBOUND_GUARD", "false")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_GENERAL", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 30*time.Second)
	}
	if cfg.OutboundGuard {
		t.Error("OutboundGuard = true, want false")
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if cfg.RateLimitGeneral != 60 {
		t.Errorf("RateLimitGeneral = %d, want %d", cfg.RateLimitGeneral, 60)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_MissingURL_ReturnsMissingSecret(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", testAnonKey)

	_, err := Load()
	assertMissingSecret(t, err)
}

func TestLoad_MissingAnonKey_ReturnsMissingSecret(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := Load()
	assertMissingSecret(t, err)
}

func TestLoad_PlaceholderValues_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		anonKey string
	}{
		{"例示URL", "https://YOUR-PROJECT.supabase.co", testAnonKey},
		{"例示キー", "https://abcdefgh.supabase.co", "your-anon-key"},
		{"山括弧プレースホルダ", "https://<project>.supabase.co", testAnonKey},
		{"changeme", "https://abcdefgh.supabase.co", "changeme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", tt.url)
			t.Setenv("SUPABASE_ANON_KEY", tt.anonKey)

			_, err := Load()
			assertMissingSecret(t, err)
		})
	}
}

func TestLoad_NonJWTKeyFormats_Rejected(t *testing.T) {
	// 新形式キーはこのクライアントでは使えないため起動時に拒否する
	tests := []string{
		"sb_publishable_AbCdEfGh123456",
		"sb_secret_AbCdEfGh123456",
		"not-a-jwt-at-all",
	}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
			t.Setenv("SUPABASE_ANON_KEY", key)

			_, err := Load()
			assertMissingSecret(t, err)
		})
	}
}

func TestLoad_InvalidURLScheme_Rejected(t *testing.T) {
	t.Setenv("SUPABASE_URL", "ftp://abcdefgh.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", testAnonKey)

	_, err := Load()
	assertMissingSecret(t, err)
}

func TestLoad_BothMissing_ReportsBothNames(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := Load()
	assertMissingSecret(t, err)
}

// TestLoad_EnvTakesPrecedenceOverDotenv は環境変数が .env の値より優先されることを検証する。
// godotenvは既存の環境変数を上書きしないため、両方に同じキーがある場合は
// 環境変数側が有効になり、.env のみにあるキーはファイルから読み込まれる。
func TestLoad_EnvTakesPrecedenceOverDotenv(t *testing.T) {
	dir := t.TempDir()
	dotenv := "SUPABASE_URL=https://fromfile.supabase.co\n" +
		"SUPABASE_ANON_KEY=" + testAnonKey + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf(".env の書き込みに失敗: %v", err)
	}
	// t.Chdir は Go 1.24 以降のため、同等の処理を os.Chdir で行う。
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("作業ディレクトリの取得に失敗: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("作業ディレクトリの変更に失敗: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })

	// SUPABASE_URL は環境変数と .env で競合させ、SUPABASE_ANON_KEY は .env のみに置く。
	// t.Setenv で復元を登録したうえで Unsetenv により未設定状態を作る。
	t.Setenv("SUPABASE_URL", "https://fromenv.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "")
	os.Unsetenv("SUPABASE_ANON_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load がエラーを返した: %v", err)
	}

	if cfg.SupabaseURL != "https://fromenv.supabase.co" {
		t.Errorf("SupabaseURL = %q, want 環境変数側の値", cfg.SupabaseURL)
	}
	if cfg.SupabaseAnonKey != testAnonKey {
		t.Errorf("SupabaseAnonKey = %q, want .env 側の値", cfg.SupabaseAnonKey)
	}
}
