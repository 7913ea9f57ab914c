// Package config はアプリケーション全体の設定を保持する。
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hitoshi/vida/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Supabase
	SupabaseURL     string
	SupabaseAnonKey string

	// Remote call
	RequestTimeout time.Duration
	OutboundGuard  bool

	// Server
	ServerPort string

	// Rate Limit
	RateLimitGeneral int
	RateLimitAuth    int

	// CORS
	CORSAllowedOrigin string

	// Logging
	LogLevel string

	// Database（migrateサブコマンド専用。serve時は未使用で空のままでよい）
	DatabaseURL string
}

// placeholderFragments はセットアップ手順書の例示値に含まれる断片。
// これらを含む値は実際の認証情報ではないため、未設定と同様に拒否する。
var placeholderFragments = []string{
	"your",
	"example",
	"changeme",
	"<",
}

// Load は環境変数からConfigを読み込む。
// プロジェクトルートに .env がある場合は先に読み込むが、
// godotenvは既存の環境変数を上書きしないため、環境変数が常に優先される。
// 必須値の欠落・例示値のままの場合は MISSING_SECRET エラーを返す。
func Load() (*Config, error) {
	// .env は任意。存在しない場合のエラーは無視する。
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.SupabaseURL = strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	if !isValidSupabaseURL(cfg.SupabaseURL) {
		missing = append(missing, "SUPABASE_URL")
	}

	cfg.SupabaseAnonKey = strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY"))
	if !isValidAnonKey(cfg.SupabaseAnonKey) {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}

	if len(missing) > 0 {
		return nil, model.NewMissingSecretError(missing...)
	}

	// Optional fields with defaults
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	cfg.OutboundGuard = getEnvBool("OUTBOUND_GUARD", true)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 10)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	return cfg, nil
}

// isValidSupabaseURL はサービスエンドポイントURLの妥当性を検証する。
// 空文字列、例示値、http(s)以外のスキームを拒否する。
func isValidSupabaseURL(raw string) bool {
	if raw == "" || isPlaceholder(raw) {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Hostname() != ""
}

// isValidAnonKey は公開APIキーの妥当性を検証する。
// 長期有効なJWT形式キー（eyJ...）のみを受け付ける。
// 新形式の sb_publishable_ / sb_secret_ キーはこのクライアントでは
// 動作しないため、設定ミスとして起動時に拒否する。
func isValidAnonKey(key string) bool {
	if key == "" || isPlaceholder(key) {
		return false
	}
	if strings.HasPrefix(key, "sb_publishable_") || strings.HasPrefix(key, "sb_secret_") {
		return false
	}
	return strings.HasPrefix(key, "eyJ")
}

// isPlaceholder はセットアップ手順書の例示値かどうかを判定する。
func isPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, fragment := range placeholderFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
