// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: config, auth, data, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	// 設定エラー
	ErrCodeMissingSecret = "MISSING_SECRET"

	// 認証エラー
	ErrCodeWeakCredential     = "WEAK_CREDENTIAL"
	ErrCodeAlreadyRegistered  = "ALREADY_REGISTERED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailNotConfirmed  = "EMAIL_NOT_CONFIRMED"
	ErrCodeNotAuthenticated   = "NOT_AUTHENTICATED"

	// データアクセスエラー
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTransient    = "TRANSIENT"

	// レート制限エラー
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"

	// バリデーションエラー
	ErrCodeEmptyHabitName     = "EMPTY_HABIT_NAME"
	ErrCodeEmptyReminderTitle = "EMPTY_REMINDER_TITLE"
	ErrCodeInvalidDate        = "INVALID_DATE"
)

// NewMissingSecretError は必須シークレット未設定エラーを生成する。
// 起動時の致命的エラーであり、リモート呼び出しを一切行わずに伝播させること。
func NewMissingSecretError(names ...string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingSecret,
		Message:  fmt.Sprintf("必須の設定値が不足しています: %v", names),
		Category: "config",
		Action:   "SUPABASE_URL と SUPABASE_ANON_KEY を環境変数または .env に設定してください。",
	}
}

// NewWeakCredentialError はパスワード強度不足エラーを生成する。
func NewWeakCredentialError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeWeakCredential,
		Message:  fmt.Sprintf("パスワードが要件を満たしていません: %s", reason),
		Category: "auth",
		Action:   "より長く複雑なパスワードを設定してください。",
	}
}

// NewAlreadyRegisteredError は登録済みメールアドレスエラーを生成する。
func NewAlreadyRegisteredError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyRegistered,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "auth",
		Action:   "ログインするか、別のメールアドレスで登録してください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認してから再度お試しください。",
	}
}

// NewEmailNotConfirmedError はメール未確認エラーを生成する。
// 認証情報が正しくてもメール確認が完了していない場合に返す。
// INVALID_CREDENTIALS とは区別すること。
func NewEmailNotConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotConfirmed,
		Message:  "メールアドレスの確認が完了していません。",
		Category: "auth",
		Action:   "受信した確認メールのリンクを開いてから再度ログインしてください。",
	}
}

// NewNotAuthenticatedError は未認証エラーを生成する。
// セッションが存在しない状態でのデータアクセスはこのエラーで拒否する。
func NewNotAuthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeNotAuthenticated,
		Message:  "ログインしていません。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	}
}

// NewUnauthorizedError はリモートポリシーによる拒否エラーを生成する。
// トークンと行の組み合わせをリモートの行レベルポリシーが拒否した場合に返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "この操作は許可されていません。",
		Category: "data",
		Action:   "ログインし直してから再度お試しください。",
	}
}

// NewNotFoundError は対象リソース未検出エラーを生成する。
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("対象が見つかりません: %s", resource),
		Category: "data",
		Action:   "一覧を再読み込みしてから再度お試しください。",
	}
}

// NewTransientError はネットワーク障害・サーバーエラーを生成する。
// リトライは行わない方針のため、呼び出し側はこのエラーを終了条件として扱う。
func NewTransientError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeTransient,
		Message:  fmt.Sprintf("通信に失敗しました: %s", reason),
		Category: "data",
		Action:   "ネットワーク接続を確認し、しばらく待ってから再度お試しください。",
	}
}

// NewRateLimitedError はレート制限超過エラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。しばらく待ってから再度お試しください。",
		Category: "system",
		Action:   "指定された時間を待ってから再度お試しください。",
	}
}

// NewEmptyHabitNameError は習慣名が空の場合のエラーを生成する。
func NewEmptyHabitNameError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyHabitName,
		Message:  "習慣の名前が空です。",
		Category: "validation",
		Action:   "習慣の名前を入力してください。",
	}
}

// NewEmptyReminderTitleError はリマインダーのタイトルが空の場合のエラーを生成する。
func NewEmptyReminderTitleError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyReminderTitle,
		Message:  "リマインダーのタイトルが空です。",
		Category: "validation",
		Action:   "リマインダーのタイトルを入力してください。",
	}
}

// NewInvalidDateError は日付形式が不正な場合のエラーを生成する。
func NewInvalidDateError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付の形式が正しくありません: %s", value),
		Category: "validation",
		Action:   "日付は YYYY-MM-DD 形式で入力してください。",
	}
}
