// Package model はドメインモデルを定義する。
package model

import "time"

// Session は認証済みユーザーのセッションを表す。
// リモートの認証エンドポイントが発行したアクセストークンを保持し、
// プロセス終了またはサインアウトで破棄される。ディスクには永続化しない。
type Session struct {
	UserID       string    // リモート側が発行する不透明なユーザーID
	Email        string    // ログインに使用したメールアドレス
	AccessToken  string    // データアクセスに添付するアクセストークン
	RefreshToken string    // リモート側が発行するリフレッシュトークン（未使用でも保持）
	IssuedAt     time.Time // セッション確立時刻
	ExpiresAt    time.Time // アクセストークンの有効期限
}

// SignUpState はサインアップ直後のアカウント状態を表す。
type SignUpState string

const (
	// SignUpStateActive はメール確認なしで即時有効になった状態。
	SignUpStateActive SignUpState = "active"
	// SignUpStatePending はメール確認待ちの状態。
	// この状態でのログインは EMAIL_NOT_CONFIRMED で失敗する。
	SignUpStatePending SignUpState = "pending_confirmation"
)
