package supabase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/vida/internal/model"
)

// authUser は認証エンドポイントが返すユーザー情報。
type authUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	ConfirmedAt      string `json:"confirmed_at"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
}

// authSession は認証エンドポイントが返すトークン応答。
// サインアップ応答はメール確認の有無によって形が変わるため、
// トークンとユーザーの両方のフィールドを受けられるようにしておく。
type authSession struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         *authUser `json:"user"`

	// メール確認有効時のサインアップ応答はユーザーオブジェクトそのもの
	ID               string `json:"id"`
	Email            string `json:"email"`
	ConfirmedAt      string `json:"confirmed_at"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
}

// authError は認証エンドポイントのエラー応答。
// GoTrueのバージョンによりフィールド名が揺れるため複数を受ける。
type authError struct {
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"` // 数値または文字列
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

// SignUpResult はサインアップの結果を表す。
type SignUpResult struct {
	State  model.SignUpState
	UserID string
	Email  string
}

// SignUp はメールアドレスとパスワードで新規アカウントを登録する。
// バックエンド側でメール確認が有効な場合は確認待ち状態になり、
// 確認完了までログインは EMAIL_NOT_CONFIRMED で失敗する。
func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, "", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}

	if resp.statusCode >= 400 {
		return nil, mapAuthError(resp.statusCode, resp.body, email)
	}

	var body authSession
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, model.NewTransientError("サインアップ応答の解析に失敗しました")
	}

	result := &SignUpResult{}

	switch {
	case body.AccessToken != "" && body.User != nil:
		// メール確認なし: セッション付きで即時有効
		result.State = model.SignUpStateActive
		result.UserID = body.User.ID
		result.Email = body.User.Email
	default:
		// メール確認あり: ユーザーオブジェクトのみ返る
		result.State = model.SignUpStatePending
		result.UserID = body.ID
		result.Email = body.Email
		if body.ConfirmedAt != "" || body.EmailConfirmedAt != "" {
			result.State = model.SignUpStateActive
		}
	}

	c.logger.Info("sign up completed",
		slog.String("state", string(result.State)),
	)

	return result, nil
}

// SignInWithPassword はメールアドレスとパスワードでログインし、セッションを返す。
// メール未確認のアカウントは EMAIL_NOT_CONFIRMED、
// 認証情報の不一致は INVALID_CREDENTIALS で失敗する。
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token", query, "", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return nil, err
	}

	if resp.statusCode >= 400 {
		return nil, mapAuthError(resp.statusCode, resp.body, email)
	}

	var body authSession
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, model.NewTransientError("ログイン応答の解析に失敗しました")
	}

	if body.AccessToken == "" || body.User == nil || body.User.ID == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	now := time.Now()
	session := &model.Session{
		UserID:       body.User.ID,
		Email:        body.User.Email,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		IssuedAt:     now,
		ExpiresAt:    now.Add(time.Duration(body.ExpiresIn) * time.Second),
	}

	c.logger.Info("sign in completed",
		slog.String("user_id", session.UserID),
	)

	return session, nil
}

// SignOut はリモート側のセッションを失効させる。
// ローカルのセッション破棄は呼び出し側（セッションコントローラー）の責務であり、
// このメソッドの失敗によってローカルのサインアウトを妨げてはならない。
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil, nil)
	if err != nil {
		return err
	}

	// 204が正常。401は既に失効済みとみなし成功扱いにする
	if resp.statusCode >= 400 && resp.statusCode != http.StatusUnauthorized {
		return mapAuthError(resp.statusCode, resp.body, "")
	}

	return nil
}

// mapAuthError は認証エンドポイントのエラー応答を統一エラーに変換する。
// error_codeフィールドを優先し、旧形式の応答はメッセージ文字列で判別する。
func mapAuthError(statusCode int, body []byte, email string) error {
	var parsed authError
	_ = json.Unmarshal(body, &parsed)

	code := parsed.ErrorCode
	if code == "" {
		if s, ok := parsed.Code.(string); ok {
			code = s
		}
	}

	message := parsed.Msg
	if message == "" {
		message = parsed.ErrorDescription
	}
	if message == "" {
		message = parsed.Message
	}

	switch code {
	case "email_not_confirmed":
		return model.NewEmailNotConfirmedError()
	case "user_already_exists", "email_exists":
		return model.NewAlreadyRegisteredError(email)
	case "weak_password":
		return model.NewWeakCredentialError(message)
	case "invalid_credentials":
		return model.NewInvalidCredentialsError()
	}

	// 旧GoTrueはerror_codeを返さないためメッセージで判別する
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "email not confirmed"):
		return model.NewEmailNotConfirmedError()
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "already exists"):
		return model.NewAlreadyRegisteredError(email)
	case strings.Contains(lower, "password should be"), strings.Contains(lower, "weak password"):
		return model.NewWeakCredentialError(message)
	}

	switch {
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnauthorized:
		return model.NewInvalidCredentialsError()
	case statusCode == http.StatusUnprocessableEntity:
		return model.NewAlreadyRegisteredError(email)
	case statusCode >= 500:
		return model.NewTransientError(message)
	default:
		return model.NewTransientError(message)
	}
}
