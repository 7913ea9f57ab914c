// Package session は現在の認証済みアイデンティティを管理する。
// プロセス内で同時に有効なセッションは最大1つであり、
// 現在セッションのスロットはミューテックスで直列化される。
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/vida/internal/model"
	"github.com/hitoshi/vida/internal/supabase"
)

// AuthAPI はセッションコントローラーが必要とするリモート認証操作。
// supabase.Clientの部分集合として定義する。
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (*supabase.SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Controller は現在セッションのスロットを保持するセッションコントローラー。
// セッションはメモリ上にのみ存在し、サインアウトまたはプロセス終了で破棄される。
type Controller struct {
	auth   AuthAPI
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	current *model.Session
}

// NewController はControllerを生成する。
func NewController(auth AuthAPI, logger *slog.Logger) *Controller {
	return &Controller{
		auth:   auth,
		logger: logger,
		now:    time.Now,
	}
}

// SignUp は新規アカウントを登録する。
// 即時有効（メール確認なし）の場合でもセッションは確立しない。
// 登録後のログインは呼び出し側が明示的に行う。
func (c *Controller) SignUp(ctx context.Context, email, password string) (*supabase.SignUpResult, error) {
	result, err := c.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SignIn はログインし、成功したセッションを現在セッションとして保持する。
func (c *Controller) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	session, err := c.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()

	c.logger.Info("session established",
		slog.String("user_id", session.UserID),
	)

	sessionCopy := *session
	return &sessionCopy, nil
}

// SignOut は現在セッションを無条件に破棄する。冪等。
// リモート側の失効はベストエフォートであり、失敗してもローカルの破棄は行う。
// このメソッドから戻った時点で、以後のデータアクセスは NOT_AUTHENTICATED になる。
func (c *Controller) SignOut(ctx context.Context) {
	c.mu.Lock()
	current := c.current
	c.current = nil
	c.mu.Unlock()

	if current == nil {
		return
	}

	if err := c.auth.SignOut(ctx, current.AccessToken); err != nil {
		c.logger.Warn("remote sign out failed",
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("session cleared",
		slog.String("user_id", current.UserID),
	)
}

// Current は現在セッションのコピーを返す。
// セッションが存在しない場合、または有効期限切れの場合は
// NOT_AUTHENTICATED エラーを返す。期限切れのセッションはスロットから破棄する。
func (c *Controller) Current() (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, model.NewNotAuthenticatedError()
	}

	if !c.current.ExpiresAt.IsZero() && !c.now().Before(c.current.ExpiresAt) {
		c.logger.Info("session expired",
			slog.String("user_id", c.current.UserID),
		)
		c.current = nil
		return nil, model.NewNotAuthenticatedError()
	}

	sessionCopy := *c.current
	return &sessionCopy, nil
}
