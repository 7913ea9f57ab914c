// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストの無害化インターフェース。
// 習慣名・リマインダータイトルの保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力からすべてのマークアップを除去したプレーンテキストを返す。
	// 共有テーブルに保存される値は他の画面にそのまま表示されるため、
	// タグ・イベント属性の混入を許さない。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayの厳格ポリシーを保持し、スレッドセーフに処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 習慣名やタイトルは装飾なしのプレーンテキストとして扱うため、
// 許可タグのない厳格ポリシーを使用する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのマークアップを除去したプレーンテキストを返す。
// bluemondayはタグ除去後にエンティティをエスケープして返すため、
// プレーンテキストとして保存できるように参照を戻してから空白を整える。
func (s *textSanitizer) Sanitize(input string) string {
	stripped := s.policy.Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
