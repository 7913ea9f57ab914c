package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/vida/internal/model"
)

// Query は共有テーブルに対する行スコープ付きクエリのビルダー。
// フィルタは行の指定（主キー等）のためのものであり、所有者による絞り込みは
// 行わない。どの行が見えるか・書けるかはアクセストークンを受け取った
// リモートのポリシー層だけが決定する。
type Query struct {
	client  *Client
	table   string
	columns string
	filters []filter
	orders  []string
	limit   int
}

// filter は1つのカラム条件を表す。
type filter struct {
	column   string
	operator string
	value    string
}

// From は指定テーブルへのクエリビルダーを返す。
func (c *Client) From(table string) *Query {
	return &Query{
		client:  c,
		table:   table,
		columns: "*",
	}
}

// Columns は取得するカラムを指定する。
func (q *Query) Columns(columns string) *Query {
	q.columns = columns
	return q
}

// Eq は等値条件を追加する。
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, filter{
		column:   column,
		operator: "eq",
		value:    fmt.Sprintf("%v", value),
	})
	return q
}

// Order は並び順を追加する。複数回呼び出した場合は指定順に適用される。
func (q *Query) Order(column string, descending bool) *Query {
	direction := "asc"
	if descending {
		direction = "desc"
	}
	q.orders = append(q.orders, column+"."+direction)
	return q
}

// Limit は取得件数の上限を指定する。
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// buildQuery はPostgREST形式のクエリ文字列を構築する。
func (q *Query) buildQuery(includeColumns bool) url.Values {
	values := url.Values{}
	if includeColumns {
		values.Set("select", q.columns)
	}
	for _, f := range q.filters {
		values.Set(f.column, f.operator+"."+f.value)
	}
	if len(q.orders) > 0 {
		values.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		values.Set("limit", strconv.Itoa(q.limit))
	}
	return values
}

// Select は条件に一致する行を取得し、destにJSONデコードする。
// destには行スライスへのポインタを渡すこと。
func (q *Query) Select(ctx context.Context, accessToken string, dest any) error {
	resp, err := q.client.do(ctx, http.MethodGet, "/rest/v1/"+q.table, q.buildQuery(true), accessToken, nil, nil)
	if err != nil {
		return err
	}
	if resp.statusCode >= 400 {
		return mapDataError(resp.statusCode, resp.body, q.table)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return model.NewTransientError("データ応答の解析に失敗しました")
	}
	return nil
}

// Insert は行を挿入する。destが非nilの場合は挿入後の行をデコードする。
func (q *Query) Insert(ctx context.Context, accessToken string, payload any, dest any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	if dest == nil {
		headers["Prefer"] = "return=minimal"
	}

	resp, err := q.client.do(ctx, http.MethodPost, "/rest/v1/"+q.table, nil, accessToken, payload, headers)
	if err != nil {
		return err
	}
	if resp.statusCode >= 400 {
		return mapDataError(resp.statusCode, resp.body, q.table)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return model.NewTransientError("データ応答の解析に失敗しました")
	}
	return nil
}

// Update は条件に一致する行を部分更新する。
// フィルタなしの全行更新は誤操作の可能性が高いため拒否する。
func (q *Query) Update(ctx context.Context, accessToken string, payload any) error {
	if len(q.filters) == 0 {
		return model.NewNotFoundError(q.table)
	}

	resp, err := q.client.do(ctx, http.MethodPatch, "/rest/v1/"+q.table, q.buildQuery(false), accessToken, payload, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return err
	}
	if resp.statusCode >= 400 {
		return mapDataError(resp.statusCode, resp.body, q.table)
	}
	return nil
}

// Delete は条件に一致する行を削除する。
// フィルタなしの全行削除は誤操作の可能性が高いため拒否する。
func (q *Query) Delete(ctx context.Context, accessToken string) error {
	if len(q.filters) == 0 {
		return model.NewNotFoundError(q.table)
	}

	resp, err := q.client.do(ctx, http.MethodDelete, "/rest/v1/"+q.table, q.buildQuery(false), accessToken, nil, nil)
	if err != nil {
		return err
	}
	if resp.statusCode >= 400 {
		return mapDataError(resp.statusCode, resp.body, q.table)
	}
	return nil
}

// postgrestError はデータエンドポイントのエラー応答。
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// mapDataError はデータエンドポイントのエラー応答を統一エラーに変換する。
// 401/403はトークンと行の組み合わせの拒否、404/PGRST116は未検出、
// それ以外（5xx含む）は一時的エラーとして扱う。
func mapDataError(statusCode int, body []byte, table string) error {
	var parsed postgrestError
	_ = json.Unmarshal(body, &parsed)

	if parsed.Code == "PGRST116" {
		return model.NewNotFoundError(table)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return model.NewUnauthorizedError()
	case statusCode == http.StatusNotFound || statusCode == http.StatusNotAcceptable:
		return model.NewNotFoundError(table)
	default:
		reason := parsed.Message
		if reason == "" {
			reason = fmt.Sprintf("status %d", statusCode)
		}
		return model.NewTransientError(reason)
	}
}
