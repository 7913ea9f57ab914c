// Package supabase はホスト型バックエンドへのリモートクライアントを提供する。
// 認証エンドポイント（/auth/v1）と行スコープ付きデータエンドポイント（/rest/v1）を
// 1つのハンドルにまとめる。行の可視性・更新可否の判定はすべてリモートの
// 行レベルセキュリティポリシーに委譲し、クライアント側では行わない。
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/vida/internal/model"
)

// MetricsRecorder はリモート呼び出しのメトリクス記録インターフェース。
// 計測が不要な場合はnilを渡してよい。
type MetricsRecorder interface {
	RecordRemoteRequest(endpoint string, statusCode int)
	RecordRemoteLatency(endpoint string, duration time.Duration)
}

// Client はサービスエンドポイントと公開APIキーに束縛された再利用可能なハンドル。
// 生成時にはネットワークI/Oを行わず、最初のリクエストまで失敗は遅延する。
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// New はClientを生成する。
// httpClientには設定由来のタイムアウトを持つクライアントを渡すこと。
// 到達性の検証は行わない（最初のリクエストで遅延的に失敗する）。
func New(baseURL, anonKey string, httpClient *http.Client, logger *slog.Logger, metrics MetricsRecorder) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// response はリモート呼び出しの生の結果。
type response struct {
	statusCode int
	body       []byte
}

// do はリモートエンドポイントへのリクエストを1回実行する。
// apikeyヘッダーは常に付与し、tokenが非空の場合はAuthorizationヘッダーも付与する。
// トランスポート層の失敗は TRANSIENT エラーに変換する。リトライは行わない。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, payload any, extraHeaders map[string]string) (*response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	endpoint := endpointLabel(path)
	if c.metrics != nil {
		c.metrics.RecordRemoteLatency(endpoint, duration)
	}

	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordRemoteRequest(endpoint, 0)
		}
		c.logger.Warn("remote request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, model.NewTransientError(err.Error())
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordRemoteRequest(endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewTransientError(err.Error())
	}

	c.logger.Debug("remote request completed",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return &response{statusCode: resp.StatusCode, body: body}, nil
}

// endpointLabel はメトリクスラベル用にパスを正規化する。
// テーブル名やIDを含むパスは先頭2セグメントに丸める。
func endpointLabel(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(segments) > 3 {
		segments = segments[:3]
	}
	return "/" + strings.Join(segments, "/")
}
