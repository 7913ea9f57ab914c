// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// supabase.MetricsRecorderとして遠隔API呼び出しの計測にも使われる。
type Collector struct {
	remoteRequests *prometheus.CounterVec
	remoteLatency  *prometheus.HistogramVec
	authFailures   *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vida_remote_requests_total",
			Help: "Supabaseへのリクエスト数（エンドポイント・ステータス別）",
		}, []string{"endpoint", "status_code"}),
		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vida_remote_latency_seconds",
			Help:    "Supabaseリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vida_auth_failures_total",
			Help: "認証失敗の合計数（エラーコード別）",
		}, []string{"code"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vida_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.remoteRequests,
		c.remoteLatency,
		c.authFailures,
		c.httpStatus,
	)

	return c
}

// RecordRemoteRequest はSupabaseへのリクエスト結果を記録する。
func (c *Collector) RecordRemoteRequest(endpoint string, statusCode int) {
	c.remoteRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// RecordRemoteLatency はSupabaseリクエストのレイテンシを記録する。
func (c *Collector) RecordRemoteLatency(endpoint string, duration time.Duration) {
	c.remoteLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordAuthFailure は認証失敗をエラーコード別に記録する。
func (c *Collector) RecordAuthFailure(code string) {
	c.authFailures.WithLabelValues(code).Inc()
}

// RecordHTTPStatus は自サーバーのレスポンスステータスを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
