// Package metrics 는 Prometheus 메트릭 수집과 공개를 제공한다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 는 메트릭 수집 인터페이스.
// 서비스 계층과 외부 API 클라이언트에서 사용한다.
type MetricsCollector interface {
	RecordSearch()
	RecordFetchFailure()
	RecordFetchLatency(duration time.Duration)
	RecordGenerateFailure(model string)
	RecordGenerateLatency(model string, duration time.Duration)
	RecordHTTPStatus(statusCode int)
}

// Collector 는 Prometheus 메트릭을 수집하는 구현.
type Collector struct {
	searchTotal     prometheus.Counter
	fetchFail       prometheus.Counter
	fetchLatency    prometheus.Histogram
	generateFail    *prometheus.CounterVec
	generateLatency *prometheus.HistogramVec
	httpStatus      *prometheus.CounterVec
}

// NewCollector 는 새 Collector 를 생성하고 지정된 레지스트리에 메트릭을 등록한다.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		searchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newstalk_search_total",
			Help: "뉴스 검색 요청의 합계",
		}),
		fetchFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newstalk_feed_fetch_fail_total",
			Help: "뉴스 피드 페치 실패의 합계",
		}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newstalk_feed_fetch_latency_seconds",
			Help:    "뉴스 피드 페치의 레이턴시(초)",
			Buckets: prometheus.DefBuckets,
		}),
		generateFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newstalk_generate_fail_total",
			Help: "생성형 백엔드 호출 실패의 모델별 합계",
		}, []string{"model"}),
		generateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newstalk_generate_latency_seconds",
			Help:    "생성형 백엔드 호출의 모델별 레이턴시(초)",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "newstalk_http_status_total",
			Help: "HTTP 응답의 상태 코드별 합계",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.searchTotal,
		c.fetchFail,
		c.fetchLatency,
		c.generateFail,
		c.generateLatency,
		c.httpStatus,
	)

	return c
}

// RecordSearch 는 검색 요청 1건을 기록한다.
func (c *Collector) RecordSearch() {
	c.searchTotal.Inc()
}

// RecordFetchFailure 는 피드 페치 실패를 기록한다.
func (c *Collector) RecordFetchFailure() {
	c.fetchFail.Inc()
}

// RecordFetchLatency 는 피드 페치의 레이턴시를 기록한다.
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordGenerateFailure 는 생성형 백엔드 호출 실패를 기록한다.
func (c *Collector) RecordGenerateFailure(model string) {
	c.generateFail.WithLabelValues(model).Inc()
}

// RecordGenerateLatency 는 생성형 백엔드 호출의 레이턴시를 기록한다.
func (c *Collector) RecordGenerateLatency(model string, duration time.Duration) {
	c.generateLatency.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordHTTPStatus 는 HTTP 응답의 상태 코드를 기록한다.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler 는 Prometheus 스크레이프용 HTTP 핸들러를 반환한다.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
