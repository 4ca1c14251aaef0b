// metrics — HTTP-метрики Prometheus, общие для всех сервисов:
// счётчик запросов и гистограмма латентности с лейблами
// service/method/path/status, плюс стандартный /metrics-хендлер.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	requestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_latency_seconds",
			Help: "HTTP request latency",
		},
		[]string{"service", "method", "path"},
	)
)

// Handler возвращает стандартный обработчик /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware считает запросы и латентность для сервиса serviceName.
// Path берётся из URL как есть: роуты сервисов малочисленны и
// кардинальность лейбла ограничена.
func Middleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start).Seconds()
			requestCount.WithLabelValues(serviceName, r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
			requestLatency.WithLabelValues(serviceName, r.Method, r.URL.Path).Observe(elapsed)
		})
	}
}
