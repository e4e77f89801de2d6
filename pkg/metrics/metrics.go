// Package metrics содержит prometheus-метрики сервиса
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса. Все методы безопасны для nil-получателя.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBTransactionsTotal *prometheus.CounterVec

	BookingAdmissions *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	SlotsMaterialized *prometheus.CounterVec
	AvailabilityCache *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		registry:    prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		DBTransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_transactions_total",
			Help: "Total number of finished transactions",
		}, []string{"service", "result"}),

		BookingAdmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_admissions_total",
			Help: "Booking admission decisions",
		}, []string{"service", "result"}),

		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_status_transitions_total",
			Help: "Applied booking status transitions",
		}, []string{"service", "to"}),

		SlotsMaterialized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_materialized_total",
			Help: "Time slots processed by materialization",
		}, []string{"service", "outcome"}),

		AvailabilityCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_cache_total",
			Help: "Availability cache lookups",
		}, []string{"service", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBTransactionsTotal,
		m.BookingAdmissions,
		m.StatusTransitions,
		m.SlotsMaterialized,
		m.AvailabilityCache,
	)

	return m
}

// Handler возвращает http.Handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// ObserveTransaction фиксирует завершение транзакции (commit/rollback)
func (m *Metrics) ObserveTransaction(result string) {
	if m == nil {
		return
	}
	m.DBTransactionsTotal.WithLabelValues(m.serviceName, result).Inc()
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
}

// IncAdmission фиксирует результат попытки бронирования (admitted, rejected, replayed, failed)
func (m *Metrics) IncAdmission(result string) {
	if m == nil {
		return
	}
	m.BookingAdmissions.WithLabelValues(m.serviceName, result).Inc()
}

// IncStatusTransition фиксирует смену статуса бронирования
func (m *Metrics) IncStatusTransition(to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(m.serviceName, to).Inc()
}

// AddSlotsMaterialized фиксирует итог материализации слотов
func (m *Metrics) AddSlotsMaterialized(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SlotsMaterialized.WithLabelValues(m.serviceName, outcome).Add(float64(n))
}

// IncAvailabilityCache фиксирует обращение к кэшу доступности (hit, miss, error)
func (m *Metrics) IncAvailabilityCache(result string) {
	if m == nil {
		return
	}
	m.AvailabilityCache.WithLabelValues(m.serviceName, result).Inc()
}
