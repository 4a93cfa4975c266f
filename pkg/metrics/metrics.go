package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBErrorsTotal     *prometheus.CounterVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge

	ReservationsCreated  prometheus.Counter
	ReservationsRejected *prometheus.CounterVec
	VehicleLockWait      prometheus.Histogram
	AvailabilityCache    *prometheus.CounterVec
}

// New создает и регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает и регистрирует метрики в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_errors_total",
			Help:        "Total number of failed database calls",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		DBIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),

		ReservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Total number of created rental contracts",
			ConstLabels: labels,
		}),
		ReservationsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_rejected_total",
			Help:        "Total number of rejected reservation requests by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		VehicleLockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "vehicle_lock_wait_seconds",
			Help:        "Time spent waiting for the per-vehicle booking lock",
			ConstLabels: labels,
			Buckets:     []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		AvailabilityCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_requests_total",
			Help:        "Availability index cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBErrorsTotal,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.ReservationsCreated,
		m.ReservationsRejected,
		m.VehicleLockWait,
		m.AvailabilityCache,
	)

	return m
}

// ReservationCreated увеличивает счетчик созданных договоров
func (m *Metrics) ReservationCreated() {
	m.ReservationsCreated.Inc()
}

// ReservationRejected увеличивает счетчик отказов с указанной причиной
func (m *Metrics) ReservationRejected(reason string) {
	m.ReservationsRejected.WithLabelValues(reason).Inc()
}

// ObserveLockWait фиксирует время ожидания блокировки автомобиля
func (m *Metrics) ObserveLockWait(d time.Duration) {
	m.VehicleLockWait.Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	m.AvailabilityCache.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	m.AvailabilityCache.WithLabelValues("miss").Inc()
}

// Nop заглушка, используется когда метрики выключены
type Nop struct{}

func (Nop) ReservationCreated()           {}
func (Nop) ReservationRejected(string)    {}
func (Nop) ObserveLockWait(time.Duration) {}
func (Nop) CacheHit()                     {}
func (Nop) CacheMiss()                    {}
