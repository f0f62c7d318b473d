package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scan metrics
	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fourcastr_scan_duration_seconds",
			Help:    "Full batch scan duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourcastr_evaluations_total",
			Help: "Total number of symbol evaluations",
		},
		[]string{"status"}, // status: rated|no_data|no_forecast|error
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fourcastr_evaluation_duration_seconds",
			Help:    "Per-symbol evaluation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"status"},
	)

	// Gate metrics
	GateRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourcastr_gate_rejections_total",
			Help: "Total number of candidate rejections per gate",
		},
		[]string{"gate"},
	)

	ForecastsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourcastr_forecasts_accepted_total",
			Help: "Total number of forecasts surviving the gate pipeline",
		},
		[]string{"signal"}, // signal: EXECUTE|STRONG_SETUP
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourcastr_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fourcastr_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourcastr_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(ScanDuration)
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(EvaluationDuration)

	prometheus.MustRegister(GateRejections)
	prometheus.MustRegister(ForecastsAccepted)

	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	prometheus.MustRegister(KafkaMessages)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEvaluation records one symbol evaluation
func RecordEvaluation(status string, duration time.Duration) {
	EvaluationsTotal.WithLabelValues(status).Inc()
	EvaluationDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}

// RecordKafkaMessage records a produced Kafka message
func RecordKafkaMessage(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	KafkaMessages.WithLabelValues(topic, status).Inc()
}
