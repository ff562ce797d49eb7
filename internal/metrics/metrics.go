package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Address statuses used as label values.
const (
	StatusMatched = "matched"
	StatusEmpty   = "empty"
	StatusFailed  = "failed"
)

type Metrics struct {
	AddressesProcessed *prometheus.CounterVec
	Queries            *prometheus.CounterVec
	Retries            prometheus.Counter
	RecordsWritten     prometheus.Counter
	RequestSeconds     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		AddressesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geobatch_addresses_processed_total",
			Help: "Total number of processed input addresses.",
		}, []string{"status"}),
		Queries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geobatch_provider_queries_total",
			Help: "Total number of queries sent to the geocoding provider.",
		}, []string{"result"}),
		Retries: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geobatch_truncation_retries_total",
			Help: "Total number of retries issued after dropping a leading token.",
		}),
		RecordsWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geobatch_records_written_total",
			Help: "Total number of CSV records written.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geobatch_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveQuery counts one provider query by outcome.
func (m *Metrics) ObserveQuery(matches int, err error) {
	switch {
	case err != nil:
		m.Queries.WithLabelValues("error").Inc()
	case matches == 0:
		m.Queries.WithLabelValues("empty").Inc()
	default:
		m.Queries.WithLabelValues("ok").Inc()
	}
}

// ObserveRetry counts one truncation retry.
func (m *Metrics) ObserveRetry() {
	m.Retries.Inc()
}
