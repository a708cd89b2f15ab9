package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SourceLedger        = "ledger"
	SourceReconstructed = "reconstructed"
)

const (
	FallbackReasonEmpty       = "empty"
	FallbackReasonSchemaDrift = "schema_drift"
	FallbackReasonQueryError  = "query_error"
)

// EarningsMetrics tracks which source served each earnings read and how
// expensive the resolution was.
type EarningsMetrics struct {
	resolveDuration *prometheus.HistogramVec
	rowsServed      *prometheus.HistogramVec
	sourceErrors    *prometheus.CounterVec
}

// NewEarningsMetrics registers earnings instruments on the default registry.
func NewEarningsMetrics(cfg Config) (*EarningsMetrics, error) {
	return newEarningsMetrics(prometheus.DefaultRegisterer, cfg)
}

func newEarningsMetrics(registerer prometheus.Registerer, cfg Config) (*EarningsMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := serviceLabels(cfg)

	resolveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "yieldbook_earnings_resolve_duration_seconds",
		Help:        "Time spent resolving an earnings row set, including fallbacks.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		ConstLabels: constLabels,
	}, []string{"operation", "source"})
	rowsServed := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "yieldbook_earnings_rows_served",
		Help:        "Rows folded into an earnings result.",
		Buckets:     []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		ConstLabels: constLabels,
	}, []string{"operation", "source"})
	sourceErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "yieldbook_earnings_source_errors_total",
		Help:        "Source failures absorbed by the earnings fallback chain.",
		ConstLabels: constLabels,
	}, []string{"operation", "source", "reason"})

	for _, collector := range []prometheus.Collector{resolveDuration, rowsServed, sourceErrors} {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return nil, err
		}
	}

	return &EarningsMetrics{
		resolveDuration: resolveDuration,
		rowsServed:      rowsServed,
		sourceErrors:    sourceErrors,
	}, nil
}

// ObserveResolved records the source that produced the final row set.
func (m *EarningsMetrics) ObserveResolved(operation, source string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.WithLabelValues(operation, source).Observe(duration.Seconds())
	m.rowsServed.WithLabelValues(operation, source).Observe(float64(rows))
}

// IncSourceError records a failure that the chain recovered from.
func (m *EarningsMetrics) IncSourceError(operation, source, reason string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(operation, source, reason).Inc()
}
