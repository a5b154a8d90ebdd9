package smartwallet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the confirmation tracker metrics. A nil *Metrics records nothing.
type Metrics struct {
	OutcomePolls         prometheus.Counter
	ReceiptLookupErrors  prometheus.Counter
	Outcomes             *prometheus.CounterVec
	ConfirmationDuration prometheus.Histogram
}

// NewMetrics registers the tracker metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OutcomePolls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "smartwallet",
			Subsystem: "tracker",
			Name:      "outcome_polls_total",
			Help:      "Total number of outcome polling cycles",
		}),

		ReceiptLookupErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "smartwallet",
			Subsystem: "tracker",
			Name:      "receipt_lookup_errors_total",
			Help:      "Receipt lookups that failed and were retried",
		}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartwallet",
			Subsystem: "tracker",
			Name:      "outcomes_total",
			Help:      "Resolved outcomes by kind",
		}, []string{"kind"}),

		ConfirmationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smartwallet",
			Subsystem: "tracker",
			Name:      "confirmation_duration_seconds",
			Help:      "Time from the start of tracking to the receipt",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
		}),
	}
}

func (m *Metrics) observePoll() {
	if m == nil {
		return
	}
	m.OutcomePolls.Inc()
}

func (m *Metrics) observeReceiptError() {
	if m == nil {
		return
	}
	m.ReceiptLookupErrors.Inc()
}

func (m *Metrics) observeConfirmation(kind OutcomeKind, startedAt time.Time) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(string(kind)).Inc()
	m.ConfirmationDuration.Observe(time.Since(startedAt).Seconds())
}
