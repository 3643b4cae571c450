package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Booking metrics
	BookingsCreated       prometheus.Counter
	BookingsCancelled     prometheus.Counter
	ParticipantsReserved  prometheus.Counter
	ParticipantsReleased  prometheus.Counter
	BookingRejections     *prometheus.CounterVec
	BookingCommitDuration *prometheus.HistogramVec

	// Capacity ledger metrics
	LedgerOperations *prometheus.CounterVec

	// Cache metrics
	CacheOperations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total number of committed bookings",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "cancelled_total",
			Help:      "Total number of committed cancellations",
		}),
		ParticipantsReserved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "participants_reserved_total",
			Help:      "Spots taken by committed bookings",
		}),
		ParticipantsReleased: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "participants_released_total",
			Help:      "Spots returned by committed cancellations",
		}),
		BookingRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "rejections_total",
			Help:      "Booking and cancellation requests rejected, by error code",
		}, []string{"operation", "code"}),
		BookingCommitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transaction_duration_seconds",
			Help:      "Duration of booking and cancellation transactions",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		LedgerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Capacity ledger mutations by outcome",
		}, []string{"operation", "status"}),

		CacheOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Availability cache lookups by result",
		}, []string{"cache", "result"}),
	}
}

func (m *Metrics) BookingCreated(participants int) {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
	m.ParticipantsReserved.Add(float64(participants))
}

func (m *Metrics) BookingCancelled(participants int) {
	if m == nil {
		return
	}
	m.BookingsCancelled.Inc()
	m.ParticipantsReleased.Add(float64(participants))
}

func (m *Metrics) Rejected(operation, code string) {
	if m == nil {
		return
	}
	m.BookingRejections.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) ObserveTransaction(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.BookingCommitDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Ledger(operation, status string) {
	if m == nil {
		return
	}
	m.LedgerOperations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) Cache(cache, result string) {
	if m == nil {
		return
	}
	m.CacheOperations.WithLabelValues(cache, result).Inc()
}
