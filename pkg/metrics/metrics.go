package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the booking core.
type Metrics struct {
	PurchasesTotal     prometheus.Counter
	CancellationsTotal prometheus.Counter
	BookingFailures    *prometheus.CounterVec
	FlightDeletions    *prometheus.CounterVec
	PurchaseDuration   prometheus.Histogram
}

// New registers booking metrics on the given registerer. Tests pass a
// private registry so repeated construction does not collide.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PurchasesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "The total number of committed seat purchases",
		}),
		CancellationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "The total number of cancelled passengers",
		}),
		BookingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "Failed booking operations by reason",
		}, []string{"reason"}),
		FlightDeletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_deletions_total",
			Help:      "Flight deletions by outcome",
		}, []string{"outcome"}),
		PurchaseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "purchase_duration_seconds",
			Help:      "Time spent inside the purchase transaction",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
