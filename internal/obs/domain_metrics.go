package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CalculationsTotal counts transaction calculations by outcome.
	CalculationsTotal *prometheus.CounterVec
	// PointsAwarded records loyalty points awarded per transaction.
	PointsAwarded prometheus.Histogram
	// PromoCacheTotal counts promotion snapshot cache lookups by outcome.
	PromoCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Count of transaction calculations by outcome.",
		}, []string{"result"})
		PointsAwarded = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "points_awarded",
			Help:      "Loyalty points awarded per transaction.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})
		PromoCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_cache_total",
			Help:      "Promotion snapshot cache lookups by source and outcome.",
		}, []string{"source", "outcome"})

		for _, c := range []prometheus.Collector{CalculationsTotal, PointsAwarded, PromoCacheTotal} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(fmt.Errorf("register domain metric: %w", err))
				}
			}
		}
	})
}

// RecordCalculation increments the calculation outcome counter when metrics are enabled.
func RecordCalculation(result string) {
	if CalculationsTotal != nil {
		CalculationsTotal.WithLabelValues(result).Inc()
	}
}

// RecordPointsAwarded observes the points histogram when metrics are enabled.
func RecordPointsAwarded(points int64) {
	if PointsAwarded != nil {
		PointsAwarded.Observe(float64(points))
	}
}

// RecordPromoCache increments the promo cache counter when metrics are enabled.
func RecordPromoCache(source, outcome string) {
	if PromoCacheTotal != nil {
		PromoCacheTotal.WithLabelValues(source, outcome).Inc()
	}
}
