package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "photomanager"

type Metrics struct {
	retrievals        *prometheus.CounterVec
	assets            *prometheus.CounterVec
	retrievalDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Number of getImagePaths invocations by outcome.",
		}, []string{"outcome"}),
		assets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assets_materialized_total",
			Help:      "Number of per-asset materializations by outcome.",
		}, []string{"outcome"}),
		retrievalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Wall time of a whole retrieval, from authorization to aggregation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.retrievals, m.assets, m.retrievalDuration)
	}
	return m
}

func (m *Metrics) ObserveRetrieval(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(outcome).Inc()
	m.retrievalDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) AssetMaterialized(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.assets.WithLabelValues(outcome).Inc()
}
