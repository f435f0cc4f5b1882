package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder feeds claim outcomes and store latencies into prometheus.
type Recorder struct {
	claims  *prometheus.CounterVec
	storeOp *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		claims: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "huddygate_claims_total",
			Help: "Claims handled, by kind (entry, gift) and outcome",
		}, []string{"kind", "outcome"}),
		storeOp: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "huddygate_store_op_seconds",
			Help:    "Latency of a single registry store round-trip",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"op"}),
	}
}

func (r *Recorder) ObserveClaim(kind, outcome string) {
	r.claims.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) ObserveStoreOp(op string, d time.Duration) {
	r.storeOp.WithLabelValues(op).Observe(d.Seconds())
}
