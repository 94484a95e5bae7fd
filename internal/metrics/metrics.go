package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes the engine's operational counters. A nil Recorder is valid
// and records nothing, so tests can leave it out.
type Recorder struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recon_reports_processed_total",
			Help: "Reports processed by the reconciliation engine, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recon_process_duration_seconds",
			Help:    "Wall time spent reconciling one report.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.outcomes, r.duration)
	return r
}

func (r *Recorder) Observe(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}
