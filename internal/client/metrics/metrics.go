// Package metrics instruments outbound requests and session invalidations
// with Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tabclient"

// Prometheus records request counts, latencies and forced logouts.
type Prometheus struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	invalidations prometheus.Counter
}

// NewPrometheus creates the collectors and registers them on reg.
// A nil reg registers nothing, which is handy for throwaway instances.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Outbound API requests by method and status code (0 = transport failure).",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Outbound API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_invalidations_total",
			Help:      "Sessions cleared because the server answered 401.",
		}),
	}

	if reg == nil {
		return p, nil
	}
	for _, c := range []prometheus.Collector{p.requests, p.duration, p.invalidations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ObserveRequest implements netx.Recorder.
func (p *Prometheus) ObserveRequest(method string, status int, elapsed time.Duration) {
	p.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	p.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// SessionInvalidated counts one forced logout.
func (p *Prometheus) SessionInvalidated() {
	p.invalidations.Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveRequest(string, int, time.Duration) {}
func (Nop) SessionInvalidated()                       {}
