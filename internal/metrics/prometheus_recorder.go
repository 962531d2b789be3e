package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagefill"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	phaseDuration *prom.HistogramVec
	loadDuration  prom.Histogram
	phaseResults  *prom.CounterVec
	loadOutcome   *prom.CounterVec
	fetches       *prom.CounterVec
	unresolved    prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual load phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		pr.loadDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Total load cycle duration",
			Buckets:   prom.DefBuckets,
		})
		pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"})
		pr.loadOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "load_outcomes_total",
			Help:      "Load cycles by final status",
		}, []string{"outcome"})
		pr.fetches = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Resource fetches by kind and result",
		}, []string{"kind", "result"})
		pr.unresolved = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_placeholders_total",
			Help:      "Placeholders left in place because no key matched",
		})
		reg.MustRegister(pr.phaseDuration, pr.loadDuration, pr.phaseResults, pr.loadOutcome, pr.fetches, pr.unresolved)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveLoadDuration(d time.Duration) {
	if p == nil || p.loadDuration == nil {
		return
	}
	p.loadDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil || p.phaseResults == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncLoadOutcome(outcome OutcomeLabel) {
	if p == nil || p.loadOutcome == nil {
		return
	}
	p.loadOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncFetch(kind string, success bool) {
	if p == nil || p.fetches == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetches.WithLabelValues(kind, res).Inc()
}

func (p *PrometheusRecorder) AddUnresolvedPlaceholders(n int) {
	if p == nil || p.unresolved == nil || n <= 0 {
		return
	}
	p.unresolved.Add(float64(n))
}
