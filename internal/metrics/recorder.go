package metrics

import "time"

// ResultLabel enumerates phase result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultRedirect ResultLabel = "redirect"
)

// OutcomeLabel is the final status of one load cycle.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFallback OutcomeLabel = "fallback"
	OutcomeDegraded OutcomeLabel = "degraded"
	OutcomeRedirect OutcomeLabel = "redirect"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for the load pipeline.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveLoadDuration(d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncLoadOutcome(outcome OutcomeLabel)
	IncFetch(kind string, success bool)
	AddUnresolvedPlaceholders(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObserveLoadDuration(time.Duration)          {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)         {}
func (NoopRecorder) IncLoadOutcome(OutcomeLabel)                {}
func (NoopRecorder) IncFetch(string, bool)                      {}
func (NoopRecorder) AddUnresolvedPlaceholders(int)              {}
