package metrics

import (
	"testing"
	"time"
)

// Compile-time checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePhaseDuration("site", time.Millisecond)
	r.ObserveLoadDuration(time.Millisecond)
	r.IncPhaseResult("site", ResultSuccess)
	r.IncLoadOutcome(OutcomeSuccess)
	r.IncFetch("data", true)
	r.AddUnresolvedPlaceholders(2)
}
