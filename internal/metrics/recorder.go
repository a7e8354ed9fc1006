package metrics

import "time"

// ResultLabel enumerates module result categories for counters.
type ResultLabel string

const (
	ResultOK    ResultLabel = "ok"
	ResultError ResultLabel = "error"
	ResultPanic ResultLabel = "panic"
)

// Refresh decision labels.
const (
	DecisionRefresh = "refresh"
	DecisionSkip    = "skip"
)

// Recorder defines observability hooks for passes. Implementations must be
// safe for concurrent use; NoopRecorder is the default when metrics are off.
type Recorder interface {
	ObservePassDuration(d time.Duration)
	ObserveModuleDuration(position int, d time.Duration)
	IncModuleResult(position int, result ResultLabel)
	IncRefreshDecision(decision string) // decision: refresh|skip
	IncCalibration(success bool)
	SetConsecutiveSuccesses(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePassDuration(time.Duration)        {}
func (NoopRecorder) ObserveModuleDuration(int, time.Duration) {}
func (NoopRecorder) IncModuleResult(int, ResultLabel)         {}
func (NoopRecorder) IncRefreshDecision(string)                {}
func (NoopRecorder) IncCalibration(bool)                      {}
func (NoopRecorder) SetConsecutiveSuccesses(int)              {}
