package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testRecorder is a Recorder capturing calls for assertions.
type testRecorder struct {
	mu            sync.Mutex
	passDurations int
	moduleResults map[int]map[ResultLabel]int
	decisions     map[string]int
	calibrations  int
	consecutive   int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{moduleResults: map[int]map[ResultLabel]int{}, decisions: map[string]int{}}
}

func (t *testRecorder) ObservePassDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.passDurations++
}
func (t *testRecorder) ObserveModuleDuration(int, time.Duration) {}
func (t *testRecorder) IncModuleResult(position int, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.moduleResults[position]
	if !ok {
		m = map[ResultLabel]int{}
		t.moduleResults[position] = m
	}
	m[result]++
}
func (t *testRecorder) IncRefreshDecision(decision string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.decisions[decision]++
}
func (t *testRecorder) IncCalibration(bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calibrations++
}
func (t *testRecorder) SetConsecutiveSuccesses(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutive = n
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestRecorderInterface(t *testing.T) {
	rec := newTestRecorder()
	var r Recorder = rec
	r.IncModuleResult(2, ResultError)
	r.IncModuleResult(2, ResultPanic)
	r.IncRefreshDecision(DecisionRefresh)
	r.SetConsecutiveSuccesses(0)
	r.ObservePassDuration(time.Second)

	assert.Equal(t, 1, rec.moduleResults[2][ResultError])
	assert.Equal(t, 1, rec.moduleResults[2][ResultPanic])
	assert.Equal(t, 1, rec.decisions[DecisionRefresh])
	assert.Equal(t, 1, rec.passDurations)

	assert.NotPanics(t, func() {
		var n Recorder = NoopRecorder{}
		n.IncCalibration(true)
	})
}
