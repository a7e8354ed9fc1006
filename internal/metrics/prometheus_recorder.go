package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "inkframe"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once                 sync.Once
	passDuration         prom.Histogram
	moduleDuration       *prom.HistogramVec
	moduleResults        *prom.CounterVec
	refreshDecisions     *prom.CounterVec
	calibrations         *prom.CounterVec
	consecutiveSuccesses prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.passDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a full display pass",
			Buckets:   prom.DefBuckets,
		})
		pr.moduleDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "module_duration_seconds",
			Help:      "Duration of individual module runs",
			Buckets:   prom.DefBuckets,
		}, []string{"position"})
		pr.moduleResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "module_results_total",
			Help:      "Module results by position and outcome",
		}, []string{"position", "result"})
		pr.refreshDecisions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_decisions_total",
			Help:      "Fingerprint gate decisions",
		}, []string{"decision"})
		pr.calibrations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "calibrations_total",
			Help:      "Panel calibrations by result",
		}, []string{"result"})
		pr.consecutiveSuccesses = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "consecutive_successes",
			Help:      "Passes completed without a module failure",
		})
		reg.MustRegister(pr.passDuration, pr.moduleDuration, pr.moduleResults,
			pr.refreshDecisions, pr.calibrations, pr.consecutiveSuccesses)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil || p.passDuration == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveModuleDuration(position int, d time.Duration) {
	if p == nil || p.moduleDuration == nil {
		return
	}
	p.moduleDuration.WithLabelValues(strconv.Itoa(position)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncModuleResult(position int, result ResultLabel) {
	if p == nil || p.moduleResults == nil {
		return
	}
	p.moduleResults.WithLabelValues(strconv.Itoa(position), string(result)).Inc()
}

func (p *PrometheusRecorder) IncRefreshDecision(decision string) {
	if p == nil || p.refreshDecisions == nil {
		return
	}
	p.refreshDecisions.WithLabelValues(decision).Inc()
}

func (p *PrometheusRecorder) IncCalibration(success bool) {
	if p == nil || p.calibrations == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.calibrations.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetConsecutiveSuccesses(n int) {
	if p == nil || p.consecutiveSuccesses == nil {
		return
	}
	p.consecutiveSuccesses.Set(float64(n))
}
