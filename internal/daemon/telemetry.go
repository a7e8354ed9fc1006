package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/inkframe/internal/logfields"
	"git.home.luguber.info/inful/inkframe/internal/metrics"
)

// telemetry periodically writes the metrics textfile between passes.
type telemetry struct {
	scheduler gocron.Scheduler
}

func newTelemetry(w *metrics.TextfileWriter, interval time.Duration, clock clockwork.Clock) (*telemetry, error) {
	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := w.Flush(); err != nil {
				slog.Warn("Scheduled metrics flush failed", logfields.Path(w.Path()), logfields.Error(err))
			}
		}),
		gocron.WithName("metrics-flush"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create metrics flush job: %w", err)
	}
	return &telemetry{scheduler: s}, nil
}

func (t *telemetry) Start() {
	slog.Debug("Starting metrics flush scheduler")
	t.scheduler.Start()
}

func (t *telemetry) Stop() {
	if err := t.scheduler.Shutdown(); err != nil {
		slog.Warn("Failed to stop metrics flush scheduler", logfields.Error(err))
	}
}
