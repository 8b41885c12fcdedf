package hermes

import (
	"log/slog"
	"time"
)

// Timer measures how long a query takes. A timer measures one run at a time.
type Timer struct {
	logger   *slog.Logger
	start    time.Time
	duration time.Duration
}

func NewTimer(logger *slog.Logger) *Timer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Timer{
		logger: logger,
	}
}

// Timed measures the run and logs its duration to logger.
func Timed(logger *slog.Logger) RunOption {
	return WithTimer(NewTimer(logger))
}

func (timer *Timer) Start() {
	timer.start = time.Now()
	timer.duration = 0
}

func (timer *Timer) Stop() time.Duration {
	timer.duration = time.Since(timer.start)
	timer.logger.Info(
		"Query Duration",
		slog.Duration("duration", timer.duration),
	)

	return timer.duration
}

func (timer *Timer) Duration() time.Duration {
	return timer.duration
}
