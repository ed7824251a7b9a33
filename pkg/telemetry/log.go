package telemetry

import (
	"log/slog"
	"time"

	"github.com/vango-dev/compose/pkg/component"
)

// LogObserver logs mount lifecycle events. Failures log at Warn, mounts at
// Info, everything else at Debug.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Resolving(name string, generation uint64) {
	o.logger.Debug("component resolving", "component", name, "generation", generation)
}

func (o *LogObserver) Stale(name string, generation uint64) {
	o.logger.Debug("component resolution superseded", "component", name, "generation", generation)
}

func (o *LogObserver) Mounted(name string, generation uint64, elapsed time.Duration) {
	o.logger.Info("component mounted",
		"component", name,
		"generation", generation,
		"duration", elapsed)
}

func (o *LogObserver) Failed(name string, generation uint64, err error) {
	o.logger.Warn("component mount failed",
		"component", name,
		"generation", generation,
		"code", errorCode(err),
		"error", err)
}

func (o *LogObserver) Unmounted(name string) {
	o.logger.Debug("component unmounted", "component", name)
}

var _ component.Observer = (*LogObserver)(nil)
