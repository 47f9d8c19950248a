package alerting

import (
	"context"
	"log/slog"
)

// LogAlerter routes operational alerts to structured logging until a real
// paging integration is wired. Exhausted redeliveries land here; they must
// never be dropped.
type LogAlerter struct {
	Logger *slog.Logger
}

func (a LogAlerter) Alert(_ context.Context, subject string, detail string) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("operational alert",
		"event", "bag_operational_alert",
		"module", "player-experience/bag-service",
		"layer", "adapter",
		"subject", subject,
		"detail", detail,
	)
}
