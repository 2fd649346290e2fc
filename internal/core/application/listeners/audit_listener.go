package listeners

import (
	"context"
	"log/slog"

	"orderstate/internal/core/domain/services"
)

// AuditListener records every accepted transition in the structured log.
// It never fails.
type AuditListener struct {
	logger *slog.Logger
}

// NewAuditListener creates an audit listener writing to logger.
func NewAuditListener(logger *slog.Logger) *AuditListener {
	return &AuditListener{logger: logger.With("component", "AuditListener")}
}

func (l *AuditListener) OnPersist(ctx context.Context, change services.StateChange) error {
	l.logger.InfoContext(ctx, "order status changed",
		"businessKey", change.Request.BusinessKey.Int(),
		"event", change.Request.Event.Code(),
		"from", change.Transition.Source.Code(),
		"to", change.State.Code())
	return nil
}
