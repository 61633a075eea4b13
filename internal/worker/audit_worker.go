package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/sheet-analytics/internal/cache"
	"github.com/spec-kit/sheet-analytics/internal/events"
)

// StartAuditWorker subscribes audit logging and cache invalidation to domain
// events. Dispatch is synchronous, so invalidation lands before the response
// that triggered it is written.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, store *cache.Cache) {
	if dispatcher == nil {
		return
	}

	audit := func(ctx context.Context, event events.Event) error {
		logger.Info("audit event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Time("at", event.Timestamp),
		)
		return nil
	}

	invalidateHistory := func(ctx context.Context, event events.Event) error {
		if err := store.Invalidate(ctx, "history:"+event.UserID); err != nil {
			logger.Warn("history cache invalidation failed", zap.Error(err))
		}
		if err := store.Invalidate(ctx, "admin:stats"); err != nil {
			logger.Warn("stats cache invalidation failed", zap.Error(err))
		}
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventDatasetIngested,
		events.EventDatasetDeleted,
		events.EventUserModerated,
	} {
		dispatcher.Subscribe(eventType, audit)
	}

	dispatcher.Subscribe(events.EventDatasetIngested, invalidateHistory)
	dispatcher.Subscribe(events.EventDatasetDeleted, invalidateHistory)
	dispatcher.Subscribe(events.EventUserRegistered, func(ctx context.Context, event events.Event) error {
		return store.Invalidate(ctx, "admin:stats")
	})
}
