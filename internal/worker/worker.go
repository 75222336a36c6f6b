package worker

import (
	"context"
	"fmt"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// AnalyticsWorker consumes storefront analytics events, persists them and
// maintains the per-type counters. Processing is idempotent: an event ID seen
// before is acknowledged without side effects.
type AnalyticsWorker struct {
	consumer *broker.Consumer
	handler  *broker.EventHandler
	store    *store.Store
	logger   *zap.Logger
}

// NewAnalyticsWorker creates a new analytics worker
func NewAnalyticsWorker(consumer *broker.Consumer, st *store.Store) *AnalyticsWorker {
	w := &AnalyticsWorker{
		consumer: consumer,
		store:    st,
		logger:   util.GetLogger(),
	}

	handler := broker.NewEventHandler()
	handler.OnEvent(w.handleEvent)
	w.handler = handler

	return w
}

// Start starts the worker
func (w *AnalyticsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting analytics worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop stops the worker
func (w *AnalyticsWorker) Stop() error {
	w.logger.Info("Stopping analytics worker")
	return w.consumer.Close()
}

func (w *AnalyticsWorker) handleEvent(ctx context.Context, event *models.AnalyticsEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Debug("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	if err := w.store.InsertAnalyticsEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to persist analytics event: %w", err)
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	util.AnalyticsEventsTotal.WithLabelValues(event.EventType).Inc()
	w.logger.Debug("Analytics event recorded",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType))
	return nil
}
