package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes storefront analytics events. Publishing is best
// effort from the caller's point of view: handlers log failures rather than
// surface them to the client.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer, logger: util.GetLogger()}
}

// Publish assigns the event an ID and timestamp if absent and writes it to
// the events topic, keyed by the acting user or anonymous ID so one actor's
// events stay ordered.
func (ep *EventPublisher) Publish(ctx context.Context, event *models.AnalyticsEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	key := event.ActorKey()
	if key == "" {
		key = event.EventID
	}

	if err := ep.producer.Publish(ctx, key, event); err != nil {
		util.AnalyticsEventsDropped.Inc()
		return err
	}
	return nil
}

// Track builds and publishes an event for a server-observed interaction.
func (ep *EventPublisher) Track(ctx context.Context, eventType, userID, anonID, productID string, metadata map[string]interface{}) {
	var raw json.RawMessage
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			ep.logger.Warn("Failed to encode event metadata", zap.Error(err))
		} else {
			raw = data
		}
	}

	event := &models.AnalyticsEvent{
		BaseEvent: models.BaseEvent{EventType: eventType},
		UserID:    userID,
		AnonID:    anonID,
		ProductID: productID,
		Metadata:  raw,
	}

	if err := ep.Publish(ctx, event); err != nil {
		ep.logger.Warn("Failed to publish analytics event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}

// EventHandler dispatches consumed analytics events to a registered callback
type EventHandler struct {
	onEvent func(context.Context, *models.AnalyticsEvent) error
	logger  *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnEvent registers the callback for consumed analytics events
func (eh *EventHandler) OnEvent(handler func(context.Context, *models.AnalyticsEvent) error) {
	eh.onEvent = handler
}

// HandleMessage decodes a consumed message and routes it to the callback.
// Unknown event types are logged and skipped so one bad producer cannot wedge
// the consumer group.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event models.AnalyticsEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal analytics event: %w", err)
	}

	if !models.KnownEventTypes[event.EventType] {
		eh.logger.Warn("Skipping unknown event type",
			zap.String("event_type", event.EventType),
			zap.String("event_id", event.EventID))
		return nil
	}

	if eh.onEvent == nil {
		return nil
	}
	return eh.onEvent(ctx, &event)
}
