package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/events"
)

// EventPublisher relays encoded events to an external channel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService handles emitting notifications for department events.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  EventPublisher
	channel    string
	logger     *zap.Logger
}

// NewNotificationService creates the service. A nil publisher only logs events.
func NewNotificationService(dispatcher events.Dispatcher, publisher EventPublisher, channel string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllDepartmentEvents {
		n.dispatcher.Subscribe(eventType, n.handleDepartmentEvent)
	}
}

func (n *NotificationService) handleDepartmentEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("department event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Int64("department_id", event.DepartmentID),
	)
	if n.publisher == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	if err := n.publisher.Publish(ctx, n.channel, payload); err != nil {
		return fmt.Errorf("relay %s event: %w", event.Type, err)
	}
	return nil
}
