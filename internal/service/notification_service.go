package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/events"
)

// NotificationService reacts to employee lifecycle events: it logs each one
// and forwards it to the external sink when one is configured.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sink       events.EventHandler
}

// NewNotificationService creates the service. sink may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sink events.EventHandler) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		sink:       sink,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEmployeeEvents {
		n.dispatcher.Subscribe(eventType, n.handleEmployeeEvent)
	}
}

func (n *NotificationService) handleEmployeeEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("record_id", event.RecordID),
		zap.Any("payload", event.Payload))

	if n.sink == nil {
		return nil
	}
	if err := n.sink(ctx, event); err != nil {
		n.logger.Warn("event fan-out failed", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}
