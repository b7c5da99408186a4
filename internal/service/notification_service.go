package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-core/internal/events"
)

// NotificationService turns domain events into operator-visible log lines.
// It stands in for the push channel the hosted deployment wires up.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle("TicketCreated"))
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handle("TicketAssigned"))
	n.dispatcher.Subscribe(events.EventTicketStateChanged, n.handle("TicketStateChanged"))
	n.dispatcher.Subscribe(events.EventTicketCancelled, n.handle("TicketCancelled"))
	n.dispatcher.Subscribe(events.EventTicketRated, n.handle("TicketRated"))
	n.dispatcher.Subscribe(events.EventComplaintFiled, n.handle("ComplaintFiled"))
	n.dispatcher.Subscribe(events.EventComplaintResolved, n.handle("ComplaintResolved"))
}

func (n *NotificationService) handle(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name,
			zap.Int64("ticket_id", event.TicketID),
			zap.Int64("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
