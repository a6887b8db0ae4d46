package contracts

import (
	"context"
	"medibook-service/internal/app/models"
)

// NotificationDispatcher publishes one event per settled payment onto the
// durable notification log, keyed by appointment id.
type NotificationDispatcher interface {
	Publish(ctx context.Context, event *models.NotificationEvent) (eventID string, err error)
}

// Notifier is the external send collaborator the consumer pipeline invokes.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, event *models.NotificationEvent) error
}
