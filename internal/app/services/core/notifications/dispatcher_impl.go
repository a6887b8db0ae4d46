package notifications

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// queuePublisher is the slice of the notification queue the dispatcher needs.
type queuePublisher interface {
	PartitionFor(appointmentID string) int
	Publish(ctx context.Context, partition int, body []byte) error
}

var (
	dispatcherInstance contracts.NotificationDispatcher
	onceDispatcher     sync.Once
)

type notificationDispatcher struct {
	queue queuePublisher
	Log   *zap.Logger
}

// NewDispatcher publishes one confirmation event per settled payment. Events
// are partitioned by appointment id, so all events of one appointment keep
// their publish order on a single queue.
func NewDispatcher(queue queuePublisher, logger *zap.Logger) contracts.NotificationDispatcher {
	onceDispatcher.Do(func() {
		dispatcherInstance = &notificationDispatcher{
			queue: queue,
			Log:   logger,
		}
	})
	return dispatcherInstance
}

func (d *notificationDispatcher) Publish(ctx context.Context, event *models.NotificationEvent) (string, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	partition := d.queue.PartitionFor(event.AppointmentID)
	if err := d.queue.Publish(ctx, partition, body); err != nil {
		return "", err
	}

	d.Log.Info("notificationDispatcher published event",
		zap.String(constvars.LoggingEventIDKey, event.EventID),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
		zap.Int(constvars.LoggingPartitionKey, partition),
	)
	return event.EventID, nil
}
