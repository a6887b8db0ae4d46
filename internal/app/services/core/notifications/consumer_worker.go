package notifications

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// queueConsumer is the slice of the notification queue the consumer needs.
type queueConsumer interface {
	Partitions() int
	Consume(ctx context.Context, partition int) (<-chan amqp.Delivery, error)
	ConsumeDeadLetter(ctx context.Context) (<-chan amqp.Delivery, error)
	PublishToDeadLetter(ctx context.Context, body []byte) error
}

// RetryPolicy bounds delivery attempts against the external sender before an
// event is parked on the dead-letter queue.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// ConsumerWorker drains the partitioned notification log, one goroutine per
// partition, and hands each event to the external sender. Transient sender
// failures are retried with a fixed delay; exhausted or unprocessable events
// go to the dead-letter queue. Every delivery is acknowledged exactly once,
// after its outcome is decided, so a crash mid-processing redelivers.
type ConsumerWorker struct {
	queue    queueConsumer
	notifier contracts.Notifier
	policy   RetryPolicy
	Log      *zap.Logger
}

func NewConsumerWorker(queue queueConsumer, notifier contracts.Notifier, policy RetryPolicy, logger *zap.Logger) *ConsumerWorker {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &ConsumerWorker{
		queue:    queue,
		notifier: notifier,
		policy:   policy,
		Log:      logger,
	}
}

// Start launches the partition consumers plus the dead-letter consumer and
// returns a stop function that cancels them and waits for drain.
func (w *ConsumerWorker) Start(ctx context.Context) (func(), error) {
	runCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	for p := 0; p < w.queue.Partitions(); p++ {
		deliveries, err := w.queue.Consume(runCtx, p)
		if err != nil {
			cancel()
			return nil, err
		}
		wg.Add(1)
		go func(partition int, deliveries <-chan amqp.Delivery) {
			defer wg.Done()
			w.runPartition(runCtx, partition, deliveries)
		}(p, deliveries)
	}

	dlqDeliveries, err := w.queue.ConsumeDeadLetter(runCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.runDeadLetter(runCtx, dlqDeliveries)
	}()

	return func() {
		cancel()
		wg.Wait()
	}, nil
}

func (w *ConsumerWorker) runPartition(ctx context.Context, partition int, deliveries <-chan amqp.Delivery) {
	for delivery := range deliveries {
		w.handleDelivery(ctx, partition, delivery.Body)
		if err := delivery.Ack(false); err != nil {
			w.Log.Error("consumerWorker failed to ack delivery",
				zap.Int(constvars.LoggingPartitionKey, partition),
				zap.Error(err),
			)
		}
	}
}

// handleDelivery decides one delivery's outcome: sent, or dead-lettered. It
// never propagates an error upward; the caller always acks afterwards.
func (w *ConsumerWorker) handleDelivery(ctx context.Context, partition int, body []byte) {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.Log.Error("consumerWorker received undecodable event, dead-lettering",
			zap.Int(constvars.LoggingPartitionKey, partition),
			zap.Error(err),
		)
		w.deadLetter(ctx, body)
		return
	}

	if event.RecipientEmail == "" {
		w.Log.Error("consumerWorker received event without recipient, dead-lettering",
			zap.String(constvars.LoggingEventIDKey, event.EventID),
			zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
		)
		w.deadLetter(ctx, body)
		return
	}

	for attempt := 1; attempt <= w.policy.MaxAttempts; attempt++ {
		err := w.notifier.SendAppointmentConfirmation(ctx, &event)
		if err == nil {
			w.Log.Info("consumerWorker delivered notification",
				zap.String(constvars.LoggingEventIDKey, event.EventID),
				zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
				zap.Int(constvars.LoggingAttemptKey, attempt),
			)
			return
		}

		w.Log.Warn("consumerWorker send attempt failed",
			zap.String(constvars.LoggingEventIDKey, event.EventID),
			zap.Int(constvars.LoggingAttemptKey, attempt),
			zap.Error(err),
		)

		if attempt < w.policy.MaxAttempts {
			select {
			case <-time.After(w.policy.Delay):
			case <-ctx.Done():
				// Shutdown mid-retry: leave the delivery unsent, the park
				// below records it for manual replay.
			}
		}
	}

	w.Log.Error("consumerWorker exhausted retries, dead-lettering",
		zap.String(constvars.LoggingEventIDKey, event.EventID),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
		zap.Int(constvars.LoggingAttemptKey, w.policy.MaxAttempts),
	)
	w.deadLetter(ctx, body)
}

func (w *ConsumerWorker) deadLetter(ctx context.Context, body []byte) {
	if err := w.queue.PublishToDeadLetter(ctx, body); err != nil {
		w.Log.Error("consumerWorker failed to dead-letter event", zap.Error(err))
	}
}

// runDeadLetter drains the dead-letter queue. It only records what arrived
// and always acknowledges; nothing thrown here may crash the consumer.
func (w *ConsumerWorker) runDeadLetter(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for delivery := range deliveries {
		w.recordDeadLetter(delivery.Body)
		if err := delivery.Ack(false); err != nil {
			w.Log.Error("consumerWorker failed to ack dead-letter delivery", zap.Error(err))
		}
	}
}

func (w *ConsumerWorker) recordDeadLetter(body []byte) {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.Log.Error("consumerWorker parked unparseable dead-letter payload",
			zap.Int("payload_bytes", len(body)),
		)
		return
	}
	w.Log.Error("consumerWorker parked dead-letter event",
		zap.String(constvars.LoggingEventIDKey, event.EventID),
		zap.String(constvars.LoggingAppointmentIDKey, event.AppointmentID),
		zap.String("recipient", event.RecipientEmail),
	)
}
