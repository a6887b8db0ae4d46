package notifqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// QueueNamePrefix is the base name of the partitioned notification log;
	// partition queues are named <prefix>.<partition>.
	QueueNamePrefix = "appointment_notifications"

	// DeadLetterQueueName receives events that exhausted retry or can never
	// be processed.
	DeadLetterQueueName = "appointment_notifications.dlq"
)

// Service manages the partitioned, durable notification log on RabbitMQ.
// Events for one appointment always land on the same partition queue, so a
// single consumer per partition sees them in publish order.
type Service struct {
	ch         *amqp.Channel
	log        *zap.Logger
	partitions int
	confirms   chan amqp.Confirmation
	mu         sync.Mutex
}

// NewService declares the partition queues plus the dead-letter queue (all
// durable), enables publisher confirms, and sets QoS to one in-flight
// delivery per consumer.
func NewService(conn *amqp.Connection, log *zap.Logger, partitions int) (*Service, error) {
	if partitions <= 0 {
		partitions = 1
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for p := 0; p < partitions; p++ {
		if _, err := ch.QueueDeclare(QueueName(p), true, false, false, false, nil); err != nil {
			return nil, exceptions.ErrRabbitMQPublishMessage(err, QueueName(p))
		}
	}
	if _, err := ch.QueueDeclare(DeadLetterQueueName, true, false, false, false, nil); err != nil {
		return nil, exceptions.ErrRabbitMQPublishMessage(err, DeadLetterQueueName)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:         ch,
		log:        log,
		partitions: partitions,
		confirms:   ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func QueueName(partition int) string {
	return fmt.Sprintf("%s.%d", QueueNamePrefix, partition)
}

func (s *Service) Partitions() int {
	return s.partitions
}

// PartitionFor maps an appointment id onto a stable partition so deliveries
// for the same appointment stay ordered.
func (s *Service) PartitionFor(appointmentID string) int {
	h := fnv.New32a()
	h.Write([]byte(appointmentID))
	return int(h.Sum32() % uint32(s.partitions))
}

// Publish puts a persistent message on the given partition queue and waits
// for the broker's confirm.
func (s *Service) Publish(ctx context.Context, partition int, body []byte) error {
	return s.publish(ctx, QueueName(partition), body)
}

// PublishToDeadLetter routes an unprocessable payload to the DLQ.
func (s *Service) PublishToDeadLetter(ctx context.Context, body []byte) error {
	return s.publish(ctx, DeadLetterQueueName, body)
}

func (s *Service) publish(ctx context.Context, queueName string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queueName)
	}

	s.log.Debug("notifqueue published message",
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)
	return nil
}

// Consume opens a manually-acked delivery stream for one partition queue.
func (s *Service) Consume(ctx context.Context, partition int) (<-chan amqp.Delivery, error) {
	queueName := QueueName(partition)
	deliveries, err := s.ch.ConsumeWithContext(ctx, queueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, exceptions.ErrRabbitMQConsume(err, queueName)
	}
	return deliveries, nil
}

// ConsumeDeadLetter opens the delivery stream of the DLQ.
func (s *Service) ConsumeDeadLetter(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := s.ch.ConsumeWithContext(ctx, DeadLetterQueueName, "", false, false, false, false, nil)
	if err != nil {
		return nil, exceptions.ErrRabbitMQConsume(err, DeadLetterQueueName)
	}
	return deliveries, nil
}
