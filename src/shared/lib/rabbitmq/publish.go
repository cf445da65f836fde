package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

var _ Publisher = &QueuePublisher{}

type Publisher interface {
	Publish(ctx context.Context, msg amqp091.Publishing) error
}

// JSONMessage builds a persistent message of the given type around a JSON
// body
func JSONMessage(messageType string, body any) (amqp091.Publishing, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return amqp091.Publishing{}, cerr.Field("message_type", messageType).
			Wrap(err).Error("Failed to marshal message body")
	}

	return amqp091.Publishing{
		Type: messageType,
		Body: jsonBytes,
	}, nil
}

// DeclareQueue makes sure the durable work queue exists
func DeclareQueue(channel *amqp091.Channel, queueName string) error {
	_, err := channel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		return cerr.Field("queue_name", queueName).Wrap(err).Error("Failed to declare the queue")
	}

	return nil
}

func NewQueuePublisher(rabbitMQURL string, queueName string) (*QueuePublisher, error) {
	publisher := &QueuePublisher{
		rabbitMQURL: rabbitMQURL,
		queueName:   queueName,
		channel:     nil,
	}

	err := publisher.connectChannel()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to connect to RabbitMQ")
	}

	return publisher, nil
}

type QueuePublisher struct {
	rabbitMQURL string
	queueName   string

	mutex   sync.Mutex
	channel *amqp091.Channel
}

func (q *QueuePublisher) connectChannel() error {
	q.channel = nil

	conn, err := amqp091.Dial(q.rabbitMQURL)
	if err != nil {
		return errors.Wrap(err, "Failed to dial rabbitMQURL")
	}

	channel, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "Failed to create rabbit channel")
	}

	if err := DeclareQueue(channel, q.queueName); err != nil {
		return err
	}

	q.channel = channel
	return nil
}

func (q *QueuePublisher) publishWithoutRetry(ctx context.Context, msg amqp091.Publishing) error {
	if q.channel == nil {
		return amqp091.ErrClosed
	}

	msg.ContentType = "application/json"
	msg.DeliveryMode = amqp091.Persistent

	return q.channel.PublishWithContext(
		ctx,
		"",
		q.queueName,
		true,
		false,
		msg,
	)
}

// Publish reconnects once if the channel was closed underneath it
func (q *QueuePublisher) Publish(ctx context.Context, msg amqp091.Publishing) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	err := q.publishWithoutRetry(ctx, msg)
	if err == nil {
		return nil
	}

	errctx := cerr.Field("message_type", msg.Type).Field("queue_name", q.queueName)
	publishErr := errctx.Wrap(err).Error("Failed to publish message to rabbitMQ channel")

	if !errors.Is(err, amqp091.ErrClosed) {
		return publishErr
	}

	if err := q.connectChannel(); err != nil {
		log.WithError(err).
			Error("Unable to reconnect to rabbitMQ channel")
		return publishErr
	}

	return q.publishWithoutRetry(ctx, msg)
}
