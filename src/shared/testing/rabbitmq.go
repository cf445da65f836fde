package testing

import (
	"encoding/json"
	"time"

	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/rabbitmq"
)

func MakeRabbitMQConnection() *amqp091.Connection {
	return ExpectSuccess(amqp091.Dial(RabbitMQHost))
}

// ResetRabbitMQ leaves an empty test queue behind
func ResetRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()

	ExpectWithOffset(1, rabbitmq.DeclareQueue(channel, RabbitMQQueueName)).To(Succeed())
	ExpectSuccess(channel.QueuePurge(RabbitMQQueueName, false))
}

func AfterSuiteRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()

	ExpectSuccess(channel.QueueDelete(RabbitMQQueueName, false, false, false))
}

func MakeRabbitMQPublisher() *rabbitmq.QueuePublisher {
	return ExpectSuccess(rabbitmq.NewQueuePublisher(RabbitMQHost, RabbitMQQueueName))
}

// JobMessage is a job chain message as the worker would see it
type JobMessage struct {
	Type  string
	JobID string
	Body  map[string]any
}

// NextJobMessage pulls one message off the test queue, failing if none
// arrives in time
func NextJobMessage(conn *amqp091.Connection, timeout time.Duration) JobMessage {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()

	var delivery amqp091.Delivery
	EventuallyWithOffset(1, func() bool {
		var ok bool
		delivery, ok, _ = channel.Get(RabbitMQQueueName, true)
		return ok
	}, timeout, 50*time.Millisecond).Should(BeTrue())

	body := map[string]any{}
	ExpectWithOffset(1, json.Unmarshal(delivery.Body, &body)).To(Succeed())

	jobID, _ := body["job_id"].(string)
	return JobMessage{
		Type:  delivery.Type,
		JobID: jobID,
		Body:  body,
	}
}
