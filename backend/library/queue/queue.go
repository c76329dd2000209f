package queue

import (
	"context"
	"encoding/json"
	"time"

	"uplink/backend/common"

	"github.com/rabbitmq/amqp091-go"
)

// UploadEventMessage is the wire form of one accepted batch, published for
// the analytics worker.
type UploadEventMessage struct {
	LinkID      int64     `json:"link_id"`
	WorkspaceID int64     `json:"workspace_id"`
	LinkSlug    string    `json:"link_slug"`
	FileCount   int64     `json:"file_count"`
	TotalBytes  int64     `json:"total_bytes"`
	UserAgent   string    `json:"user_agent"`
	Timestamp   time.Time `json:"timestamp"`
}

var (
	QueueEnabled = false

	conn    *amqp091.Connection
	channel *amqp091.Channel
)

// InitPublisher connects to RabbitMQ when RABBITMQ_CONN_STRING is set and
// declares the upload-event queue. The application runs fine without it;
// upload events then get recorded synchronously.
func InitPublisher() error {
	if common.QueueConnString == "" {
		common.SysLog("RABBITMQ_CONN_STRING not set, upload events will be recorded synchronously")
		return nil
	}
	var err error
	conn, err = amqp091.Dial(common.QueueConnString)
	if err != nil {
		return err
	}
	channel, err = conn.Channel()
	if err != nil {
		return err
	}
	_, err = channel.QueueDeclare(
		common.UploadQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return err
	}
	QueueEnabled = true
	common.SysLog("RabbitMQ publisher initialized, queue: " + common.UploadQueue)
	return nil
}

// PublishUploadEvent fires an event at the queue. Callers treat failure as
// a logged degradation, never as an upload failure.
func PublishUploadEvent(ctx context.Context, msg UploadEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return channel.PublishWithContext(publishCtx,
		"",                 // exchange
		common.UploadQueue, // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
}

func ClosePublisher() {
	if channel != nil {
		_ = channel.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
	QueueEnabled = false
}
