package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"uplink/backend/common"
	"uplink/backend/library/queue"
	"uplink/backend/model"

	"github.com/rabbitmq/amqp091-go"
)

const (
	batchSize     = 100
	flushInterval = 2 * time.Second
)

func main() {
	common.LoadEnv()

	if common.QueueConnString == "" {
		common.FatalLog("RABBITMQ_CONN_STRING not set, analytics worker has nothing to consume")
	}

	if err := common.InitRedisClient(); err != nil {
		common.FatalLog("failed to initialize Redis client: " + err.Error())
	}
	if err := model.InitDB(); err != nil {
		common.FatalLog("failed to initialize database: " + err.Error())
	}
	defer func() {
		if err := model.CloseDB(); err != nil {
			common.FatalLog("failed to close database: " + err.Error())
		}
	}()

	conn, err := amqp091.Dial(common.QueueConnString)
	if err != nil {
		common.FatalLog("failed to connect to RabbitMQ: " + err.Error())
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		common.FatalLog("failed to open RabbitMQ channel: " + err.Error())
	}
	defer channel.Close()

	q, err := channel.QueueDeclare(
		common.UploadQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		common.FatalLog("failed to declare queue: " + err.Error())
	}

	// Pull up to one batch worth of messages at a time.
	if err := channel.Qos(batchSize, 0, false); err != nil {
		common.FatalLog("failed to set QoS: " + err.Error())
	}

	msgs, err := channel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		common.FatalLog("failed to register consumer: " + err.Error())
	}

	common.SysLog("analytics worker started, consuming queue: " + common.UploadQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var pending []pendingEvent
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				common.SysLog("RabbitMQ channel closed, flushing and exiting")
				flush(pending)
				return
			}
			var msg queue.UploadEventMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				common.SysError("dropping undecodable message: " + err.Error())
				// false: do not requeue, the payload will never decode
				_ = d.Reject(false)
				continue
			}
			pending = append(pending, pendingEvent{msg: msg, delivery: d})
			if len(pending) >= batchSize {
				flush(pending)
				pending = nil
				ticker.Reset(flushInterval)
			}
		case <-ticker.C:
			if len(pending) > 0 {
				flush(pending)
				pending = nil
			}
		case <-quit:
			common.SysLog("shutdown signal received, flushing pending events")
			flush(pending)
			return
		}
	}
}

type pendingEvent struct {
	msg      queue.UploadEventMessage
	delivery amqp091.Delivery
}

// flush writes the batch to the upload_events table. Each event is acked
// individually so a mid-batch failure requeues only what was not stored.
func flush(pending []pendingEvent) {
	if len(pending) == 0 {
		return
	}
	stored := 0
	for _, p := range pending {
		event := &model.UploadEvent{
			LinkID:      p.msg.LinkID,
			WorkspaceID: p.msg.WorkspaceID,
			LinkSlug:    p.msg.LinkSlug,
			FileCount:   p.msg.FileCount,
			TotalBytes:  p.msg.TotalBytes,
			UserAgent:   p.msg.UserAgent,
		}
		if err := model.CreateUploadEvent(event); err != nil {
			common.SysError("failed to store upload event, requeueing: " + err.Error())
			_ = p.delivery.Nack(false, true)
			continue
		}
		_ = p.delivery.Ack(false)
		stored++
	}
	common.SysLog("flushed upload events: " + strconv.Itoa(stored) + "/" + strconv.Itoa(len(pending)))
}
