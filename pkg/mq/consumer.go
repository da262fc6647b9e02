package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 设置QoS，限制未确认消息数量
	if err := ch.Qos(10, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

// ConsumeVideoDeleted 后台消费视频删除事件，直到 ctx 结束
func (c *Consumer) ConsumeVideoDeleted(ctx context.Context, handler VideoDeletedHandler) error {
	return c.consume(ctx, VideoDeletedEventQueue, "video deleted", func(ctx context.Context, body []byte) (string, error) {
		var event VideoDeletedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", fmt.Errorf("%w: %v", errMalformed, err)
		}
		return event.VideoID, handler.HandleVideoDeleted(ctx, &event)
	})
}

// ConsumeVideoUpserted 后台消费视频创建/修改事件，直到 ctx 结束
func (c *Consumer) ConsumeVideoUpserted(ctx context.Context, handler VideoUpsertedHandler) error {
	return c.consume(ctx, VideoUpsertedQueue, "video upserted", func(ctx context.Context, body []byte) (string, error) {
		var event VideoUpsertedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", fmt.Errorf("%w: %v", errMalformed, err)
		}
		return event.VideoID, handler.HandleVideoUpserted(ctx, &event)
	})
}

// errMalformed 标记无法解析的消息，这类消息不重新入队
var errMalformed = errors.New("malformed event")

type handleFunc func(ctx context.Context, body []byte) (string, error)

func (c *Consumer) consume(ctx context.Context, queue, name string, handle handleFunc) error {
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack (手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				hlog.Infof("%s consumer context cancelled", name)
				return
			case d, ok := <-msgs:
				if !ok {
					hlog.Infof("%s consumer channel closed", name)
					return
				}
				dispatch(ctx, d, name, handle)
			}
		}
	}()

	return nil
}

func dispatch(ctx context.Context, d amqp091.Delivery, name string, handle handleFunc) {
	videoID, err := handle(ctx, d.Body)
	if errors.Is(err, errMalformed) {
		hlog.Errorf("Failed to unmarshal %s event: %v", name, err)
		d.Nack(false, false) // 拒绝消息，不重新入队
		return
	}
	if err != nil {
		hlog.Errorf("Failed to handle %s event: %v", name, err)
		d.Nack(false, true) // 拒绝消息，重新入队
		return
	}
	d.Ack(false)
	hlog.CtxInfof(ctx, "Processed %s event: video_id=%s", name, videoID)
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
