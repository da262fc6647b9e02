package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewProducer(rabbitmqURL string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{
		conn:    conn,
		channel: ch,
	}

	if err := setupTopology(ch); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return producer, nil
}

// setupTopology 声明交换机和队列，生产者和消费者共用
func setupTopology(ch *amqp091.Channel) error {
	bindings := []struct {
		exchange string
		queue    string
		key      string
	}{
		{EdgeEventExchange, EdgeEventQueue, ""},
		{VideoEventExchange, VideoDeletedEventQueue, VideoDeletedKey},
		{VideoEventExchange, VideoUpsertedQueue, VideoUpsertedKey},
	}
	for _, b := range bindings {
		if err := ch.ExchangeDeclare(
			b.exchange,
			"direct",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", b.exchange, err)
		}
		if _, err := ch.QueueDeclare(
			b.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.key, b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

func (p *Producer) PublishEdgeToggled(ctx context.Context, event *EdgeToggledEvent) error {
	if err := p.publish(ctx, EdgeEventExchange, "", event); err != nil {
		return fmt.Errorf("failed to publish edge event: %w", err)
	}
	hlog.CtxInfof(ctx, "Published edge event: %+v", event)
	return nil
}

func (p *Producer) PublishVideoDeleted(ctx context.Context, event *VideoDeletedEvent) error {
	if err := p.publish(ctx, VideoEventExchange, VideoDeletedKey, event); err != nil {
		return fmt.Errorf("failed to publish video deleted event: %w", err)
	}
	hlog.CtxInfof(ctx, "Published video deleted event: video_id=%s", event.VideoID)
	return nil
}

func (p *Producer) PublishVideoUpserted(ctx context.Context, event *VideoUpsertedEvent) error {
	if err := p.publish(ctx, VideoEventExchange, VideoUpsertedKey, event); err != nil {
		return fmt.Errorf("failed to publish video upserted event: %w", err)
	}
	hlog.CtxInfof(ctx, "Published video upserted event: video_id=%s", event.VideoID)
	return nil
}

func (p *Producer) publish(ctx context.Context, exchange, key string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
