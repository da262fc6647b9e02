package mq

import "context"

// MessageProducer 消息生产者接口
type MessageProducer interface {
	PublishEdgeToggled(ctx context.Context, event *EdgeToggledEvent) error
	PublishVideoDeleted(ctx context.Context, event *VideoDeletedEvent) error
	PublishVideoUpserted(ctx context.Context, event *VideoUpsertedEvent) error
}

type VideoDeletedHandler interface {
	HandleVideoDeleted(ctx context.Context, event *VideoDeletedEvent) error
}

type VideoUpsertedHandler interface {
	HandleVideoUpserted(ctx context.Context, event *VideoUpsertedEvent) error
}

// 确保Producer实现MessageProducer接口
var _ MessageProducer = (*Producer)(nil)

var _ MessageProducer = (*Inline)(nil)

// Inline delivers video events to handlers in the calling goroutine and drops
// edge events. It stands in for the broker when none is configured.
type Inline struct {
	Handler VideoDeletedHandler
	Indexer VideoUpsertedHandler
}

func (i *Inline) PublishEdgeToggled(context.Context, *EdgeToggledEvent) error { return nil }

func (i *Inline) PublishVideoDeleted(ctx context.Context, event *VideoDeletedEvent) error {
	if i.Handler == nil {
		return nil
	}
	return i.Handler.HandleVideoDeleted(ctx, event)
}

func (i *Inline) PublishVideoUpserted(ctx context.Context, event *VideoUpsertedEvent) error {
	if i.Indexer == nil {
		return nil
	}
	return i.Indexer.HandleVideoUpserted(ctx, event)
}
