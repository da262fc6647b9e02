package service

import (
	"context"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var likeTargets = map[string]model.Collection{
	model.TargetVideo:   model.CollectionVideos,
	model.TargetComment: model.CollectionComments,
	model.TargetTweet:   model.CollectionTweets,
}

// ToggleLike likes the target or removes the like, atomically in the store.
// It reports whether the like exists afterwards.
func (s *ChannelService) ToggleLike(ctx context.Context, actorID, targetKind, targetID string) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	c, ok := likeTargets[targetKind]
	if !ok {
		return false, errno.InvalidQueryErr.WithMessage("unsupported like target: " + targetKind)
	}
	if err := requireID(targetKind+" id", targetID); err != nil {
		return false, err
	}
	if _, err := s.load(ctx, c, targetID); err != nil {
		return false, err
	}

	liked, err := s.store.ToggleEdge(ctx, &model.Like{
		ID:         utils.NewID(),
		LikedBy:    actorID,
		TargetKind: targetKind,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		hlog.CtxErrorf(ctx, "toggle like failed: %v", err)
		return false, errno.Upstream(err)
	}
	s.publishEdge(ctx, "like", actorID, targetKind, targetID, liked)
	return liked, nil
}

// ToggleSubscription subscribes to the channel or unsubscribes. Subscribing
// to oneself is rejected.
func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if err := requireActor(subscriberID); err != nil {
		return false, err
	}
	if err := requireID("channel id", channelID); err != nil {
		return false, err
	}
	if subscriberID == channelID {
		return false, errno.InvalidQueryErr.WithMessage("cannot subscribe to your own channel")
	}
	if _, err := s.load(ctx, model.CollectionUsers, channelID); err != nil {
		return false, err
	}

	subscribed, err := s.store.ToggleEdge(ctx, &model.Subscription{
		ID:           utils.NewID(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		hlog.CtxErrorf(ctx, "toggle subscription failed: %v", err)
		return false, errno.Upstream(err)
	}
	s.publishEdge(ctx, "subscription", subscriberID, "channel", channelID, subscribed)
	return subscribed, nil
}

// publishEdge is best effort; the edge is already committed.
func (s *ChannelService) publishEdge(ctx context.Context, kind, actorID, targetKind, targetID string, active bool) {
	event := &mq.EdgeToggledEvent{
		Kind:       kind,
		ActorID:    actorID,
		TargetKind: targetKind,
		TargetID:   targetID,
		Active:     active,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.producer.PublishEdgeToggled(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish %s event failed: %v", kind, err)
	}
}
