package service

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
)

// DeleteComment removes the actor's comment and the likes on it.
func (s *ChannelService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	return s.deleteLikeable(ctx, actorID, commentID, model.CollectionComments, model.TargetComment)
}

// DeleteTweet removes the actor's tweet and the likes on it.
func (s *ChannelService) DeleteTweet(ctx context.Context, actorID, tweetID string) error {
	return s.deleteLikeable(ctx, actorID, tweetID, model.CollectionTweets, model.TargetTweet)
}

func (s *ChannelService) deleteLikeable(ctx context.Context, actorID, id string, c model.Collection, kind string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireID(kind+" id", id); err != nil {
		return err
	}
	if _, err := s.owned(ctx, c, id, actorID); err != nil {
		return err
	}
	if _, err := s.sweep(ctx, c, store.Where(store.Eq("id", id))); err != nil {
		return err
	}
	_, err := s.sweep(ctx, model.CollectionLikes, store.Where(
		store.Eq("target_kind", kind), store.Eq("target_id", id)))
	return err
}
