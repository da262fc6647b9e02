package service

import (
	"context"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/store"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/sync/errgroup"
)

// DeleteVideo removes an owned video and everything that points at it: likes,
// comments and their likes, playlist memberships, watch-history entries and
// the search document. Media blobs are removed by the video_deleted consumer.
func (s *ChannelService) DeleteVideo(ctx context.Context, actorID, videoID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireID("video id", videoID); err != nil {
		return err
	}

	var video *model.Video
	err := s.withLocks(ctx, func() error {
		rec, err := s.owned(ctx, model.CollectionVideos, videoID, actorID)
		if err != nil {
			return err
		}
		video = rec.(*model.Video)
		// The row is removed last so a failed sweep can be retried.
		if err := s.sweepVideo(ctx, videoID); err != nil {
			return err
		}
		_, err = s.sweep(ctx, model.CollectionVideos, store.Where(store.Eq("id", videoID)))
		return err
	}, videoLockKey(videoID))
	if err != nil {
		return err
	}

	event := mq.NewVideoDeletedEvent(video.ID, video.OwnerID, video.VideoURL, video.ThumbnailURL)
	if err := s.producer.PublishVideoDeleted(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish video deleted event for %s failed: %v", videoID, err)
	}
	return nil
}

// sweepVideo runs the independent sweeps concurrently.
func (s *ChannelService) sweepVideo(ctx context.Context, videoID string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.sweep(gctx, model.CollectionLikes, store.Where(
			store.Eq("target_kind", model.TargetVideo), store.Eq("target_id", videoID)))
		return err
	})
	g.Go(func() error {
		comments, err := s.store.Scan(gctx, model.CollectionComments, store.Where(store.Eq("video_id", videoID)))
		if err != nil {
			return errno.Upstream(err)
		}
		if len(comments) > 0 {
			ids := make([]string, len(comments))
			for i, c := range comments {
				ids[i] = c.RecordID()
			}
			if _, err := s.sweep(gctx, model.CollectionLikes, store.Where(
				store.Eq("target_kind", model.TargetComment), store.In("target_id", ids))); err != nil {
				return err
			}
		}
		_, err = s.sweep(gctx, model.CollectionComments, store.Where(store.Eq("video_id", videoID)))
		return err
	})
	g.Go(func() error {
		_, err := s.sweep(gctx, model.CollectionPlaylistVideos, store.Where(store.Eq("video_id", videoID)))
		return err
	})
	g.Go(func() error {
		n, err := s.history.Purge(gctx, videoID)
		if err != nil {
			return errno.Upstream(err)
		}
		hlog.CtxDebugf(gctx, "purged video %s from %d watch histories", videoID, n)
		return nil
	})
	if s.index != nil {
		g.Go(func() error {
			return errno.Upstream(s.index.Remove(gctx, videoID))
		})
	}
	return g.Wait()
}

// TogglePublish flips the published flag of an owned video and returns the
// new value.
func (s *ChannelService) TogglePublish(ctx context.Context, actorID, videoID string) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	if err := requireID("video id", videoID); err != nil {
		return false, err
	}

	var published bool
	err := s.withLocks(ctx, func() error {
		rec, err := s.owned(ctx, model.CollectionVideos, videoID, actorID)
		if err != nil {
			return err
		}
		published = !rec.(*model.Video).IsPublished
		return errno.Upstream(s.store.Update(ctx, model.CollectionVideos, videoID, map[string]any{
			"is_published": published,
			"updated_at":   time.Now(),
		}))
	}, videoLockKey(videoID))
	if err != nil {
		return false, err
	}

	if err := s.producer.PublishVideoUpserted(ctx, mq.NewVideoUpsertedEvent(videoID)); err != nil {
		hlog.CtxWarnf(ctx, "publish video upserted event for %s failed: %v", videoID, err)
	}
	return published, nil
}

// RecordView counts a view of a visible video and, for a known viewer, moves
// it to the front of the viewer's watch history.
func (s *ChannelService) RecordView(ctx context.Context, viewerID, videoID string) error {
	if viewerID != "" {
		if err := requireActor(viewerID); err != nil {
			return err
		}
	}
	if err := requireID("video id", videoID); err != nil {
		return err
	}
	rec, err := s.load(ctx, model.CollectionVideos, videoID)
	if err != nil {
		return err
	}
	if v := rec.(*model.Video); !v.IsPublished && v.OwnerID != viewerID {
		return errno.NotFoundErr.WithMessage("video not found: " + videoID)
	}
	if err := s.store.Increment(ctx, model.CollectionVideos, videoID, "views", 1); err != nil {
		return errno.Upstream(err)
	}
	if viewerID == "" {
		return nil
	}
	return errno.Upstream(s.history.Record(ctx, viewerID, videoID, time.Now()))
}

// MediaStore removes the blobs of a deleted video.
type MediaStore interface {
	RemoveVideo(ctx context.Context, videoID, videoURL, thumbnailURL string) error
}

// MediaCleaner consumes video_deleted events.
type MediaCleaner struct {
	media MediaStore
}

var _ mq.VideoDeletedHandler = (*MediaCleaner)(nil)

func NewMediaCleaner(m MediaStore) *MediaCleaner {
	return &MediaCleaner{media: m}
}

func (m *MediaCleaner) HandleVideoDeleted(ctx context.Context, event *mq.VideoDeletedEvent) error {
	if m.media == nil {
		return nil
	}
	if err := m.media.RemoveVideo(ctx, event.VideoID, event.VideoURL, event.ThumbnailURL); err != nil {
		hlog.CtxErrorf(ctx, "remove media of video %s failed: %v", event.VideoID, err)
		return err
	}
	return nil
}

// VideoIndexer is the write side of the text index.
type VideoIndexer interface {
	SearchIndex
	Upsert(ctx context.Context, v *model.Video) error
}

// IndexSync consumes video_upserted events. A video that no longer exists is
// removed from the index instead.
type IndexSync struct {
	store store.Reader
	index VideoIndexer
}

var _ mq.VideoUpsertedHandler = (*IndexSync)(nil)

func NewIndexSync(st store.Reader, index VideoIndexer) *IndexSync {
	return &IndexSync{store: st, index: index}
}

func (x *IndexSync) HandleVideoUpserted(ctx context.Context, event *mq.VideoUpsertedEvent) error {
	rec, ok, err := x.store.GetByID(ctx, model.CollectionVideos, event.VideoID)
	if err != nil {
		return err
	}
	if !ok {
		return x.index.Remove(ctx, event.VideoID)
	}
	return x.index.Upsert(ctx, rec.(*model.Video))
}
