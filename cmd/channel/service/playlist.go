package service

import (
	"context"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/store"
	"VidTube.com/pkg/utils"
)

// DeletePlaylist removes an owned playlist and its memberships.
func (s *ChannelService) DeletePlaylist(ctx context.Context, actorID, playlistID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireID("playlist id", playlistID); err != nil {
		return err
	}
	return s.withLocks(ctx, func() error {
		if _, err := s.owned(ctx, model.CollectionPlaylists, playlistID, actorID); err != nil {
			return err
		}
		if _, err := s.sweep(ctx, model.CollectionPlaylists, store.Where(store.Eq("id", playlistID))); err != nil {
			return err
		}
		_, err := s.sweep(ctx, model.CollectionPlaylistVideos, store.Where(store.Eq("playlist_id", playlistID)))
		return err
	}, playlistLockKey(playlistID))
}

// AddVideoToPlaylist appends a published video to an owned playlist. Adding a
// member again is a no-op and reports false.
func (s *ChannelService) AddVideoToPlaylist(ctx context.Context, actorID, playlistID, videoID string) (bool, error) {
	if err := s.checkMembershipArgs(actorID, playlistID, videoID); err != nil {
		return false, err
	}
	var added bool
	err := s.withLocks(ctx, func() error {
		if _, err := s.owned(ctx, model.CollectionPlaylists, playlistID, actorID); err != nil {
			return err
		}
		rec, err := s.load(ctx, model.CollectionVideos, videoID)
		if err != nil {
			return err
		}
		if !rec.(*model.Video).IsPublished {
			return errno.InvalidQueryErr.WithMessage("only published videos can be added to a playlist")
		}

		members, err := s.store.Scan(ctx, model.CollectionPlaylistVideos, store.Where(store.Eq("playlist_id", playlistID)))
		if err != nil {
			return errno.Upstream(err)
		}
		next := int64(0)
		for _, m := range members {
			if pos := m.(*model.PlaylistVideo).Position; pos >= next {
				next = pos + 1
			}
		}
		now := time.Now()
		added, err = s.store.InsertIfAbsent(ctx, &model.PlaylistVideo{
			ID:         utils.NewID(),
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   next,
			CreatedAt:  now,
		})
		if err != nil {
			return errno.Upstream(err)
		}
		if !added {
			return nil
		}
		return s.touchPlaylist(ctx, playlistID, now)
	}, playlistLockKey(playlistID), videoLockKey(videoID))
	return added, err
}

// RemoveVideoFromPlaylist drops a member; removing a video that is not a
// member is InvalidQuery.
func (s *ChannelService) RemoveVideoFromPlaylist(ctx context.Context, actorID, playlistID, videoID string) error {
	if err := s.checkMembershipArgs(actorID, playlistID, videoID); err != nil {
		return err
	}
	return s.withLocks(ctx, func() error {
		if _, err := s.owned(ctx, model.CollectionPlaylists, playlistID, actorID); err != nil {
			return err
		}
		n, err := s.sweep(ctx, model.CollectionPlaylistVideos, store.Where(
			store.Eq("playlist_id", playlistID), store.Eq("video_id", videoID)))
		if err != nil {
			return err
		}
		if n == 0 {
			return errno.InvalidQueryErr.WithMessage("video is not in the playlist")
		}
		return s.touchPlaylist(ctx, playlistID, time.Now())
	}, playlistLockKey(playlistID), videoLockKey(videoID))
}

func (s *ChannelService) checkMembershipArgs(actorID, playlistID, videoID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireID("playlist id", playlistID); err != nil {
		return err
	}
	return requireID("video id", videoID)
}

func (s *ChannelService) touchPlaylist(ctx context.Context, playlistID string, at time.Time) error {
	return errno.Upstream(s.store.Update(ctx, model.CollectionPlaylists, playlistID, map[string]any{"updated_at": at}))
}
