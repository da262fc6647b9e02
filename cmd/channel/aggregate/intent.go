package aggregate

import (
	"strings"

	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
)

type Intent string

const (
	IntentFeed                 Intent = "feed"
	IntentChannelStats         Intent = "channel-stats"
	IntentChannelVideos        Intent = "channel-videos"
	IntentVideoDetail          Intent = "video-detail"
	IntentCommentsForVideo     Intent = "comments-for-video"
	IntentPlaylistDetail       Intent = "playlist-detail"
	IntentUserPlaylists        Intent = "user-playlists"
	IntentSubscribersOfChannel Intent = "subscribers-of-channel"
	IntentChannelsSubscribedBy Intent = "channels-subscribed-by"
	IntentTweetsOfUser         Intent = "tweets-of-user"
	IntentLikedVideos          Intent = "liked-videos"
	IntentWatchHistory         Intent = "watch-history"
)

// Filters holds the recognized filter keys. A nil Text means no text filter
// was given; a non-nil blank Text is rejected.
type Filters struct {
	Text          *string
	OwnerID       string
	TargetID      string
	PublishedOnly *bool
}

type Sort struct {
	Field     string
	Direction string
}

// Query is a normalized query intent. An empty ViewerID is the anonymous
// viewer.
type Query struct {
	Intent   Intent
	Filters  Filters
	Sort     Sort
	ViewerID string
	Page     int
	PageSize int
}

func (q Query) anonymous() bool { return q.ViewerID == "" }

// validateIDs rejects malformed ids before any stage runs.
func (q Query) validateIDs() error {
	for name, id := range map[string]string{
		"ownerId":  q.Filters.OwnerID,
		"targetId": q.Filters.TargetID,
		"viewerId": q.ViewerID,
	} {
		if id != "" && !utils.ValidID(id) {
			return errno.InvalidReferenceErr.WithMessage("malformed " + name + ": " + id)
		}
	}
	return nil
}

func (q Query) validateText() error {
	if q.Filters.Text == nil {
		return nil
	}
	if q.Intent != IntentFeed {
		return errno.InvalidQueryErr.WithMessage("text filter is only supported by the feed")
	}
	if strings.TrimSpace(*q.Filters.Text) == "" {
		return errno.InvalidQueryErr.WithMessage("search text must not be blank")
	}
	return nil
}

// subject returns the first non-empty id, or InvalidQuery naming what is
// missing.
func subject(what string, ids ...string) (string, error) {
	for _, id := range ids {
		if id != "" {
			return id, nil
		}
	}
	return "", errno.InvalidQueryErr.WithMessage(what + " is required")
}
