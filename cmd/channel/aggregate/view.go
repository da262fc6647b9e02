package aggregate

import (
	"time"

	"VidTube.com/cmd/model"
)

// OwnerSummary is the whitelisted projection of an identity. The depth-2
// fields are nil below depth 2.
type OwnerSummary struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	AvatarURL        string `json:"avatarUrl"`
	SubscribersCount *int64 `json:"subscribersCount,omitempty"`
	IsSubscribed     *bool  `json:"isSubscribed,omitempty"`
}

type VideoView struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	VideoURL      string        `json:"videoUrl"`
	ThumbnailURL  string        `json:"thumbnailUrl"`
	Duration      float64       `json:"duration"`
	Views         int64         `json:"views"`
	IsPublished   bool          `json:"isPublished"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Owner         *OwnerSummary `json:"owner"`
	LikesCount    int64         `json:"likesCount"`
	CommentsCount int64         `json:"commentsCount"`
	IsLiked       bool          `json:"isLiked"`
}

type CommentView struct {
	ID         string        `json:"id"`
	VideoID    string        `json:"videoId"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	Owner      *OwnerSummary `json:"owner"`
	LikesCount int64         `json:"likesCount"`
	IsLiked    bool          `json:"isLiked"`
}

type TweetView struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	Owner      *OwnerSummary `json:"owner"`
	LikesCount int64         `json:"likesCount"`
	IsLiked    bool          `json:"isLiked"`
}

// PlaylistView counts only member videos that still exist.
type PlaylistView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	TotalVideos int64         `json:"totalVideos"`
	TotalViews  int64         `json:"totalViews"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Owner       *OwnerSummary `json:"owner,omitempty"`
}

type SubscriberView struct {
	Subscriber     *OwnerSummary `json:"subscriber"`
	SubscribedBack bool          `json:"subscribedBack"`
	SubscribedAt   time.Time     `json:"subscribedAt"`
}

type LatestVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ChannelView struct {
	Channel      *OwnerSummary `json:"channel"`
	LatestVideo  *LatestVideo  `json:"latestVideo"`
	SubscribedAt time.Time     `json:"subscribedAt"`
}

type ChannelStatsView struct {
	OwnerID                   string `json:"ownerId"`
	TotalVideos               int64  `json:"totalVideos"`
	TotalViews                int64  `json:"totalViews"`
	TotalLikes                int64  `json:"totalLikes"`
	TotalComments             int64  `json:"totalComments"`
	TotalSubscribers          int64  `json:"totalSubscribers"`
	TotalChannelsSubscribedTo int64  `json:"totalChannelsSubscribedTo"`
	TotalTweets               int64  `json:"totalTweets"`
	TotalPlaylists            int64  `json:"totalPlaylists"`
}

func projectVideo(v *model.Video) *VideoView {
	return &VideoView{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func projectComment(c *model.Comment) *CommentView {
	return &CommentView{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func projectTweet(t *model.Tweet) *TweetView {
	return &TweetView{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func projectPlaylist(p *model.Playlist) *PlaylistView {
	return &PlaylistView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectLatest(v *model.Video) *LatestVideo {
	return &LatestVideo{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		CreatedAt:    v.CreatedAt,
	}
}

func projectOwner(u *model.User) *OwnerSummary {
	return &OwnerSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}
