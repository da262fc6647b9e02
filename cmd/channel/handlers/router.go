package handlers

import (
	"VidTube.com/cmd/channel/aggregate"
	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/route"
)

// Register mounts the channel routes on r.
func Register(r *route.Engine, h *Handler) {
	v1 := r.Group("/api/v1")

	videos := v1.Group("/videos")
	videos.GET("", h.Feed)
	videos.GET("/:videoId", h.VideoDetail)
	videos.DELETE("/:videoId", h.DeleteVideo)
	videos.PATCH("/toggle/publish/:videoId", h.TogglePublish)

	dashboard := v1.Group("/dashboard")
	dashboard.GET("/stats", h.list(aggregate.IntentChannelStats, nil))
	dashboard.GET("/videos/:channelId", h.list(aggregate.IntentChannelVideos, owner("channelId")))

	comments := v1.Group("/comments")
	comments.GET("/:videoId", h.list(aggregate.IntentCommentsForVideo, target("videoId")))
	comments.DELETE("/c/:commentId", h.DeleteComment)

	playlist := v1.Group("/playlist")
	playlist.GET("/:playlistId", h.list(aggregate.IntentPlaylistDetail, target("playlistId")))
	playlist.DELETE("/:playlistId", h.DeletePlaylist)
	playlist.PATCH("/add/:videoId/:playlistId", h.AddVideoToPlaylist)
	playlist.PATCH("/remove/:videoId/:playlistId", h.RemoveVideoFromPlaylist)
	playlist.GET("/user/:userId", h.list(aggregate.IntentUserPlaylists, owner("userId")))

	subscriptions := v1.Group("/subscriptions")
	subscriptions.GET("/c/:channelId", h.list(aggregate.IntentSubscribersOfChannel, target("channelId")))
	subscriptions.POST("/c/:channelId", h.ToggleSubscription)
	subscriptions.GET("/u/:subscriberId", h.list(aggregate.IntentChannelsSubscribedBy, target("subscriberId")))

	tweets := v1.Group("/tweets")
	tweets.GET("/user/:userId", h.list(aggregate.IntentTweetsOfUser, owner("userId")))
	tweets.DELETE("/:tweetId", h.DeleteTweet)

	likes := v1.Group("/likes")
	likes.POST("/toggle/v/:videoId", h.toggleLike(model.TargetVideo, "videoId"))
	likes.POST("/toggle/c/:commentId", h.toggleLike(model.TargetComment, "commentId"))
	likes.POST("/toggle/t/:tweetId", h.toggleLike(model.TargetTweet, "tweetId"))
	likes.GET("/videos", h.list(aggregate.IntentLikedVideos, nil))

	v1.GET("/users/history", h.list(aggregate.IntentWatchHistory, nil))
}
