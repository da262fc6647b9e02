package constants

import "time"

const (
	DataFormate = "2006-01-02 15:04:05"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	WatchHistoryLimit = 100

	// UserIDHeader carries the identity resolved by the gateway.
	UserIDHeader = "X-User-Id"

	VideoBucket     = "video"
	ThumbnailBucket = "picture"

	VideoIndex      = "videos"
	ReindexInterval = 10 * time.Minute
)
