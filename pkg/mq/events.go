package mq

import "time"

// EdgeToggledEvent 点赞/关注切换事件
type EdgeToggledEvent struct {
	Kind       string `json:"kind"`        // like, subscription
	ActorID    string `json:"actor_id"`    // 操作用户ID
	TargetKind string `json:"target_kind"` // video, comment, tweet, channel
	TargetID   string `json:"target_id"`   // 目标ID
	Active     bool   `json:"active"`      // 切换后边是否存在
	Timestamp  int64  `json:"timestamp"`
}

// VideoDeletedEvent 视频删除事件，消费者负责清理媒体文件
type VideoDeletedEvent struct {
	VideoID      string `json:"video_id"`
	OwnerID      string `json:"owner_id"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Timestamp    int64  `json:"timestamp"`
}

func NewVideoDeletedEvent(videoID, ownerID, videoURL, thumbnailURL string) *VideoDeletedEvent {
	return &VideoDeletedEvent{
		VideoID:      videoID,
		OwnerID:      ownerID,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Timestamp:    time.Now().Unix(),
	}
}

// VideoUpsertedEvent 视频创建或修改事件，消费者负责同步搜索索引
type VideoUpsertedEvent struct {
	VideoID   string `json:"video_id"`
	Timestamp int64  `json:"timestamp"`
}

func NewVideoUpsertedEvent(videoID string) *VideoUpsertedEvent {
	return &VideoUpsertedEvent{VideoID: videoID, Timestamp: time.Now().Unix()}
}

const (
	// 交换机名称
	EdgeEventExchange  = "edge_events"
	VideoEventExchange = "video_events"

	// 队列名称
	EdgeEventQueue         = "edge_event_queue"
	VideoDeletedEventQueue = "video_deleted_queue"
	VideoUpsertedQueue     = "video_upserted_queue"

	// 路由键，video_events 上的两类事件各走各的队列
	VideoDeletedKey  = "video.deleted"
	VideoUpsertedKey = "video.upserted"
)
