package redis

import (
	"context"
	"fmt"
	"time"

	"VidTube.com/pkg/history"
	"github.com/redis/go-redis/v9"
)

const (
	// 观看历史 Key：history:{user_id}，ZSet member=video_id score=观看时间
	HistoryKeyTemplate = "history:%s"
	// 反向索引 Key：watchers:{video_id}，Set 存储看过该视频的用户，删除视频时用于清理
	WatchersKeyTemplate = "watchers:%s"
)

// WatchHistory is a history.Log on redis sorted sets. Re-watching a video
// only moves its score, so entries stay deduplicated.
type WatchHistory struct {
	client redis.Cmdable
	limit  int64
}

var _ history.Log = (*WatchHistory)(nil)

func NewWatchHistory(client redis.Cmdable, limit int) *WatchHistory {
	if limit <= 0 {
		limit = 100
	}
	return &WatchHistory{client: client, limit: int64(limit)}
}

func (w *WatchHistory) Record(ctx context.Context, userID, videoID string, at time.Time) error {
	key := fmt.Sprintf(HistoryKeyTemplate, userID)
	_, err := w.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixNano()), Member: videoID})
		pipe.ZRemRangeByRank(ctx, key, 0, -(w.limit + 1))
		pipe.SAdd(ctx, fmt.Sprintf(WatchersKeyTemplate, videoID), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}

func (w *WatchHistory) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := w.client.ZRevRange(ctx, fmt.Sprintf(HistoryKeyTemplate, userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}
	return ids, nil
}

// Purge uses the watchers index; users whose entry was already trimmed just
// report zero removals.
func (w *WatchHistory) Purge(ctx context.Context, videoID string) (int64, error) {
	watchersKey := fmt.Sprintf(WatchersKeyTemplate, videoID)
	users, err := w.client.SMembers(ctx, watchersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to load watchers: %w", err)
	}
	cmds := make([]*redis.IntCmd, 0, len(users))
	_, err = w.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, uid := range users {
			cmds = append(cmds, pipe.ZRem(ctx, fmt.Sprintf(HistoryKeyTemplate, uid), videoID))
		}
		pipe.Del(ctx, watchersKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge watch history: %w", err)
	}
	var n int64
	for _, c := range cmds {
		n += c.Val()
	}
	return n, nil
}
