package search

import (
	"context"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type Backfiller interface {
	Backfill(ctx context.Context, videos []*model.Video) error
}

// Reindexer periodically rewrites the index from the store. It catches
// writes whose upsert event was lost or that bypassed the broker.
type Reindexer struct {
	store    store.Reader
	index    Backfiller
	interval time.Duration
}

func NewReindexer(st store.Reader, index Backfiller, interval time.Duration) *Reindexer {
	return &Reindexer{store: st, index: index, interval: interval}
}

// Once indexes every stored video and returns how many were sent.
func (r *Reindexer) Once(ctx context.Context) (int, error) {
	recs, err := r.store.Scan(ctx, model.CollectionVideos, store.Where())
	if err != nil {
		return 0, errors.Wrap(err, "load videos for indexing")
	}
	videos := make([]*model.Video, 0, len(recs))
	for _, rec := range recs {
		videos = append(videos, rec.(*model.Video))
	}
	if err := r.index.Backfill(ctx, videos); err != nil {
		return 0, err
	}
	return len(videos), nil
}

// Run calls Once every interval until ctx is done. A non-positive interval
// disables it.
func (r *Reindexer) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Once(ctx)
			if err != nil {
				hlog.CtxErrorf(ctx, "reindex videos failed: %v", err)
				continue
			}
			hlog.CtxDebugf(ctx, "reindexed %d videos", n)
		}
	}
}
