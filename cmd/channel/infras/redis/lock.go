package redis

import (
	"context"
	"time"

	"VidTube.com/pkg/lock"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Locker is a lock.Locker shared by every instance through redsync.
type Locker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

var _ lock.Locker = (*Locker)(nil)

func NewLocker(client *redis.Client) *Locker {
	return &Locker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: 10 * time.Second,
	}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	m := l.rs.NewMutex("lock:"+key, redsync.WithExpiry(l.expiry), redsync.WithTries(64))
	if err := m.LockContext(ctx); err != nil {
		return nil, err
	}
	return func() {
		if _, err := m.UnlockContext(context.Background()); err != nil {
			hlog.Warnf("failed to release lock %s: %v", key, err)
		}
	}, nil
}
