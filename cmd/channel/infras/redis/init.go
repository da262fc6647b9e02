package redis

import (
	"context"

	"VidTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

var RedisDB *redis.Client

// Load connects RedisDB. The client is kept even when the ping fails, the
// error tells the caller to fall back to in-process state.
func Load() error {
	RedisDB = redis.NewClient(&redis.Options{
		Addr:     config.ConfigInfo.Redis.Addr,
		Password: config.ConfigInfo.Redis.Password,
		DB:       config.ConfigInfo.Redis.DB,
	})
	if _, err := RedisDB.Ping(context.Background()).Result(); err != nil {
		hlog.Errorf("RedisDB ping %s failed: %v", config.ConfigInfo.Redis.Addr, err)
		return err
	}
	return nil
}
