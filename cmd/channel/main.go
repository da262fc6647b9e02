package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"VidTube.com/cmd/channel/aggregate"
	"VidTube.com/cmd/channel/dal/db"
	"VidTube.com/cmd/channel/handlers"
	"VidTube.com/cmd/channel/infras/redis"
	"VidTube.com/cmd/channel/infras/search"
	"VidTube.com/cmd/channel/service"
	"VidTube.com/config"
	"VidTube.com/config/jaeger"
	"VidTube.com/config/pprof"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/history"
	"VidTube.com/pkg/lock"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/oss"
	"VidTube.com/pkg/store"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.Init()
	_, closer := jaeger.InitJaeger(config.ConfigInfo.Jaeger.ServiceName)
	defer closer.Close()
	pprof.Load(config.ConfigInfo.Server.PprofAddr)

	db.Init()
	st := db.NewStore(db.DB)

	var (
		hist   history.Log = history.NewMemory(config.ConfigInfo.Engine.WatchHistoryLimit)
		locker lock.Locker = lock.NewLocal()
	)
	if err := redis.Load(); err != nil {
		hlog.Warn("Redis unavailable, watch history and locks stay in process")
	} else {
		hist = redis.NewWatchHistory(redis.RedisDB, config.ConfigInfo.Engine.WatchHistoryLimit)
		locker = redis.NewLocker(redis.RedisDB)
	}

	media, err := oss.InitMinio()
	if err != nil {
		hlog.Errorf("minio init failed: %v", err)
	}
	index := initIndex(ctx, st)
	producer := initProducer(ctx, st, media, index)

	opts := []aggregate.Option{
		aggregate.WithHistory(hist),
		aggregate.WithPageSizes(config.ConfigInfo.Engine.DefaultPageSize, config.ConfigInfo.Engine.MaxPageSize),
	}
	deps := service.Deps{Store: st, History: hist, Locker: locker, Producer: producer}
	if index != nil {
		opts = append(opts, aggregate.WithTextIndex(index))
		deps.Index = index
	}

	engine := aggregate.NewEngine(st, opts...)
	svc := service.NewChannelService(deps)

	h := server.New(
		server.WithHostPorts(config.ConfigInfo.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithExitWaitTime(0),
	)
	h.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigInfo.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{
				"code":    errno.ServiceErrCode,
				"message": fmt.Sprintf("[Recovery] err=%v", err),
			})
		})))

	handlers.Register(h.Engine, handlers.NewHandler(engine, svc))
	h.Spin()
}

// initProducer publishes through rabbitmq when it is configured and consumes
// the video queues: deletes clean up media, upserts refresh the search index.
// Without a broker both run inline.
func initProducer(ctx context.Context, st store.Reader, media *oss.MediaStore, index *search.VideoIndex) mq.MessageProducer {
	inline := &mq.Inline{}
	if media != nil {
		inline.Handler = service.NewMediaCleaner(media)
	}
	if index != nil {
		inline.Indexer = service.NewIndexSync(st, index)
	}
	url := utils.GetMQUrl()
	if url == "" {
		return inline
	}
	producer, err := mq.NewProducer(url)
	if err != nil {
		hlog.Errorf("rabbitmq producer init failed, falling back to inline delivery: %v", err)
		return inline
	}
	if inline.Handler == nil && inline.Indexer == nil {
		return producer
	}
	consumer, err := mq.NewConsumer(url)
	if err != nil {
		hlog.Errorf("rabbitmq consumer init failed: %v", err)
		return producer
	}
	if inline.Handler != nil {
		if err := consumer.ConsumeVideoDeleted(ctx, inline.Handler); err != nil {
			hlog.Errorf("consume video deleted events failed: %v", err)
		}
	}
	if inline.Indexer != nil {
		if err := consumer.ConsumeVideoUpserted(ctx, inline.Indexer); err != nil {
			hlog.Errorf("consume video upserted events failed: %v", err)
		}
	}
	return producer
}

// initIndex connects elastic, indexes the stored videos and keeps reindexing
// them in the background. It returns nil when search is not configured or
// unreachable.
func initIndex(ctx context.Context, st store.Reader) *search.VideoIndex {
	addr := config.ConfigInfo.Elastic.Addr
	if addr == "" {
		return nil
	}
	index, err := search.NewVideoIndex(addr, config.ConfigInfo.Elastic.Index)
	if err != nil {
		hlog.Errorf("elastic init failed: %v", err)
		return nil
	}
	if err := index.EnsureIndex(ctx); err != nil {
		hlog.Errorf("ensure elastic index failed: %v", err)
		return nil
	}
	reindexer := search.NewReindexer(st, index, config.ConfigInfo.Elastic.ReindexInterval)
	if n, err := reindexer.Once(ctx); err != nil {
		hlog.Errorf("backfill elastic index failed: %v", err)
	} else {
		hlog.Infof("indexed %d videos", n)
	}
	go reindexer.Run(ctx)
	return index
}
