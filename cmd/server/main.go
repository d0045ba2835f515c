package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/api"
	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/counter"
	"github.com/d60-Lab/social-feed/internal/notify"
	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/database"
	"github.com/d60-Lab/social-feed/pkg/logger"
	"github.com/d60-Lab/social-feed/pkg/token"
	"github.com/d60-Lab/social-feed/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "social-feed", cfg.Trace.Endpoint)
	if err != nil {
		logger.Error("tracing init", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("init database", zap.Error(err))
		return
	}

	// 收件箱：配置了 Redis 则用 Redis，否则进程内实现
	var inbox notify.Inbox
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("redis ping", zap.Error(err))
			return
		}
		inbox = notify.NewRedisInbox(rdb, cfg.Notify.Retention)
	} else {
		inbox = notify.NewMemoryInbox(cfg.Notify.Retention)
	}

	hub := realtime.NewHub()
	counters := counter.NewStore()

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	persister := service.NewLikePersister(likeRepo, 100000)
	stopPersister := persister.Start(4)

	dispatcher := service.NewDispatcher(hub, counters, inbox, postRepo, commentRepo, userRepo, persister)
	verifier := token.NewVerifier(cfg.JWT.Secret)
	accounts := service.NewAccountService(userRepo, verifier, cfg.JWT.TTL)

	h := handler.NewHandler(dispatcher, accounts, hub, verifier)
	router := api.NewRouter(h, verifier, cfg.Server.Mode)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
	logger.Info("stopping persister", zap.Int("queued", persister.QueueLen()))
	_ = stopPersister(shutdownCtx)
}
