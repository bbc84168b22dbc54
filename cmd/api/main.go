package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Octo_Social/internal/bootstrap"
	"Octo_Social/internal/config"
	"Octo_Social/internal/handler"
	"Octo_Social/internal/middleware"
	"Octo_Social/internal/pkg"
	"Octo_Social/internal/repository/redis"
	"Octo_Social/internal/router"
	"Octo_Social/internal/service"
	"Octo_Social/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := pkg.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer func() { _ = stores.Close() }()

	// 连接redis
	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		log.Fatal("connect redis failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()
	sessions := redis.NewSessionRepository(rdb, cfg.JWTAccessTTL)
	states := redis.NewOAuthStateRepository(rdb)

	// outbox -> kafka
	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer func() { _ = producer.Close() }()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(stores.Outbox, sender, service.RelayerOptions{
		BatchSize: cfg.OutboxBatch,
		Interval:  cfg.OutboxInterval,
		MaxRetry:  cfg.OutboxMaxRetry,
	}, log)
	go relayer.Run(ctx)

	// 附件存储不可用时只关闭上传接口
	var media handler.MediaStore
	if cfg.MinIOAccessKey != "" {
		ms, err := storage.NewMinIOStorage(ctx, storage.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			log.Error("minio unavailable, media upload disabled", zap.Error(err))
		} else {
			media = ms
		}
	}

	tokens := pkg.NewTokenIssuer(pkg.TokenConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})
	github := pkg.NewGitHubOAuth(pkg.GitHubConfig{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  cfg.GitHubRedirectURL,
	})

	users := service.NewUserService(stores.Users, stores.Follows, stores.Posts, stores.Comments, log)
	auth := service.NewAuthService(users, stores.Users, tokens, sessions, log)
	posts := service.NewPostService(stores.Posts, stores.Comments, stores.Users, log)
	feed := service.NewFeedService(stores.Follows, stores.Posts, stores.Comments, service.FeedOptions{IncludeSelf: cfg.FeedIncludeSelf}, log)
	follows := service.NewFollowService(stores.Follows, stores.Users, service.FollowOptions{AllowSelf: cfg.FollowAllowSelf}, log)
	convs := service.NewConversationService(stores.Conversations, stores.Users, log)

	gin.SetMode(cfg.Mode)
	r := router.InitRouter(router.Deps{
		Auth:         handler.NewAuthHandler(auth, github, states, log),
		Post:         handler.NewPostHandler(posts, feed, log),
		Follow:       handler.NewFollowHandler(follows, log),
		User:         handler.NewUserHandler(users, log),
		Conversation: handler.NewConversationHandler(convs, log),
		Media:        handler.NewMediaHandler(media, cfg.MediaMaxBytes, log),
		Health: map[string]handler.Pinger{
			"store": stores.Ping,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		RequireLogin: middleware.AuthMiddleware(tokens, sessions, log),
		Log:          log,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", cfg.ServerAddr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped gracefully")
}
