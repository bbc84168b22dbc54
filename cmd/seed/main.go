package main

import (
	"context"
	"time"

	"Octo_Social/internal/bootstrap"
	"Octo_Social/internal/config"
	"Octo_Social/internal/pkg"
	"Octo_Social/internal/service"

	"go.uber.org/zap"
)

// 本地联调用的测试账号
var testUser = pkg.GitHubProfile{
	ID:        123456789,
	Login:     "testuser",
	Email:     "test@example.com",
	AvatarURL: "https://avatars.githubusercontent.com/u/123456789",
}

func main() {
	cfg := config.Load()
	log, err := pkg.NewLogger(cfg.LogLevel, true)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.StoreDriver == bootstrap.DriverMemory {
		log.Fatal("seeding the in-memory store has no effect, set STORE_DRIVER=mysql")
	}
	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer func() { _ = stores.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(stores.Users, stores.Follows, stores.Posts, stores.Comments, log)
	u, err := users.UpsertGitHubUser(ctx, testUser)
	if err != nil {
		log.Fatal("seed test user failed", zap.Error(err))
	}
	log.Info("test user ready", zap.String("id", u.ID), zap.String("username", u.Username))
}
