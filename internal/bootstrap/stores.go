// Package bootstrap 按配置组装存储层，api 与 seed 共用
package bootstrap

import (
	"context"
	"fmt"

	"Octo_Social/internal/config"
	"Octo_Social/internal/repository/memory"
	"Octo_Social/internal/repository/mysql"
	"Octo_Social/internal/service"

	"go.uber.org/zap"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Stores struct {
	Users         service.UserStore
	Follows       service.FollowStore
	Posts         service.PostStore
	Comments      service.CommentStore
	Conversations service.ConversationStore
	Outbox        service.OutboxStore

	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStores mysql 模式下按需执行迁移；memory 模式用于本地体验
func OpenStores(cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		db := memory.New()
		return &Stores{
			Users:         db.Users(),
			Follows:       db.Follows(),
			Posts:         db.Posts(),
			Comments:      db.Comments(),
			Conversations: db.Conversations(),
			Outbox:        db.Outbox(),
			Ping:          func(context.Context) error { return nil },
			Close:         func() error { return nil },
		}, nil
	case DriverMySQL, "":
		db, err := mysql.Open(mysql.Options{
			DSN:             cfg.MySQLDSN,
			MaxOpenConns:    cfg.MySQLMaxOpen,
			MaxIdleConns:    cfg.MySQLMaxIdle,
			ConnMaxLifetime: cfg.MySQLConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		if cfg.DBMigrate {
			if err := mysql.Migrate(db); err != nil {
				return nil, err
			}
			log.Info("database migrated")
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Stores{
			Users:         mysql.NewUserRepository(db),
			Follows:       mysql.NewFollowRepository(db),
			Posts:         mysql.NewPostRepository(db),
			Comments:      mysql.NewCommentRepository(db),
			Conversations: mysql.NewConversationRepository(db),
			Outbox:        mysql.NewOutboxRepository(db),
			Ping:          func(ctx context.Context) error { return mysql.Ping(ctx, db) },
			Close:         sqlDB.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
