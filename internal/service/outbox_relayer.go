package service

import (
	"context"
	"time"

	"Octo_Social/internal/model"

	"go.uber.org/zap"
)

// Sender 事件投递函数，生产环境为 kafka producer
type Sender func(ctx context.Context, ob *model.SocialOutbox) error

type RelayerOptions struct {
	BatchSize int
	Interval  time.Duration
	MaxRetry  int
}

// OutboxRelayer 从 outbox 表读取待投递事件异步交给 kafka
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	interval  time.Duration
	maxRetry  int
	sender    Sender
	log       *zap.Logger
}

func NewOutboxRelayer(repo OutboxStore, sender Sender, opts RelayerOptions, log *zap.Logger) *OutboxRelayer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxRetry <= 0 {
		opts.MaxRetry = 5
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: opts.BatchSize,
		interval:  opts.Interval,
		maxRetry:  opts.MaxRetry,
		sender:    sender,
		log:       log.With(zap.String("module", "outbox")),
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		r.log.Error("outbox query failed", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed", zap.Uint64("id", ob.ID), zap.String("event", ob.EventType), zap.Error(err))
			if err := r.repo.MarkRetry(ctx, ob.ID, r.maxRetry); err != nil {
				r.log.Error("outbox retry update failed", zap.Uint64("id", ob.ID), zap.Error(err))
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.log.Error("outbox sent update failed", zap.Uint64("id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// EventProducer kafka 生产者
type EventProducer interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// KafkaSender 以主体 id 作为分区 key，事件类型放在 header
func KafkaSender(p EventProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Send(ctx, ob.SubjectID, []byte(ob.Payload), map[string]string{"event_type": ob.EventType})
	}
}

// LogSender 未配置 kafka 时使用，只打日志
func LogSender(log *zap.Logger) Sender {
	return func(_ context.Context, ob *model.SocialOutbox) error {
		log.Info("outbox event",
			zap.String("event", ob.EventType),
			zap.String("actor", ob.ActorID),
			zap.String("subject", ob.SubjectID),
			zap.String("payload", ob.Payload))
		return nil
	}
}
