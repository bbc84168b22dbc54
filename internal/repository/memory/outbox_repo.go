package memory

import (
	"context"
	"time"

	"Octo_Social/internal/model"
)

type OutboxRepository struct {
	db *DB
}

func (r *OutboxRepository) ListPending(_ context.Context, batchSize int) ([]model.SocialOutbox, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.SocialOutbox
	for _, ob := range r.db.outbox {
		if ob.Status != model.OutboxPending {
			continue
		}
		out = append(out, ob)
		if batchSize > 0 && len(out) == batchSize {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkRetry(_ context.Context, id uint64, maxRetry int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.outbox {
		if r.db.outbox[i].ID == id {
			ob := &r.db.outbox[i]
			ob.Retry++
			if ob.Retry >= maxRetry {
				ob.Status = model.OutboxFailed
			}
			ob.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *OutboxRepository) MarkSent(_ context.Context, id uint64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.outbox {
		if r.db.outbox[i].ID == id {
			r.db.outbox[i].Status = model.OutboxSent
			r.db.outbox[i].UpdatedAt = time.Now()
		}
	}
	return nil
}

// Events 返回所有事件快照
func (r *OutboxRepository) Events() []model.SocialOutbox {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]model.SocialOutbox, len(r.db.outbox))
	copy(out, r.db.outbox)
	return out
}
