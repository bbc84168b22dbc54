// Package memory 内存版存储，与 mysql 实现同一组接口，同样维护唯一约束。
// 用于本地无数据库运行和测试替身。
package memory

import (
	"encoding/json"
	"sync"
	"time"

	"Octo_Social/internal/model"
)

type DB struct {
	mu sync.RWMutex

	users    []model.User
	accounts []model.Account
	follows  []model.Follow
	posts    []model.Post
	comments []model.Comment

	conversations []model.Conversation
	participants  []model.ConversationParticipant
	messages      []model.Message

	outbox   []model.SocialOutbox
	outboxID uint64
}

func New() *DB {
	return &DB{}
}

func (d *DB) Users() *UserRepository { return &UserRepository{db: d} }

func (d *DB) Follows() *FollowRepository { return &FollowRepository{db: d} }

func (d *DB) Posts() *PostRepository { return &PostRepository{db: d} }

func (d *DB) Comments() *CommentRepository { return &CommentRepository{db: d} }

func (d *DB) Conversations() *ConversationRepository { return &ConversationRepository{db: d} }

func (d *DB) Outbox() *OutboxRepository { return &OutboxRepository{db: d} }

// 调用方需持有写锁
func (d *DB) appendOutbox(event, actorID, subjectID string, extra map[string]any) {
	d.outboxID++
	now := time.Now()
	body := map[string]any{
		"event_time": now.UTC().Format(time.RFC3339Nano),
		"actor_id":   actorID,
		"subject_id": subjectID,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	d.outbox = append(d.outbox, model.SocialOutbox{
		ID:        d.outboxID,
		EventType: event,
		ActorID:   actorID,
		SubjectID: subjectID,
		Payload:   string(payload),
		Status:    model.OutboxPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// 调用方需持有读锁
func (d *DB) userByID(id string) (model.User, bool) {
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
