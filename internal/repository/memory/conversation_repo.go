package memory

import (
	"context"
	"sort"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"
)

type ConversationRepository struct {
	db *DB
}

// 调用方需持有读锁
func (r *ConversationRepository) hydrate(c model.Conversation) model.Conversation {
	c.Participants = nil
	c.Messages = nil
	for _, p := range r.db.participants {
		if p.ConversationID == c.ID {
			if u, ok := r.db.userByID(p.UserID); ok {
				c.Participants = append(c.Participants, u)
			}
		}
	}
	return c
}

func (r *ConversationRepository) FindByPair(_ context.Context, pairKey string) (*model.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.conversations {
		if c.PairKey == pairKey {
			out := r.hydrate(c)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ConversationRepository) FindByID(_ context.Context, id string) (*model.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.conversations {
		if c.ID == id {
			out := r.hydrate(c)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *ConversationRepository) Create(_ context.Context, conv *model.Conversation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.conversations {
		if c.ID == conv.ID || c.PairKey == conv.PairKey {
			return repository.ErrConflict
		}
	}
	stamp(&conv.CreatedAt)
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}
	stored := *conv
	stored.Participants = nil
	stored.Messages = nil
	r.db.conversations = append(r.db.conversations, stored)
	for _, p := range conv.Participants {
		r.db.participants = append(r.db.participants, model.ConversationParticipant{ConversationID: conv.ID, UserID: p.ID})
	}
	actor := ""
	if len(conv.Participants) > 0 {
		actor = conv.Participants[0].ID
	}
	r.db.appendOutbox(model.EventConversationCreated, actor, conv.ID, nil)
	return nil
}

func (r *ConversationRepository) IsParticipant(_ context.Context, conversationID, userID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.participants {
		if p.ConversationID == conversationID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ConversationRepository) AppendMessage(_ context.Context, msg *model.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	idx := -1
	for i, c := range r.db.conversations {
		if c.ID == msg.ConversationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}
	stamp(&msg.CreatedAt)
	stored := *msg
	stored.Sender = model.User{}
	r.db.messages = append(r.db.messages, stored)
	r.db.conversations[idx].UpdatedAt = msg.CreatedAt
	r.db.appendOutbox(model.EventMessageSent, msg.SenderID, msg.ConversationID,
		map[string]any{"message_id": msg.ID})
	return nil
}

func (r *ConversationRepository) ListByUser(_ context.Context, userID string) ([]model.Conversation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.Conversation
	for _, c := range r.db.conversations {
		conv := r.hydrate(c)
		if !conv.HasParticipant(userID) {
			continue
		}
		var last *model.Message
		for i := range r.db.messages {
			m := r.db.messages[i]
			if m.ConversationID == c.ID && (last == nil || newerMessage(m, *last)) {
				last = &m
			}
		}
		if last != nil {
			last.Sender, _ = r.db.userByID(last.SenderID)
			conv.Messages = []model.Message{*last}
		}
		out = append(out, conv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ConversationRepository) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []model.Message
	for _, m := range r.db.messages {
		if m.ConversationID == conversationID {
			m.Sender, _ = r.db.userByID(m.SenderID)
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// newerMessage 与 mysql 排序一致：created_at 倒序，相同时 id 倒序
func newerMessage(a, b model.Message) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
