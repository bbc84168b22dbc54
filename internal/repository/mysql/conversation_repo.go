package mysql

import (
	"context"

	"Octo_Social/internal/model"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// FindByPair 按归一化的用户对查询会话
func (r *ConversationRepository) FindByPair(ctx context.Context, pairKey string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.DB.WithContext(ctx).
		Preload("Participants").
		Where("pair_key = ?", pairKey).
		First(&conv).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.DB.WithContext(ctx).
		Preload("Participants").
		Where("id = ?", id).
		First(&conv).Error; err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

// Create 同一事务内创建会话和成员，pair_key 冲突返回 ErrConflict
func (r *ConversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants", "Messages").Create(conv).Error; err != nil {
			return err
		}
		members := make([]model.ConversationParticipant, 0, len(conv.Participants))
		for _, p := range conv.Participants {
			members = append(members, model.ConversationParticipant{ConversationID: conv.ID, UserID: p.ID})
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventConversationCreated, members[0].UserID, conv.ID, nil)
	})
	return translate(err)
}

// IsParticipant 判断用户是否属于会话
func (r *ConversationRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// AppendMessage 写消息并刷新会话 updated_at，二者同一事务
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender").Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			UpdateColumn("updated_at", msg.CreatedAt).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventMessageSent, msg.SenderID, msg.ConversationID,
			map[string]any{"message_id": msg.ID})
	})
	return translate(err)
}

// ListByUser 用户的会话列表，按最近更新倒序，每个会话只带最新一条消息
func (r *ConversationRepository) ListByUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	var list []model.Conversation
	if err := r.DB.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	if len(list) == 0 {
		return list, nil
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	latest, err := r.latestMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if m, ok := latest[list[i].ID]; ok {
			list[i].Messages = []model.Message{m}
		}
	}
	return list, nil
}

// latestMessages 一次查询取多个会话各自的最新消息（MySQL 8 窗口函数）
func (r *ConversationRepository) latestMessages(ctx context.Context, conversationIDs []string) (map[string]model.Message, error) {
	ranked := r.DB.WithContext(ctx).
		Model(&model.Message{}).
		Select("messages.*, ROW_NUMBER() OVER (PARTITION BY conversation_id ORDER BY created_at DESC, id DESC) AS rn").
		Where("conversation_id IN ?", conversationIDs)
	var last []model.Message
	if err := r.DB.WithContext(ctx).
		Preload("Sender").
		Table("(?) AS latest", ranked).
		Where("rn = 1").
		Find(&last).Error; err != nil {
		return nil, translate(err)
	}
	out := make(map[string]model.Message, len(last))
	for _, m := range last {
		out[m.ConversationID] = m
	}
	return out, nil
}

// ListMessages 会话内消息，按时间正序
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var list []model.Message
	err := r.DB.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, translate(err)
}
