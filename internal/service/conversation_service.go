package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg/apperr"
	"Octo_Social/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConversationService 私信会话，同一对用户只有一个会话
type ConversationService struct {
	convs ConversationStore
	users UserStore
	log   *zap.Logger
	now   func() time.Time
}

func NewConversationService(convs ConversationStore, users UserStore, log *zap.Logger) *ConversationService {
	return &ConversationService{
		convs: convs,
		users: users,
		log:   log.With(zap.String("module", "conversation")),
		now:   time.Now,
	}
}

// GetOrCreate 查找或创建两人会话，pair_key 唯一约束兜底并发创建
func (s *ConversationService) GetOrCreate(ctx context.Context, viewerID, otherID string) (*model.Conversation, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}
	if otherID == viewerID {
		return nil, apperr.InvalidArg("cannot start a conversation with yourself")
	}

	key := model.PairKey(viewerID, otherID)
	conv, err := s.convs.FindByPair(ctx, key)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to load conversation", err)
	}

	viewer, err := s.loadUser(ctx, viewerID, apperr.Unauthenticated("user not found"))
	if err != nil {
		return nil, err
	}
	other, err := s.loadUser(ctx, otherID, apperr.NotFound("user not found"))
	if err != nil {
		return nil, err
	}

	now := s.now()
	conv = &model.Conversation{
		ID:           uuid.NewString(),
		PairKey:      key,
		CreatedAt:    now,
		UpdatedAt:    now,
		Participants: []model.User{*viewer, *other},
		Messages:     []model.Message{},
	}
	if err := s.convs.Create(ctx, conv); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Internal("failed to create conversation", err)
		}
		existing, err := s.convs.FindByPair(ctx, key)
		if err != nil {
			return nil, apperr.Internal("failed to load conversation", err)
		}
		return existing, nil
	}
	s.log.Debug("conversation created", zap.String("conversation", conv.ID))
	return conv, nil
}

// SendMessage 发送消息，发送者必须是会话成员
func (s *ConversationService) SendMessage(ctx context.Context, viewerID, conversationID, content string) (*model.Message, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	content = strings.TrimSpace(content)
	if conversationID == "" || content == "" {
		return nil, apperr.InvalidArg("conversationId and content are required")
	}
	if err := s.checkMember(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	sender, err := s.loadUser(ctx, viewerID, apperr.Unauthenticated("user not found"))
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       viewerID,
		Content:        content,
		CreatedAt:      s.now(),
	}
	if err := s.convs.AppendMessage(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("conversation not found")
		}
		return nil, apperr.Internal("failed to send message", err)
	}
	msg.Sender = *sender
	return msg, nil
}

// ListConversations 会话列表，最近活跃在前，带最新一条消息
func (s *ConversationService) ListConversations(ctx context.Context, viewerID string) ([]model.Conversation, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	list, err := s.convs.ListByUser(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal("failed to list conversations", err)
	}
	for i := range list {
		list[i].Messages = nonNil(list[i].Messages)
	}
	return nonNil(list), nil
}

// ListMessages 会话消息，按时间正序
func (s *ConversationService) ListMessages(ctx context.Context, viewerID, conversationID string) ([]model.Message, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	if conversationID == "" {
		return nil, apperr.InvalidArg("conversationId is required")
	}
	if err := s.checkMember(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	list, err := s.convs.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, apperr.Internal("failed to list messages", err)
	}
	return nonNil(list), nil
}

func (s *ConversationService) checkMember(ctx context.Context, conversationID, userID string) error {
	if _, err := s.convs.FindByID(ctx, conversationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("conversation not found")
		}
		return apperr.Internal("failed to load conversation", err)
	}
	ok, err := s.convs.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return apperr.Internal("failed to check membership", err)
	}
	if !ok {
		return apperr.Forbidden("not a participant of this conversation")
	}
	return nil
}

func (s *ConversationService) loadUser(ctx context.Context, id string, notFound error) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}
