package service

import (
	"context"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"
)

// 以下接口由 repository/mysql 与 repository/memory 实现

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateImage(ctx context.Context, id, image string) error
	Search(ctx context.Context, query, excludeID string, limit int) ([]model.User, error)
	ListExcept(ctx context.Context, excludeID string, limit int) ([]model.User, error)
	FindAccount(ctx context.Context, provider, providerAccountID string) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) error
}

type FollowStore interface {
	Find(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	Create(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowers(ctx context.Context, userID string) ([]model.User, error)
	ListFollowing(ctx context.Context, userID string) ([]model.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, q repository.PostQuery) ([]model.Post, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPosts(ctx context.Context, postIDs []string) ([]model.Comment, error)
}

type ConversationStore interface {
	FindByPair(ctx context.Context, pairKey string) (*model.Conversation, error)
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	AppendMessage(ctx context.Context, msg *model.Message) error
	ListByUser(ctx context.Context, userID string) ([]model.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
}

type OutboxStore interface {
	ListPending(ctx context.Context, batchSize int) ([]model.SocialOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkRetry(ctx context.Context, id uint64, maxRetry int) error
}
