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

type FollowService struct {
	follows   FollowStore
	users     UserStore
	allowSelf bool
	log       *zap.Logger
	now       func() time.Time
}

type FollowOptions struct {
	// AllowSelf 为 false 时拒绝关注自己
	AllowSelf bool
}

func NewFollowService(follows FollowStore, users UserStore, opts FollowOptions, log *zap.Logger) *FollowService {
	return &FollowService{
		follows:   follows,
		users:     users,
		allowSelf: opts.AllowSelf,
		log:       log.With(zap.String("module", "follow")),
		now:       time.Now,
	}
}

// Follow 关注（幂等），已关注时直接返回已有关系
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	if followerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return nil, apperr.InvalidArg("followingId is required")
	}
	if followerID == followingID && !s.allowSelf {
		return nil, apperr.InvalidArg("cannot follow self")
	}
	if _, err := s.users.FindByID(ctx, followingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	existing, err := s.follows.Find(ctx, followerID, followingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to load follow", err)
	}

	rel := &model.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.now(),
	}
	if err := s.follows.Create(ctx, rel); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Internal("failed to follow", err)
		}
		// 并发下另一请求先写入，读回已有关系
		existing, err = s.follows.Find(ctx, followerID, followingID)
		if err != nil {
			return nil, apperr.Internal("failed to load follow", err)
		}
		return existing, nil
	}
	s.log.Debug("followed", zap.String("follower", followerID), zap.String("following", followingID))
	return rel, nil
}

// Unfollow 取消关注，关系不存在视为成功
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return apperr.Unauthenticated("login required")
	}
	followingID = strings.TrimSpace(followingID)
	if followingID == "" {
		return apperr.InvalidArg("followingId is required")
	}
	if err := s.follows.Delete(ctx, followerID, followingID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal("failed to unfollow", err)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" {
		return false, apperr.Unauthenticated("login required")
	}
	if followingID == "" {
		return false, apperr.InvalidArg("userId is required")
	}
	ok, err := s.follows.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, apperr.Internal("failed to check follow", err)
	}
	return ok, nil
}

// ListFollowers 粉丝列表
func (s *FollowService) ListFollowers(ctx context.Context, userID string) ([]model.User, error) {
	if userID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}
	users, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list followers", err)
	}
	return nonNil(users), nil
}

// ListFollowing 关注列表
func (s *FollowService) ListFollowing(ctx context.Context, userID string) ([]model.User, error) {
	if userID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}
	users, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list following", err)
	}
	return nonNil(users), nil
}

// nonNil 保证 JSON 输出为 [] 而不是 null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
