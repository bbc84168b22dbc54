package service

import (
	"context"
	"time"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg/apperr"
	"Octo_Social/internal/repository"

	"go.uber.org/zap"
)

type FeedMode string

const (
	FeedHome    FeedMode = "home"
	FeedExplore FeedMode = "explore"
)

const maxFeedLimit = 100

type FeedQuery struct {
	Mode            FeedMode
	IncludeComments bool
	// Limit 为 0 表示不分页
	Limit  int
	Before time.Time
	// BeforeID 与 Before 组成游标，同一时间的帖子按 id 继续翻页
	BeforeID string
}

type FeedOptions struct {
	// IncludeSelf 首页是否包含自己的帖子
	IncludeSelf bool
}

// FeedService 实时计算信息流，只读
type FeedService struct {
	follows     FollowStore
	posts       PostStore
	agg         *CommentAggregator
	includeSelf bool
	log         *zap.Logger
}

func NewFeedService(follows FollowStore, posts PostStore, comments CommentStore, opts FeedOptions, log *zap.Logger) *FeedService {
	return &FeedService{
		follows:     follows,
		posts:       posts,
		agg:         NewCommentAggregator(comments),
		includeSelf: opts.IncludeSelf,
		log:         log.With(zap.String("module", "feed")),
	}
}

// ComposeFeed home: 关注的人(+自己)的帖子；explore: 全站帖子。均按时间倒序
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID string, q FeedQuery) ([]model.Post, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	if q.Limit < 0 {
		return nil, apperr.InvalidArg("limit out of range")
	}
	if q.Limit > maxFeedLimit {
		q.Limit = maxFeedLimit
	}
	if q.BeforeID != "" && q.Before.IsZero() {
		return nil, apperr.InvalidArg("beforeId requires before")
	}
	pq := repository.PostQuery{Before: q.Before, BeforeID: q.BeforeID, Limit: q.Limit}

	switch q.Mode {
	case FeedExplore:
	case FeedHome, "":
		authors, err := s.homeAuthors(ctx, viewerID)
		if err != nil {
			return nil, apperr.Internal("failed to load following", err)
		}
		if len(authors) == 0 {
			return []model.Post{}, nil
		}
		pq.AuthorIDs = authors
	default:
		return nil, apperr.InvalidArg("mode must be home or explore")
	}

	posts, err := s.posts.List(ctx, pq)
	if err != nil {
		return nil, apperr.Internal("failed to list posts", err)
	}
	if q.IncludeComments {
		if err := s.agg.Attach(ctx, posts); err != nil {
			return nil, apperr.Internal("failed to load comments", err)
		}
	}
	return nonNil(posts), nil
}

func (s *FeedService) homeAuthors(ctx context.Context, viewerID string) ([]string, error) {
	ids, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(ids)+1)
	out := make([]string, 0, len(ids)+1)
	if s.includeSelf {
		seen[viewerID] = struct{}{}
		out = append(out, viewerID)
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
