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

type PostService struct {
	posts    PostStore
	comments CommentStore
	users    UserStore
	log      *zap.Logger
	now      func() time.Time
}

// CommentAggregator 为帖子挂载评论，评论按时间正序
type CommentAggregator struct {
	comments CommentStore
}

type AddCommentInput struct {
	PostID   string
	Content  string
	ImageURL string
	VoiceURL string
}

func NewCommentAggregator(comments CommentStore) *CommentAggregator {
	return &CommentAggregator{comments: comments}
}

func NewPostService(posts PostStore, comments CommentStore, users UserStore, log *zap.Logger) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		users:    users,
		log:      log.With(zap.String("module", "post")),
		now:      time.Now,
	}
}

// Attach 一次批量查询所有帖子的评论并按帖子分组
func (a *CommentAggregator) Attach(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	list, err := a.comments.ListByPosts(ctx, ids)
	if err != nil {
		return err
	}
	byPost := make(map[string][]model.Comment, len(posts))
	for _, c := range list {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		posts[i].Comments = nonNil(byPost[posts[i].ID])
	}
	return nil
}

// CreatePost 发帖
func (s *PostService) CreatePost(ctx context.Context, authorID, content string) (*model.Post, error) {
	if authorID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArg("content is required")
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated("user not found")
		}
		return nil, apperr.Internal("failed to load author", err)
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Internal("failed to create post", err)
	}
	s.log.Debug("post created", zap.String("post", post.ID), zap.String("author", authorID))
	post.Author = *author
	post.Comments = []model.Comment{}
	return post, nil
}

// AddComment 评论，文字、图片、语音至少有一项
func (s *PostService) AddComment(ctx context.Context, authorID string, in AddCommentInput) (*model.Comment, error) {
	if authorID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	in.PostID = strings.TrimSpace(in.PostID)
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.VoiceURL = strings.TrimSpace(in.VoiceURL)
	if in.PostID == "" {
		return nil, apperr.InvalidArg("postId is required")
	}
	if in.Content == "" && in.ImageURL == "" && in.VoiceURL == "" {
		return nil, apperr.InvalidArg("content or media is required")
	}
	if _, err := s.posts.FindByID(ctx, in.PostID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("failed to load post", err)
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated("user not found")
		}
		return nil, apperr.Internal("failed to load author", err)
	}

	comment := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    in.PostID,
		AuthorID:  authorID,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		VoiceURL:  in.VoiceURL,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.Internal("failed to create comment", err)
	}
	comment.Author = *author
	return comment, nil
}

// ListComments 单个帖子的评论
func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if postID == "" {
		return nil, apperr.InvalidArg("postId is required")
	}
	list, err := s.comments.ListByPosts(ctx, []string{postID})
	if err != nil {
		return nil, apperr.Internal("failed to list comments", err)
	}
	return nonNil(list), nil
}
