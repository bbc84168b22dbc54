package mysql

import (
	"context"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

type CommentRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// Create 发帖并写 outbox
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Comments").Create(post).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventPostCreated, post.AuthorID, post.ID, nil)
	})
	return translate(err)
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.DB.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// List 按 (created_at, id) 倒序查询帖子，Before 非零时作为游标
func (r *PostRepository) List(ctx context.Context, q repository.PostQuery) ([]model.Post, error) {
	var list []model.Post
	tx := r.DB.WithContext(ctx).Preload("Author")
	if len(q.AuthorIDs) > 0 {
		tx = tx.Where("author_id IN ?", q.AuthorIDs)
	}
	switch {
	case !q.Before.IsZero() && q.BeforeID != "":
		tx = tx.Where("created_at < ? OR (created_at = ? AND id < ?)", q.Before, q.Before, q.BeforeID)
	case !q.Before.IsZero():
		tx = tx.Where("created_at < ?", q.Before)
	}
	tx = tx.Order("created_at DESC, id DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	err := tx.Find(&list).Error
	return list, translate(err)
}

// Create 发表评论并写 outbox
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventCommentCreated, comment.AuthorID, comment.PostID,
			map[string]any{"comment_id": comment.ID})
	})
	return translate(err)
}

// ListByPosts 批量获取多个帖子的评论，按时间正序
func (r *CommentRepository) ListByPosts(ctx context.Context, postIDs []string) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id IN ?", postIDs).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, translate(err)
}
