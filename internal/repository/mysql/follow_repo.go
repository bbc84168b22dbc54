package mysql

import (
	"context"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{DB: db}
}

// Find 按 (follower, following) 查询关注关系
func (r *FollowRepository) Find(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	var rel model.Follow
	if err := r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&rel).Error; err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

// Create 新建关注关系并写 outbox，重复键返回 ErrConflict
func (r *FollowRepository) Create(ctx context.Context, follow *model.Follow) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(follow).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventFollow, follow.FollowerID, follow.FollowingID, nil)
	})
	return translate(err)
}

// Delete 删除关注关系，不存在时返回 ErrNotFound
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return insertOutbox(tx, model.EventUnfollow, followerID, followingID, nil)
	})
	return translate(err)
}

// Exists 判断是否关注
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// FollowingIDs 获取用户关注的所有人 id
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, translate(err)
}

// ListFollowers 获取粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.following_id = ?", userID).
		Order("f.created_at ASC").
		Find(&users).Error
	return users, translate(err)
}

// ListFollowing 获取关注列表
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows f ON f.following_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at ASC").
		Find(&users).Error
	return users, translate(err)
}
