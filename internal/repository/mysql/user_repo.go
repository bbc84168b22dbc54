package mysql

import (
	"context"
	"strings"

	"Octo_Social/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateImage 更新头像
func (r *UserRepository) UpdateImage(ctx context.Context, id, image string) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("image", image)
	return translate(res.Error)
}

// Search 用户名模糊搜索（不区分大小写），排除自己
func (r *UserRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.DB.WithContext(ctx).
		Where("LOWER(username) LIKE ? AND id <> ?", pattern, excludeID).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}

// ListExcept 除自己以外的用户列表
func (r *UserRepository) ListExcept(ctx context.Context, excludeID string, limit int) ([]model.User, error) {
	var users []model.User
	q := r.DB.WithContext(ctx).Where("id <> ?", excludeID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&users).Error
	return users, translate(err)
}

func (r *UserRepository) FindAccount(ctx context.Context, provider, providerAccountID string) (*model.Account, error) {
	var acc model.Account
	if err := r.DB.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&acc).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *UserRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	return translate(r.DB.WithContext(ctx).Create(account).Error)
}

// escapeLike 转义 LIKE 通配符，让 % _ \ 按字面匹配
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
