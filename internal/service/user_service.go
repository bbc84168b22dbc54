package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg"
	"Octo_Social/internal/pkg/apperr"
	"Octo_Social/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchLimit     = 5
	maxListLimit    = 100
	ProviderGitHub  = "github"
	accountTypeAuth = "oauth"
)

type UserService struct {
	users   UserStore
	follows FollowStore
	posts   PostStore
	agg     *CommentAggregator
	log     *zap.Logger
	now     func() time.Time
}

// Profile 个人主页
type Profile struct {
	User        model.User   `json:"user"`
	Posts       []model.Post `json:"posts"`
	IsFollowing bool         `json:"isFollowing"`
}

func NewUserService(users UserStore, follows FollowStore, posts PostStore, comments CommentStore, log *zap.Logger) *UserService {
	return &UserService{
		users:   users,
		follows: follows,
		posts:   posts,
		agg:     NewCommentAggregator(comments),
		log:     log.With(zap.String("module", "user")),
		now:     time.Now,
	}
}

// SearchUsers 用户名模糊搜索，最多 5 条，排除自己
func (s *UserService) SearchUsers(ctx context.Context, viewerID, query string) ([]model.User, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.User{}, nil
	}
	users, err := s.users.Search(ctx, query, viewerID, searchLimit)
	if err != nil {
		return nil, apperr.Internal("failed to search users", err)
	}
	return nonNil(users), nil
}

// ListOtherUsers 除自己以外的用户
func (s *UserService) ListOtherUsers(ctx context.Context, viewerID string, limit int) ([]model.User, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	users, err := s.users.ListExcept(ctx, viewerID, limit)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return nonNil(users), nil
}

// GetProfile 用户主页：资料、帖子(带评论)、是否已关注
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID string) (*Profile, error) {
	if viewerID == "" {
		return nil, apperr.Unauthenticated("login required")
	}
	if targetID == "" {
		return nil, apperr.InvalidArg("userId is required")
	}
	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	posts, err := s.posts.List(ctx, repository.PostQuery{AuthorIDs: []string{targetID}})
	if err != nil {
		return nil, apperr.Internal("failed to list posts", err)
	}
	if err := s.agg.Attach(ctx, posts); err != nil {
		return nil, apperr.Internal("failed to load comments", err)
	}
	following, err := s.follows.Exists(ctx, viewerID, targetID)
	if err != nil {
		return nil, apperr.Internal("failed to check follow", err)
	}
	return &Profile{User: *user, Posts: nonNil(posts), IsFollowing: following}, nil
}

// UpsertGitHubUser GitHub 登录回调：按账号或邮箱找到用户，更新头像，不存在则创建并绑定账号
func (s *UserService) UpsertGitHubUser(ctx context.Context, gh pkg.GitHubProfile) (*model.User, error) {
	if gh.ID == 0 {
		return nil, apperr.InvalidArg("github id is required")
	}
	accountID := strconv.FormatInt(gh.ID, 10)
	email := strings.TrimSpace(gh.Email)
	if email == "" {
		email = fmt.Sprintf("github-%d", gh.ID)
	}

	user, err := s.findGitHubUser(ctx, accountID, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.createGitHubUser(ctx, gh, email)
		if err != nil {
			return nil, err
		}
	} else if gh.AvatarURL != "" && user.Image != gh.AvatarURL {
		if err := s.users.UpdateImage(ctx, user.ID, gh.AvatarURL); err != nil {
			return nil, apperr.Internal("failed to update avatar", err)
		}
		user.Image = gh.AvatarURL
	}

	if err := s.ensureAccount(ctx, user.ID, accountID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) findGitHubUser(ctx context.Context, accountID, email string) (*model.User, error) {
	acc, err := s.users.FindAccount(ctx, ProviderGitHub, accountID)
	switch {
	case err == nil:
		user, err := s.users.FindByID(ctx, acc.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("failed to load user", err)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperr.Internal("failed to load account", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return nil, apperr.Internal("failed to load user", err)
}

func (s *UserService) createGitHubUser(ctx context.Context, gh pkg.GitHubProfile, email string) (*model.User, error) {
	// 用户名被其他邮箱占用时退回 login-<githubID>
	candidates := []string{fmt.Sprintf("github-%d", gh.ID)}
	if login := strings.TrimSpace(gh.Login); login != "" {
		candidates = []string{login, fmt.Sprintf("%s-%d", login, gh.ID)}
	}
	for _, username := range candidates {
		user := &model.User{
			ID:        uuid.NewString(),
			Username:  username,
			Email:     email,
			Image:     gh.AvatarURL,
			CreatedAt: s.now(),
		}
		user.UpdatedAt = user.CreatedAt
		err := s.users.Create(ctx, user)
		if err == nil {
			s.log.Info("user created", zap.String("user", user.ID), zap.String("provider", ProviderGitHub))
			return user, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Internal("failed to create user", err)
		}
		// 并发登录时另一请求已建好用户
		existing, ferr := s.users.FindByEmail(ctx, email)
		if ferr == nil {
			return existing, nil
		}
		if !errors.Is(ferr, repository.ErrNotFound) {
			return nil, apperr.Internal("failed to load user", ferr)
		}
	}
	return nil, apperr.AlreadyExists("username already taken")
}

func (s *UserService) ensureAccount(ctx context.Context, userID, accountID string) error {
	_, err := s.users.FindAccount(ctx, ProviderGitHub, accountID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal("failed to load account", err)
	}
	acc := &model.Account{
		ID:                uuid.NewString(),
		UserID:            userID,
		Type:              accountTypeAuth,
		Provider:          ProviderGitHub,
		ProviderAccountID: accountID,
		CreatedAt:         s.now(),
	}
	if err := s.users.CreateAccount(ctx, acc); err != nil && !errors.Is(err, repository.ErrConflict) {
		return apperr.Internal("failed to link account", err)
	}
	return nil
}
