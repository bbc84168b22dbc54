package service

import (
	"context"
	"errors"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg"
	"Octo_Social/internal/pkg/apperr"
	"Octo_Social/internal/repository"

	"go.uber.org/zap"
)

// SessionStore 登录态存储（redis）
type SessionStore interface {
	Save(ctx context.Context, userID, token string) error
	Get(ctx context.Context, userID string) (string, error)
	Extend(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
}

type AuthService struct {
	users    *UserService
	store    UserStore
	tokens   *pkg.TokenIssuer
	sessions SessionStore
	log      *zap.Logger
}

func NewAuthService(users *UserService, store UserStore, tokens *pkg.TokenIssuer, sessions SessionStore, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		store:    store,
		tokens:   tokens,
		sessions: sessions,
		log:      log.With(zap.String("module", "auth")),
	}
}

// SignInWithGitHub 登录并签发 token，access token 写入 redis
func (s *AuthService) SignInWithGitHub(ctx context.Context, gh pkg.GitHubProfile) (*model.User, *pkg.Pair, error) {
	user, err := s.users.UpsertGitHubUser(ctx, gh)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh 利用 refresh token 换新的一对 token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	if refreshToken == "" {
		return nil, apperr.InvalidArg("refreshToken is required")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthenticated(err.Error())
	}
	if _, err := s.store.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthenticated("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return s.issue(ctx, claims.UserID)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Unauthenticated("login required")
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return apperr.Internal("logout failed", err)
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID string) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(userID)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	if err := s.sessions.Save(ctx, userID, pair.AccessToken); err != nil {
		return nil, apperr.Internal("failed to save session", err)
	}
	return pair, nil
}
