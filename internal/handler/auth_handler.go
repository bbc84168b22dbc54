package handler

import (
	"context"
	"errors"
	"net/http"

	"Octo_Social/internal/pkg"
	"Octo_Social/internal/repository/redis"
	"Octo_Social/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GitHubAuthenticator GitHub OAuth 客户端
type GitHubAuthenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*pkg.GitHubProfile, error)
}

// StateStore OAuth state 一次性存储
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) error
}

type AuthHandler struct {
	auth   *service.AuthService
	github GitHubAuthenticator
	states StateStore
	log    *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, github GitHubAuthenticator, states StateStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, github: github, states: states, log: log}
}

// GitHubLogin 生成 state 后跳转到 GitHub 授权页
func (h *AuthHandler) GitHubLogin(c *gin.Context) {
	state := uuid.NewString()
	if err := h.states.Save(c.Request.Context(), state); err != nil {
		h.log.Error("save oauth state failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.Redirect(http.StatusFound, h.github.AuthCodeURL(state))
}

// GitHubCallback 校验 state，换取 GitHub 用户信息并登录
func (h *AuthHandler) GitHubCallback(c *gin.Context) {
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		badRequest(c, "missing state or code")
		return
	}
	if err := h.states.Consume(c.Request.Context(), state); err != nil {
		if errors.Is(err, redis.ErrStateNotFound) {
			badRequest(c, "invalid or expired state")
			return
		}
		writeError(c, h.log, err)
		return
	}

	profile, err := h.github.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn("github exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"msg": "github sign-in failed"})
		return
	}

	user, pair, err := h.auth.SignInWithGitHub(c.Request.Context(), *profile)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"AccessToken":  pair.AccessToken,
		"RefreshToken": pair.RefreshToken,
	})
}

// TokenRefresh 利用refresh来更新access
func (h *AuthHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"AccessToken": pair.AccessToken, "RefreshToken": pair.RefreshToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), userIDFromCtx(c)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
