package handler

import (
	"net/http"

	"Octo_Social/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowHandler struct {
	svc *service.FollowService
	log *zap.Logger
}

func NewFollowHandler(svc *service.FollowService, log *zap.Logger) *FollowHandler {
	return &FollowHandler{svc: svc, log: log}
}

type followReq struct {
	FollowingID string `json:"followingId" binding:"required"`
}

// Follow 关注接口，重复关注返回已有关系
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "followingId is required")
		return
	}
	rel, err := h.svc.Follow(c.Request.Context(), userIDFromCtx(c), req.FollowingID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

// Unfollow 取消关注，未关注也视为成功
func (h *FollowHandler) Unfollow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "followingId is required")
		return
	}
	if err := h.svc.Unfollow(c.Request.Context(), userIDFromCtx(c), req.FollowingID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "unfollowed"})
}

// IsFollowing 当前用户是否关注了 userId
func (h *FollowHandler) IsFollowing(c *gin.Context) {
	target := c.Query("userId")
	if target == "" {
		badRequest(c, "userId is required")
		return
	}
	ok, err := h.svc.IsFollowing(c.Request.Context(), userIDFromCtx(c), target)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": ok})
}

// ListFollowers 粉丝列表
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	users, err := h.svc.ListFollowers(c.Request.Context(), c.Query("userId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListFollowing 关注列表
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	users, err := h.svc.ListFollowing(c.Request.Context(), c.Query("userId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
