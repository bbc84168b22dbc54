package handler

import (
	"net/http"
	"strconv"

	"Octo_Social/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Search 按用户名搜索
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.svc.SearchUsers(c.Request.Context(), userIDFromCtx(c), c.Query("query"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// List 其他用户列表
func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	users, err := h.svc.ListOtherUsers(c.Request.Context(), userIDFromCtx(c), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Profile 用户主页
func (h *UserHandler) Profile(c *gin.Context) {
	target := c.Query("userId")
	if target == "" {
		badRequest(c, "userId is required")
		return
	}
	prof, err := h.svc.GetProfile(c.Request.Context(), userIDFromCtx(c), target)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, prof)
}
