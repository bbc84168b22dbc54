package handler

import (
	"net/http"

	"Octo_Social/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConversationHandler struct {
	svc *service.ConversationService
	log *zap.Logger
}

func NewConversationHandler(svc *service.ConversationService, log *zap.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, log: log}
}

type startConversationReq struct {
	UserID string `json:"userId" binding:"required"`
}

type sendMessageReq struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Content        string `json:"content"`
}

// List 我的会话列表
func (h *ConversationHandler) List(c *gin.Context) {
	list, err := h.svc.ListConversations(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Start 找到或创建与 userId 的会话
func (h *ConversationHandler) Start(c *gin.Context) {
	var req startConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "userId is required")
		return
	}
	conv, err := h.svc.GetOrCreate(c.Request.Context(), userIDFromCtx(c), req.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conv.ID})
}

// ListMessages 会话消息
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	msgs, err := h.svc.ListMessages(c.Request.Context(), userIDFromCtx(c), c.Query("conversationId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendMessage 发消息
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "conversationId is required")
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), userIDFromCtx(c), req.ConversationID, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
