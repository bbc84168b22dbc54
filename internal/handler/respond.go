package handler

import (
	"errors"
	"net/http"

	"Octo_Social/internal/middleware"
	"Octo_Social/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByCode = map[apperr.Code]int{
	apperr.CodeInvalidArgument:  http.StatusBadRequest,
	apperr.CodeNotFound:         http.StatusNotFound,
	apperr.CodeAlreadyExists:    http.StatusConflict,
	apperr.CodePermissionDenied: http.StatusForbidden,
	apperr.CodeUnauthenticated:  http.StatusUnauthorized,
}

// writeError 统一错误出口，内部错误只打日志不外露
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ae *apperr.AppError
	if errors.As(err, &ae) {
		if status, ok := statusByCode[ae.Code]; ok {
			c.JSON(status, gin.H{"msg": ae.Message})
			return
		}
	}
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
}

func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}
	return ""
}
