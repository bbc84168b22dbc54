package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"Octo_Social/internal/pkg"
	"Octo_Social/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextUserIDKey = "user_id"

// SessionStore 当前有效 access token 的存储
type SessionStore interface {
	Get(ctx context.Context, userID string) (string, error)
	Extend(ctx context.Context, userID string) error
}

func AuthMiddleware(tokens *pkg.TokenIssuer, sessions SessionStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		// redis校验是否是当前有效的token
		current, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, redis.ErrTokenNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "session expired"})
				return
			}
			log.Error("session lookup failed", zap.String("user", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		}
		if current != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Account has been logging elsewhere"})
			return
		}

		// 校验通过后更新过期时间
		if err := sessions.Extend(c.Request.Context(), claims.UserID); err != nil {
			log.Warn("session extend failed", zap.String("user", claims.UserID), zap.Error(err))
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
