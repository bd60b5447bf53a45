package middleware

import (
	"context"
	"errors"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenResolver 把 Bearer token 解析为本地用户
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, "Invalid auth header")
			c.Abort()
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, util.ErrUserNotFound):
				util.Error(c, http.StatusUnauthorized, "User not found")
			case errors.Is(err, util.ErrInvalidToken):
				util.Error(c, http.StatusUnauthorized, "Invalid token")
			default:
				logger.Log.Error("Failed to resolve token", zap.Error(err))
				util.Error(c, http.StatusUnauthorized, "Invalid token")
			}
			c.Abort()
			return
		}

		util.SetCurrentUser(c, user)
		c.Next()
	}
}

// TryAuthMiddleware 可选认证：token 有效时设置当前用户，否则按游客继续
func TryAuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := resolver.ResolveToken(c.Request.Context(), token); err == nil {
				util.SetCurrentUser(c, user)
			}
		}
		c.Next()
	}
}
