// Package middleware 提供 gin 中间件。
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/repository"
)

// UserKey 是解析后的用户在 gin Context 里的键。
const UserKey = "user"

// ErrMissingAuthHeader 表示缺少 Authorization 头
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// Auth 返回一个 gin 中间件：验证 JWT token，把它解析成完整的
// domain.User 放进 Context。核心服务只消费这个已认证的用户值，
// 不接触任何会话状态。
func Auth(jwtSecret string, users repository.UserRepository) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}
	if users == nil {
		panic("UserRepository cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: missing or malformed token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// JWT 数字默认解析为 float64，需要安全转换为 uint
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
			logrus.Error("Auth middleware: 'user_id' claim missing or invalid")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), uint(userIDFloat))
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				logrus.WithField("user_id", uint(userIDFloat)).Warn("Auth middleware: token user no longer exists")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			} else {
				logrus.WithError(err).Error("Auth middleware: failed to load user")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not resolve user"})
			}
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		logrus.WithField("username", user.Username).Debug("Auth middleware: user authenticated")
		c.Next()
	}
}

// extractToken 从请求头提取 Bearer Token
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

// validateToken 解析并验证 JWT token 字符串
func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}
