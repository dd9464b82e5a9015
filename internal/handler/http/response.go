// Package http 提供薄薄的一层 gin 处理器：绑定输入、调用服务、
// 渲染 JSON 视图模型。所有业务规则都在 service 层。
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/middleware"
	"tiny-issue-tracker/internal/repository"
	"tiny-issue-tracker/internal/service"
)

// errorResponse 输出统一的错误 JSON。
func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// handleServiceError 把服务层错误映射为 HTTP 状态码。
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		errorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "not found")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		errorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// currentUser 取出认证中间件放进 Context 的用户。
func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(middleware.UserKey).(*domain.User)
}
