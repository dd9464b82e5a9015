package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/service"
)

// CommentHandler 封装评论相关的 HTTP 处理逻辑
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest 定义发表评论的请求结构体
type CreateCommentRequest struct {
	Description string `json:"description"`
}

// Create 处理 POST /issues/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateComment: Invalid input format")
		errorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := h.commentService.Create(c.Request.Context(), currentUser(c), issueID, req.Description); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete 处理 DELETE /issues/:id/comments/:cid
func (h *CommentHandler) Delete(c *gin.Context) {
	if _, ok := paramID(c, "id"); !ok {
		return
	}
	commentID, ok := paramID(c, "cid")
	if !ok {
		return
	}

	if _, err := h.commentService.Delete(c.Request.Context(), currentUser(c), commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
