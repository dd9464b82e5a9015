package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/repository"
	"tiny-issue-tracker/internal/service"
)

// IssueHandler 封装问题相关的 HTTP 处理逻辑。
// 变更类端点不区分"生效"和"静默不生效"，一律返回 204，
// 保持旧版"重定向且无反馈"的外部契约。
type IssueHandler struct {
	issueService *service.IssueService
	statuses     map[int]string
}

// NewIssueHandler 创建 IssueHandler 实例
func NewIssueHandler(issueService *service.IssueService, statuses map[int]string) *IssueHandler {
	return &IssueHandler{issueService: issueService, statuses: statuses}
}

// SaveIssueRequest 定义创建/编辑问题的请求结构体
type SaveIssueRequest struct {
	ID          uint   `json:"id"` // 0 或缺省表示创建
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// List 处理 GET /issues?status=N
func (h *IssueHandler) List(c *gin.Context) {
	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))

	summaries, err := h.issueService.List(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "issues": summaries})
}

// Get 处理 GET /issues/:id
func (h *IssueHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.issueService.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			errorResponse(c, http.StatusNotFound, "issue not found")
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save 处理 POST /issues（按 id 是否存在决定创建或编辑）
func (h *IssueHandler) Save(c *gin.Context) {
	var req SaveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.SaveIssue: Invalid input format")
		errorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	_, err := h.issueService.CreateOrEdit(c.Request.Context(), currentUser(c), service.IssueInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete 处理 DELETE /issues/:id
func (h *IssueHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, err := h.issueService.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatusRequest 定义状态流转的请求结构体
type ChangeStatusRequest struct {
	Status int `json:"status"`
}

// ChangeStatus 处理 POST /issues/:id/status
func (h *IssueHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := h.issueService.ChangeStatus(c.Request.Context(), currentUser(c), id, req.Status); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePriorityRequest 定义优先级调整的请求结构体
type ChangePriorityRequest struct {
	Priority int `json:"priority"`
}

// ChangePriority 处理 POST /issues/:id/priority
func (h *IssueHandler) ChangePriority(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ChangePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := h.issueService.ChangePriority(c.Request.Context(), currentUser(c), id, req.Priority); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetWatchRequest 定义观察开关的请求结构体
type SetWatchRequest struct {
	Watching *bool `json:"watching" binding:"required"`
}

// SetWatch 处理 POST /issues/:id/watch
func (h *IssueHandler) SetWatch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SetWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if _, err := h.issueService.SetWatch(c.Request.Context(), currentUser(c), id, *req.Watching); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Statuses 处理 GET /statuses，返回部署配置的状态码映射
func (h *IssueHandler) Statuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"statuses": h.statuses})
}

// paramID 解析路径参数里的数字 id，非法时直接响应 400。
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
