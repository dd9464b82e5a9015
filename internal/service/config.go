package service

import (
	"fmt"
	"strconv"
)

// TrackerConfig 聚合核心业务逻辑需要的部署配置。
type TrackerConfig struct {
	ProjectTitle string // 通知主题的前缀
	BaseURL      string // 通知正文里的问题链接前缀

	// 状态码到显示名的映射，由部署配置决定（如 0:Active, 1:Resolved）
	StatusLabels map[int]string

	// 新问题的初始观察者列表（历史行为：全部已配置用户的邮箱）
	InitialWatchers []string

	// 按事件开关通知
	NotifyIssueCreate   bool
	NotifyIssueEdit     bool
	NotifyIssueDelete   bool
	NotifyIssueStatus   bool
	NotifyIssuePriority bool
	NotifyCommentCreate bool
}

// StatusLabel 返回状态码的显示名，未配置的码退回到数字本身。
func (c TrackerConfig) StatusLabel(code int) string {
	if label, ok := c.StatusLabels[code]; ok {
		return label
	}
	return strconv.Itoa(code)
}

// subject 给通知主题加上项目标题前缀。
func (c TrackerConfig) subject(s string) string {
	return "[" + c.ProjectTitle + "] " + s
}

// issueURL 返回某个问题的访问链接。
func (c TrackerConfig) issueURL(id uint) string {
	return fmt.Sprintf("%s?id=%d", c.BaseURL, id)
}
