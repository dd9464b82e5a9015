package repository

import (
	"context"

	"tiny-issue-tracker/internal/domain"
)

// IssueRepository 定义问题数据的存储和检索操作。
// 按 id 的变更在目标不存在时返回 ErrIssueNotFound，由上层
// 决定如何静默降级；除此之外变更要么完整生效要么完全不生效。
type IssueRepository interface {
	// FindByID 根据 ID 查找问题。
	FindByID(ctx context.Context, id uint) (*domain.Issue, error)

	// Insert 创建新问题并回填自增 ID。
	Insert(ctx context.Context, issue *domain.Issue) error

	// UpdateFields 只更新标题和描述。
	UpdateFields(ctx context.Context, id uint, title, description string) error

	// UpdateStatus 更新状态码。
	UpdateStatus(ctx context.Context, id uint, status int) error

	// UpdatePriority 更新优先级，取值校验由上层负责。
	UpdatePriority(ctx context.Context, id uint, priority int) error

	// UpdateWatchers 在单个事务内读出观察者集合、应用 mutate、写回，
	// 避免并发读改写丢失更新。
	UpdateWatchers(ctx context.Context, id uint, mutate func(domain.WatchList) domain.WatchList) error

	// Delete 在单个事务内删除问题及其全部评论。
	Delete(ctx context.Context, id uint) error

	// TitleByID 返回问题标题。
	TitleByID(ctx context.Context, id uint) (string, error)

	// ListSummaries 返回指定状态的列表视图。状态码 0 同时匹配
	// 历史遗留的 NULL 状态行；排序为优先级升序（NULL 排最后）、
	// 同优先级按创建时间降序。
	ListSummaries(ctx context.Context, status int) ([]domain.IssueSummary, error)
}
