package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/repository"
)

// listSummariesSQL 是列表视图的查询：每个问题关联其最新一条评论的
// 作者和时间。状态过滤一次只匹配一个状态码；状态码 0 额外匹配
// 存为 NULL 的旧数据。NULL 优先级排在所有非 NULL 取值之后。
const listSummariesSQL = `
SELECT issues.id, issues.title, issues.description, issues.user, issues.status,
       issues.priority, issues.notify_emails, issues.entrytime,
       c.user AS comment_user, c.entrytime AS comment_time
  FROM issues
  LEFT JOIN (SELECT issue_id, MAX(entrytime) AS max_time
               FROM comments GROUP BY issue_id) latest
         ON latest.issue_id = issues.id
  LEFT JOIN comments c
         ON c.issue_id = issues.id AND c.entrytime = latest.max_time
 WHERE (issues.status = ? OR (? = 0 AND issues.status IS NULL))
 ORDER BY issues.priority IS NULL, issues.priority, issues.entrytime DESC`

// GormIssueRepository 是 IssueRepository 接口的 GORM 实现
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository 创建 GormIssueRepository 实例
func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	if db == nil {
		panic("database connection cannot be nil for GormIssueRepository")
	}
	return &GormIssueRepository{db: db}
}

// FindByID 实现根据 ID 查找问题
func (r *GormIssueRepository) FindByID(ctx context.Context, id uint) (*domain.Issue, error) {
	var issue domain.Issue
	err := r.db.WithContext(ctx).First(&issue, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIssueNotFound
		}
		return nil, fmt.Errorf("gorm: find issue by id %d: %w", id, err)
	}
	return &issue, nil
}

// Insert 实现创建新问题
func (r *GormIssueRepository) Insert(ctx context.Context, issue *domain.Issue) error {
	if err := r.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("gorm: insert issue (title: %s): %w", issue.Title, err)
	}
	return nil
}

// updateColumns 在单个事务内先确认目标存在再更新指定列。
// MySQL 对无变化的 UPDATE 也报告零行受影响，不能用 RowsAffected
// 区分"没变化"和"不存在"，所以这里显式读一次。
func (r *GormIssueRepository) updateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue domain.Issue
		if err := tx.Select("id").First(&issue, id).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Issue{}).Where("id = ?", id).Updates(values).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrIssueNotFound
		}
		return fmt.Errorf("gorm: update issue %d: %w", id, err)
	}
	return nil
}

// UpdateFields 实现只更新标题和描述
func (r *GormIssueRepository) UpdateFields(ctx context.Context, id uint, title, description string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"title":       title,
		"description": description,
	})
}

// UpdateStatus 实现更新状态码
func (r *GormIssueRepository) UpdateStatus(ctx context.Context, id uint, status int) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"status": status})
}

// UpdatePriority 实现更新优先级
func (r *GormIssueRepository) UpdatePriority(ctx context.Context, id uint, priority int) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"priority": priority})
}

// UpdateWatchers 实现观察者集合的事务内读改写
func (r *GormIssueRepository) UpdateWatchers(ctx context.Context, id uint, mutate func(domain.WatchList) domain.WatchList) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue domain.Issue
		if err := tx.First(&issue, id).Error; err != nil {
			return err
		}
		serialized := mutate(issue.Watchers()).Serialize()
		return tx.Model(&domain.Issue{}).Where("id = ?", id).
			Update("notify_emails", serialized).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrIssueNotFound
		}
		return fmt.Errorf("gorm: update watchers of issue %d: %w", id, err)
	}
	return nil
}

// Delete 实现级联删除：同一事务里先删评论再删问题，不留孤儿行
func (r *GormIssueRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue domain.Issue
		if err := tx.Select("id").First(&issue, id).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Issue{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrIssueNotFound
		}
		return fmt.Errorf("gorm: delete issue %d: %w", id, err)
	}
	return nil
}

// TitleByID 实现返回问题标题
func (r *GormIssueRepository) TitleByID(ctx context.Context, id uint) (string, error) {
	var issue domain.Issue
	err := r.db.WithContext(ctx).Select("title").First(&issue, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrIssueNotFound
		}
		return "", fmt.Errorf("gorm: find title of issue %d: %w", id, err)
	}
	return issue.Title, nil
}

// ListSummaries 实现列表视图查询
func (r *GormIssueRepository) ListSummaries(ctx context.Context, status int) ([]domain.IssueSummary, error) {
	var rows []domain.IssueSummary
	err := r.db.WithContext(ctx).Raw(listSummariesSQL, status, status).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list issues with status %d: %w", status, err)
	}
	return rows, nil
}
