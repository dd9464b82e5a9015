package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/repository"
)

// GormCommentRepository 是 CommentRepository 接口的 GORM 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository 创建 GormCommentRepository 实例
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCommentRepository")
	}
	return &GormCommentRepository{db: db}
}

// ListByIssue 实现按创建时间升序列出某个问题的评论
func (r *GormCommentRepository) ListByIssue(ctx context.Context, issueID uint) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("entrytime ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments of issue %d: %w", issueID, err)
	}
	return comments, nil
}

// Insert 实现创建新评论
func (r *GormCommentRepository) Insert(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("gorm: insert comment on issue %d: %w", comment.IssueID, err)
	}
	return nil
}

// Delete 实现删除单条评论
func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete comment %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}
	return nil
}

// AuthorByID 实现返回评论者用户名
func (r *GormCommentRepository) AuthorByID(ctx context.Context, id uint) (string, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Select("user").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrCommentNotFound
		}
		return "", fmt.Errorf("gorm: find author of comment %d: %w", id, err)
	}
	return comment.Author, nil
}
