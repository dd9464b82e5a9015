package repository

import (
	"context"

	"tiny-issue-tracker/internal/domain"
)

// CommentRepository 定义评论数据的存储和检索操作。
type CommentRepository interface {
	// ListByIssue 返回某个问题的全部评论，按创建时间升序。
	ListByIssue(ctx context.Context, issueID uint) ([]domain.Comment, error)

	// Insert 创建新评论并回填自增 ID。
	Insert(ctx context.Context, comment *domain.Comment) error

	// Delete 删除单条评论，目标不存在时返回 ErrCommentNotFound。
	Delete(ctx context.Context, id uint) error

	// AuthorByID 返回评论者用户名，用于删除前的授权检查。
	AuthorByID(ctx context.Context, id uint) (string, error)
}
