package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tiny-issue-tracker/internal/domain"
)

// CommentRepository 是 repository.CommentRepository 的 mock
type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) ListByIssue(ctx context.Context, issueID uint) ([]domain.Comment, error) {
	args := m.Called(ctx, issueID)
	if c := args.Get(0); c != nil {
		return c.([]domain.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CommentRepository) Insert(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CommentRepository) AuthorByID(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
