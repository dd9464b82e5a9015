package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tiny-issue-tracker/internal/domain"
)

// IssueRepository 是 repository.IssueRepository 的 mock
type IssueRepository struct {
	mock.Mock
}

func (m *IssueRepository) FindByID(ctx context.Context, id uint) (*domain.Issue, error) {
	args := m.Called(ctx, id)
	if i := args.Get(0); i != nil {
		return i.(*domain.Issue), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IssueRepository) Insert(ctx context.Context, issue *domain.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *IssueRepository) UpdateFields(ctx context.Context, id uint, title, description string) error {
	args := m.Called(ctx, id, title, description)
	return args.Error(0)
}

func (m *IssueRepository) UpdateStatus(ctx context.Context, id uint, status int) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *IssueRepository) UpdatePriority(ctx context.Context, id uint, priority int) error {
	args := m.Called(ctx, id, priority)
	return args.Error(0)
}

func (m *IssueRepository) UpdateWatchers(ctx context.Context, id uint, mutate func(domain.WatchList) domain.WatchList) error {
	args := m.Called(ctx, id, mutate)
	return args.Error(0)
}

func (m *IssueRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *IssueRepository) TitleByID(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *IssueRepository) ListSummaries(ctx context.Context, status int) ([]domain.IssueSummary, error) {
	args := m.Called(ctx, status)
	if s := args.Get(0); s != nil {
		return s.([]domain.IssueSummary), args.Error(1)
	}
	return nil, args.Error(1)
}
