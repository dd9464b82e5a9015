package gormpersistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tiny-issue-tracker/internal/domain"
	gormpersistence "tiny-issue-tracker/internal/infra/persistence/gorm"
	"tiny-issue-tracker/internal/infra/setup"
	"tiny-issue-tracker/internal/repository"
)

// newTestDB 在临时目录里建一个 SQLite 库并跑完整迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := setup.InitDB("sqlite", filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	return db
}

func intPtr(v int) *int { return &v }

func insertIssue(t *testing.T, db *gorm.DB, issue *domain.Issue) *domain.Issue {
	t.Helper()
	require.NoError(t, db.Create(issue).Error)
	return issue
}

func TestGormIssueRepository_InsertAndFindByID(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	issue := &domain.Issue{
		Title: "Bug A", Description: "desc", Creator: "alice",
		Priority: intPtr(domain.PriorityHigh), NotifyEmails: "a@x.com",
		EntryTime: time.Now(),
	}
	require.NoError(t, repo.Insert(ctx, issue))
	require.NotZero(t, issue.ID)

	got, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bug A", got.Title)
	assert.Equal(t, "alice", got.Creator)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.PriorityHigh, *got.Priority)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrIssueNotFound)
}

func TestGormIssueRepository_UpdatesOnMissingIssue(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateFields(ctx, 9999, "t", "d"), repository.ErrIssueNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, 1), repository.ErrIssueNotFound)
	assert.ErrorIs(t, repo.UpdatePriority(ctx, 9999, 1), repository.ErrIssueNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 9999), repository.ErrIssueNotFound)
	err := repo.UpdateWatchers(ctx, 9999, func(w domain.WatchList) domain.WatchList { return w })
	assert.ErrorIs(t, err, repository.ErrIssueNotFound)
}

func TestGormIssueRepository_UpdateFieldsChangesNothingElse(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	issue := insertIssue(t, db, &domain.Issue{
		Title: "old", Description: "old desc", Creator: "alice",
		Priority: intPtr(domain.PriorityLow), NotifyEmails: "a@x.com", EntryTime: time.Now(),
	})

	require.NoError(t, repo.UpdateFields(ctx, issue.ID, "new", "new desc"))

	got, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "new desc", got.Description)
	assert.Equal(t, "alice", got.Creator)
	require.NotNil(t, got.Priority)
	assert.Equal(t, domain.PriorityLow, *got.Priority)
	assert.Equal(t, "a@x.com", got.NotifyEmails)
}

func TestGormIssueRepository_UpdateWatchersReadModifyWrite(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	issue := insertIssue(t, db, &domain.Issue{
		Title: "Bug", NotifyEmails: "a@x.com,b@x.com", EntryTime: time.Now(),
	})

	err := repo.UpdateWatchers(ctx, issue.ID, func(w domain.WatchList) domain.WatchList {
		return w.Add("c@x.com").Remove("a@x.com")
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com,c@x.com", got.NotifyEmails)
}

func TestGormIssueRepository_DeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	issues := gormpersistence.NewGormIssueRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	issue := insertIssue(t, db, &domain.Issue{Title: "Bug", EntryTime: time.Now()})
	other := insertIssue(t, db, &domain.Issue{Title: "Other", EntryTime: time.Now()})

	require.NoError(t, comments.Insert(ctx, &domain.Comment{IssueID: issue.ID, Author: "bob", Description: "c1", EntryTime: time.Now()}))
	require.NoError(t, comments.Insert(ctx, &domain.Comment{IssueID: issue.ID, Author: "bob", Description: "c2", EntryTime: time.Now()}))
	kept := &domain.Comment{IssueID: other.ID, Author: "bob", Description: "keep", EntryTime: time.Now()}
	require.NoError(t, comments.Insert(ctx, kept))

	require.NoError(t, issues.Delete(ctx, issue.ID))

	// 被删问题的评论全部清掉，其它问题的评论不受影响
	var count int64
	require.NoError(t, db.Model(&domain.Comment{}).Where("issue_id = ?", issue.ID).Count(&count).Error)
	assert.Zero(t, count)
	list, err := comments.ListByIssue(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = issues.FindByID(ctx, issue.ID)
	assert.ErrorIs(t, err, repository.ErrIssueNotFound)
}

func TestGormIssueRepository_ListSummariesOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// 无优先级的排在所有有优先级的后面；同优先级按创建时间倒序
	noPriority := insertIssue(t, db, &domain.Issue{Title: "no priority", EntryTime: base.Add(3 * time.Hour)})
	highOld := insertIssue(t, db, &domain.Issue{Title: "high old", Priority: intPtr(domain.PriorityHigh), EntryTime: base})
	highNew := insertIssue(t, db, &domain.Issue{Title: "high new", Priority: intPtr(domain.PriorityHigh), EntryTime: base.Add(time.Hour)})
	low := insertIssue(t, db, &domain.Issue{Title: "low", Priority: intPtr(domain.PriorityLow), EntryTime: base})
	// 已解决的问题不出现在状态 0 的列表里
	insertIssue(t, db, &domain.Issue{Title: "resolved", Status: 1, EntryTime: base})

	rows, err := repo.ListSummaries(ctx, 0)
	require.NoError(t, err)

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	assert.Equal(t, []uint{highNew.ID, highOld.ID, low.ID, noPriority.ID}, ids)
}

func TestGormIssueRepository_ListSummariesTreatsNullStatusAsOpen(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormIssueRepository(db)
	ctx := context.Background()

	// 旧数据里 status 可能是 NULL，模型插不出来，用原生 SQL 造
	require.NoError(t, db.Exec(
		`INSERT INTO issues (title, description, user, status, priority, notify_emails, entrytime)
		 VALUES ('legacy', '', 'alice', NULL, NULL, '', ?)`, time.Now()).Error)
	insertIssue(t, db, &domain.Issue{Title: "open", EntryTime: time.Now()})
	insertIssue(t, db, &domain.Issue{Title: "resolved", Status: 1, EntryTime: time.Now()})

	open, err := repo.ListSummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)

	// 按非 0 状态过滤时，NULL 行不再出现
	resolved, err := repo.ListSummaries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "resolved", resolved[0].Title)
}

func TestGormIssueRepository_ListSummariesLatestComment(t *testing.T) {
	db := newTestDB(t)
	issues := gormpersistence.NewGormIssueRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	commented := insertIssue(t, db, &domain.Issue{Title: "commented", EntryTime: base})
	bare := insertIssue(t, db, &domain.Issue{Title: "bare", EntryTime: base.Add(time.Hour)})

	require.NoError(t, comments.Insert(ctx, &domain.Comment{IssueID: commented.ID, Author: "alice", Description: "first", EntryTime: base.Add(time.Minute)}))
	require.NoError(t, comments.Insert(ctx, &domain.Comment{IssueID: commented.ID, Author: "bob", Description: "second", EntryTime: base.Add(2 * time.Minute)}))

	rows, err := issues.ListSummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uint]domain.IssueSummary{}
	for _, row := range rows {
		byID[row.ID] = row
	}

	withComment := byID[commented.ID]
	require.NotNil(t, withComment.CommentUser)
	assert.Equal(t, "bob", *withComment.CommentUser)
	require.NotNil(t, withComment.CommentTime)

	noComment := byID[bare.ID]
	assert.Nil(t, noComment.CommentUser)
	assert.Nil(t, noComment.CommentTime)
}

func TestGormCommentRepository_ListOrderAndDelete(t *testing.T) {
	db := newTestDB(t)
	_ = gormpersistence.NewGormIssueRepository(db)
	comments := gormpersistence.NewGormCommentRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	issue := insertIssue(t, db, &domain.Issue{Title: "Bug", EntryTime: base})

	second := &domain.Comment{IssueID: issue.ID, Author: "bob", Description: "second", EntryTime: base.Add(time.Minute)}
	require.NoError(t, comments.Insert(ctx, second))
	require.NoError(t, comments.Insert(ctx, &domain.Comment{IssueID: issue.ID, Author: "alice", Description: "first", EntryTime: base}))

	list, err := comments.ListByIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Description)
	assert.Equal(t, "second", list[1].Description)

	author, err := comments.AuthorByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", author)

	require.NoError(t, comments.Delete(ctx, second.ID))
	assert.ErrorIs(t, comments.Delete(ctx, second.ID), repository.ErrCommentNotFound)
	_, err = comments.AuthorByID(ctx, second.ID)
	assert.ErrorIs(t, err, repository.ErrCommentNotFound)
}

func TestGormUserRepository_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, users.Insert(ctx, &domain.User{Username: "alice", PasswordHash: "x"}))
	err := users.Insert(ctx, &domain.User{Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	got, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
