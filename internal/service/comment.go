package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/repository"
)

// CommentService 编排评论的创建和删除。
type CommentService struct {
	comments repository.CommentRepository
	issues   repository.IssueRepository
	notifier *Notifier
	cfg      TrackerConfig
}

// NewCommentService 创建 CommentService 实例。
func NewCommentService(comments repository.CommentRepository, issues repository.IssueRepository, notifier *Notifier, cfg TrackerConfig) *CommentService {
	if comments == nil || issues == nil {
		panic("repositories cannot be nil for CommentService")
	}
	return &CommentService{comments: comments, issues: issues, notifier: notifier, cfg: cfg}
}

// Create 在指定问题下新建评论。
// 描述去除空白后为空时拒绝；问题不存在时不产生孤儿评论。
// 通知发给评论所在问题的观察者，链接指向这条评论的问题。
func (s *CommentService) Create(ctx context.Context, user *domain.User, issueID uint, description string) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "issue_id": issueID})

	if strings.TrimSpace(description) == "" {
		logCtx.Debug("CommentService: blank description, submission ignored")
		return OutcomeRejected, nil
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("CommentService: failed to load parent issue")
		return OutcomeNotFound, ErrInternalServer
	}

	comment := &domain.Comment{
		IssueID:     issueID,
		Author:      user.Username,
		Description: description,
		EntryTime:   time.Now(),
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		logCtx.WithError(err).Error("CommentService: failed to create comment")
		return OutcomeRejected, ErrInternalServer
	}

	if s.cfg.NotifyCommentCreate {
		s.notifier.Notify(issue, s.cfg.subject("New Comment Posted"),
			fmt.Sprintf("New comment posted by %s\r\nTitle: %s\r\nURL: %s",
				user.Username, issue.Title, s.cfg.issueURL(issueID)))
	}

	logCtx.WithField("comment_id", comment.ID).Info("CommentService: comment created")
	return OutcomeApplied, nil
}

// Delete 删除单条评论。只有评论者本人或管理员可以删除，
// 其他用户的请求静默不生效。
func (s *CommentService) Delete(ctx context.Context, user *domain.User, commentID uint) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "comment_id": commentID})

	author, err := s.comments.AuthorByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("CommentService: failed to load comment author")
		return OutcomeNotFound, ErrInternalServer
	}

	if !user.IsAdmin && user.Username != author {
		logCtx.Warn("CommentService: delete denied")
		return OutcomeDenied, nil
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("CommentService: failed to delete comment")
		return OutcomeDenied, ErrInternalServer
	}

	logCtx.Info("CommentService: comment deleted")
	return OutcomeApplied, nil
}
