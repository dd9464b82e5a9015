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

// IssueInput 是创建/编辑表单的原始输入。
type IssueInput struct {
	ID          uint // 0 表示创建，非 0 表示编辑
	Title       string
	Description string
	Priority    int // 只在创建时生效；编辑优先级必须走 ChangePriority
}

// IssueView 是单个问题页面的视图模型。
type IssueView struct {
	Issue    domain.Issue     `json:"issue"`
	Comments []domain.Comment `json:"comments"`
	Watching bool             `json:"watching"`
}

// IssueService 编排问题的创建、编辑、删除与状态/优先级流转，
// 执行授权规则并按配置触发通知。
type IssueService struct {
	issues   repository.IssueRepository
	comments repository.CommentRepository
	notifier *Notifier
	cfg      TrackerConfig
}

// NewIssueService 创建 IssueService 实例。
func NewIssueService(issues repository.IssueRepository, comments repository.CommentRepository, notifier *Notifier, cfg TrackerConfig) *IssueService {
	if issues == nil || comments == nil {
		panic("repositories cannot be nil for IssueService")
	}
	return &IssueService{issues: issues, comments: comments, notifier: notifier, cfg: cfg}
}

// CreateOrEdit 创建新问题（in.ID == 0）或更新已有问题的标题和描述。
// 标题去除空白后为空时拒绝整个提交，不产生任何变更和通知。
func (s *IssueService) CreateOrEdit(ctx context.Context, user *domain.User, in IssueInput) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "issue_id": in.ID})

	if strings.TrimSpace(in.Title) == "" {
		logCtx.Debug("IssueService: blank title, submission ignored")
		return OutcomeRejected, nil
	}

	if in.ID == 0 {
		return s.create(ctx, user, in, logCtx)
	}
	return s.edit(ctx, user, in, logCtx)
}

func (s *IssueService) create(ctx context.Context, user *domain.User, in IssueInput, logCtx *logrus.Entry) (Outcome, error) {
	issue := &domain.Issue{
		Title:        in.Title,
		Description:  in.Description,
		Creator:      user.Username,
		Status:       0,
		NotifyEmails: domain.NewWatchList(s.cfg.InitialWatchers...).Serialize(),
		EntryTime:    time.Now(),
	}
	if domain.ValidPriority(in.Priority) {
		p := in.Priority
		issue.Priority = &p
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		logCtx.WithError(err).Error("IssueService: failed to create issue")
		return OutcomeRejected, ErrInternalServer
	}

	if s.cfg.NotifyIssueCreate {
		s.notifier.Notify(issue, s.cfg.subject("New Issue Created"),
			fmt.Sprintf("New Issue Created by %s\r\nTitle: %s\r\nURL: %s",
				user.Username, issue.Title, s.cfg.issueURL(issue.ID)))
	}

	logCtx.WithField("issue_id", issue.ID).Info("IssueService: issue created")
	return OutcomeApplied, nil
}

func (s *IssueService) edit(ctx context.Context, user *domain.User, in IssueInput, logCtx *logrus.Entry) (Outcome, error) {
	if err := s.issues.UpdateFields(ctx, in.ID, in.Title, in.Description); err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("IssueService: failed to edit issue")
		return OutcomeRejected, ErrInternalServer
	}

	if s.cfg.NotifyIssueEdit {
		if issue, err := s.issues.FindByID(ctx, in.ID); err == nil {
			s.notifier.Notify(issue, s.cfg.subject("Issue Edited"),
				fmt.Sprintf("Issue edited by %s\r\nTitle: %s\r\nURL: %s",
					user.Username, issue.Title, s.cfg.issueURL(issue.ID)))
		}
	}

	logCtx.Info("IssueService: issue edited")
	return OutcomeApplied, nil
}

// Delete 删除问题及其全部评论。只有管理员或创建者可以删除，
// 其他用户的请求静默不生效，也不触发通知。
func (s *IssueService) Delete(ctx context.Context, user *domain.User, id uint) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "issue_id": id})

	// 先取出整条记录：授权要看创建者，通知要用删除前的标题和观察者
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("IssueService: failed to load issue before delete")
		return OutcomeNotFound, ErrInternalServer
	}

	if !user.IsAdmin && user.Username != issue.Creator {
		logCtx.Warn("IssueService: delete denied")
		return OutcomeDenied, nil
	}

	if err := s.issues.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("IssueService: failed to delete issue")
		return OutcomeDenied, ErrInternalServer
	}

	if s.cfg.NotifyIssueDelete {
		s.notifier.Notify(issue, s.cfg.subject("Issue Deleted"),
			fmt.Sprintf("Issue deleted by %s\r\nTitle: %s", user.Username, issue.Title))
	}

	logCtx.Info("IssueService: issue deleted")
	return OutcomeApplied, nil
}

// ChangeStatus 流转问题状态。任何已登录用户都可以流转。
func (s *IssueService) ChangeStatus(ctx context.Context, user *domain.User, id uint, status int) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "issue_id": id, "status": status})

	if err := s.issues.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("IssueService: failed to change status")
		return OutcomeRejected, ErrInternalServer
	}

	if s.cfg.NotifyIssueStatus {
		if issue, err := s.issues.FindByID(ctx, id); err == nil {
			label := s.cfg.StatusLabel(status)
			s.notifier.Notify(issue, s.cfg.subject("Issue Marked as "+label),
				fmt.Sprintf("Issue marked as %s by %s\r\nTitle: %s\r\nURL: %s",
					label, user.Username, issue.Title, s.cfg.issueURL(issue.ID)))
		}
	}

	logCtx.Info("IssueService: status changed")
	return OutcomeApplied, nil
}

// ChangePriority 修改问题优先级。越界取值静默忽略，也不触发通知。
func (s *IssueService) ChangePriority(ctx context.Context, user *domain.User, id uint, priority int) (Outcome, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": user.Username, "issue_id": id, "priority": priority})

	if !domain.ValidPriority(priority) {
		logCtx.Debug("IssueService: priority out of range, ignored")
		return OutcomeRejected, nil
	}

	if err := s.issues.UpdatePriority(ctx, id, priority); err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logCtx.WithError(err).Error("IssueService: failed to change priority")
		return OutcomeRejected, ErrInternalServer
	}

	if s.cfg.NotifyIssuePriority {
		if issue, err := s.issues.FindByID(ctx, id); err == nil {
			s.notifier.Notify(issue, s.cfg.subject("Issue Priority Changed"),
				fmt.Sprintf("Issue Priority changed by %s\r\nTitle: %s\r\nURL: %s",
					user.Username, issue.Title, s.cfg.issueURL(issue.ID)))
		}
	}

	logCtx.Info("IssueService: priority changed")
	return OutcomeApplied, nil
}

// SetWatch 把当前用户的邮箱加入或移出问题的观察者集合。
// 没有配置邮箱的用户无法观察，请求静默不生效。
func (s *IssueService) SetWatch(ctx context.Context, user *domain.User, id uint, watching bool) (Outcome, error) {
	if user.Email == "" {
		return OutcomeRejected, nil
	}

	err := s.issues.UpdateWatchers(ctx, id, func(w domain.WatchList) domain.WatchList {
		if watching {
			return w.Add(user.Email)
		}
		return w.Remove(user.Email)
	})
	if err != nil {
		if errors.Is(err, repository.ErrIssueNotFound) {
			return OutcomeNotFound, nil
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"username": user.Username, "issue_id": id, "watching": watching,
		}).Error("IssueService: failed to update watchers")
		return OutcomeRejected, ErrInternalServer
	}
	return OutcomeApplied, nil
}

// Get 返回单个问题的视图模型：问题本体、按时间升序的评论，
// 以及当前用户是否在观察者列表里。
func (s *IssueService) Get(ctx context.Context, user *domain.User, id uint) (*IssueView, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.comments.ListByIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	watching := user.Email != "" && issue.Watchers().Contains(user.Email)
	return &IssueView{Issue: *issue, Comments: list, Watching: watching}, nil
}

// List 返回指定状态的列表视图。
func (s *IssueService) List(ctx context.Context, status int) ([]domain.IssueSummary, error) {
	return s.issues.ListSummaries(ctx, status)
}
