package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/domain"
)

// Mailer 定义邮件传输协作方的边界。投递与重试是实现的职责。
type Mailer interface {
	Send(to []string, subject, body, from string) error
}

// Notifier 把事件通知递交给邮件传输。
// 发送是有界的 fire-and-forget：异步执行、超时放弃、不重试，
// 失败只记录日志，绝不影响主变更的成功。
type Notifier struct {
	mailer  Mailer
	from    string
	timeout time.Duration
}

// NewNotifier 创建 Notifier 实例。timeout 限制单次投递的等待时长。
func NewNotifier(mailer Mailer, from string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{mailer: mailer, from: from, timeout: timeout}
}

// Notify 向问题当前的观察者列表发送一封通知邮件。
// 观察者列表为空时什么都不做。
func (n *Notifier) Notify(issue *domain.Issue, subject, body string) {
	if n == nil || n.mailer == nil || issue == nil {
		return
	}
	watchers := issue.Watchers()
	if len(watchers) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"issue_id":   issue.ID,
		"subject":    subject,
		"recipients": len(watchers),
	})

	go func() {
		done := make(chan error, 1)
		go func() {
			done <- n.mailer.Send(watchers, subject, body, n.from)
		}()
		select {
		case err := <-done:
			if err != nil {
				logCtx.WithError(err).Warn("Notifier: mail transport failed")
				return
			}
			logCtx.Debug("Notifier: mail handed off")
		case <-time.After(n.timeout):
			logCtx.Warn("Notifier: mail transport timed out")
		}
	}()
}
