// Package mail 实现通往邮件传输协作方的边界。
package mail

import (
	"gopkg.in/gomail.v2"
)

// SMTPMailer 通过 SMTP 发送通知邮件。
// 投递是一次性的：不重试、不确认送达，调用方决定如何处理失败。
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPMailer 创建 SMTPMailer 实例。
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password}
}

// Send 把一封纯文本邮件投递给全部收件人。
func (m *SMTPMailer) Send(to []string, subject, body, from string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return dialer.DialAndSend(msg)
}
