package domain

import "time"

// 优先级取值，1 最高 3 最低。
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// ValidPriority 报告 p 是否是允许的优先级取值。
func ValidPriority(p int) bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// Issue 表示一个可追踪的问题。
// 列名沿用旧版 schema（user、notify_emails、entrytime），
// 既有部署的数据可以不经转换直接使用。
type Issue struct {
	ID           uint      `gorm:"primaryKey"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description"`
	Creator      string    `gorm:"column:user"` // 创建者用户名
	Status       int       `gorm:"column:status;not null;default:0"`
	Priority     *int      `gorm:"column:priority"` // 1..3，nil 表示未设置
	NotifyEmails string    `gorm:"column:notify_emails"`
	EntryTime    time.Time `gorm:"column:entrytime"`
}

// TableName 沿用旧版表名。
func (Issue) TableName() string { return "issues" }

// Watchers 把 NotifyEmails 解析为观察者集合。
func (i *Issue) Watchers() WatchList {
	return ParseWatchList(i.NotifyEmails)
}

// IssueSummary 是列表视图的一行：问题字段加上最近一条评论的
// 作者和时间（没有评论时为 nil）。
type IssueSummary struct {
	ID           uint       `gorm:"column:id"`
	Title        string     `gorm:"column:title"`
	Description  string     `gorm:"column:description"`
	Creator      string     `gorm:"column:user"`
	Status       int        `gorm:"column:status"`
	Priority     *int       `gorm:"column:priority"`
	NotifyEmails string     `gorm:"column:notify_emails"`
	EntryTime    time.Time  `gorm:"column:entrytime"`
	CommentUser  *string    `gorm:"column:comment_user"`
	CommentTime  *time.Time `gorm:"column:comment_time"`
}
