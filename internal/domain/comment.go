package domain

import "time"

// Comment 表示挂在某个问题下的一条评论。
type Comment struct {
	ID          uint      `gorm:"primaryKey"`
	IssueID     uint      `gorm:"column:issue_id;index"`
	Author      string    `gorm:"column:user"` // 评论者用户名
	Description string    `gorm:"column:description"`
	EntryTime   time.Time `gorm:"column:entrytime"`
}

// TableName 沿用旧版表名。
func (Comment) TableName() string { return "comments" }
