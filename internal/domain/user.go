// Package domain 定义了问题追踪器的核心数据模型（数据库模型）。
package domain

// User 表示一个可登录的用户。
// 用户在启动时播种，正常运行期间不可变；授权判断只依赖
// Username（小写存储，大小写不敏感匹配）和 IsAdmin 两个字段。
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Email        string `gorm:"column:email"` // 可选；为空表示不能接收通知
	IsAdmin      bool   `gorm:"column:is_admin;not null"`
}

// TableName 沿用旧版表名。
func (User) TableName() string { return "users" }
