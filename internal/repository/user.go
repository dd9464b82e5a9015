package repository

import (
	"context"

	"tiny-issue-tracker/internal/domain"
)

// UserRepository 定义用户数据的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名查找用户，调用方需先把用户名转为小写。
	// 用户不存在时返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 用户不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Insert 创建新用户。用户名冲突时返回 ErrDuplicateEntry。
	Insert(ctx context.Context, user *domain.User) error

	// Count 返回用户总数，用于启动时判断是否需要播种。
	Count(ctx context.Context) (int64, error)
}
