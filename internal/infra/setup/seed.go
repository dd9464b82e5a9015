package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/repository"
)

// SeedUser 描述一个待播种的初始用户。
type SeedUser struct {
	Username string
	Password string // 明文，播种时哈希
	Email    string
	Admin    bool
}

// SeedUsers 在用户表为空时插入配置的初始用户。
// 表里已有任何用户时什么都不做，既有部署的数据不被触碰。
func SeedUsers(ctx context.Context, users repository.UserRepository, seeds []SeedUser) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password for %q: %w", s.Username, err)
		}
		user := &domain.User{
			Username:     strings.ToLower(s.Username),
			PasswordHash: string(hash),
			Email:        s.Email,
			IsAdmin:      s.Admin,
		}
		if err := users.Insert(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", s.Username, err)
		}
		logrus.WithFields(logrus.Fields{
			"username": user.Username,
			"admin":    user.IsAdmin,
		}).Info("Seed user created")
	}
	return nil
}
