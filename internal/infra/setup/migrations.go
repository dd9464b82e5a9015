package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateDB 创建三张旧版形状的表（不存在时）。
// 列名必须和既有部署逐字段一致，AutoMigrate 无法表达这些旧列名
// （user、notify_emails、entrytime），所以这里使用手写 SQL。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	stmts := sqliteDDL
	if db.Dialector.Name() == "mysql" {
		stmts = mysqlDDL
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to run migration statement: %w", err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT,
		is_admin INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users (username)`,
	`CREATE TABLE IF NOT EXISTS issues (
		id INTEGER PRIMARY KEY,
		title TEXT,
		description TEXT,
		user TEXT,
		status INTEGER NOT NULL DEFAULT '0',
		priority INTEGER,
		notify_emails TEXT,
		entrytime DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY,
		issue_id INTEGER,
		user TEXT,
		description TEXT,
		entrytime DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_issue_id ON comments (issue_id)`,
}

var mysqlDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		password_hash TEXT NOT NULL,
		email VARCHAR(191),
		is_admin TINYINT(1) NOT NULL DEFAULT 0,
		UNIQUE INDEX idx_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci`,
	`CREATE TABLE IF NOT EXISTS issues (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title TEXT,
		description TEXT,
		user VARCHAR(191),
		status INT NOT NULL DEFAULT 0,
		priority INT,
		notify_emails TEXT,
		entrytime DATETIME(3)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		issue_id BIGINT UNSIGNED,
		user VARCHAR(191),
		description TEXT,
		entrytime DATETIME(3),
		INDEX idx_comments_issue_id (issue_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci`,
}
