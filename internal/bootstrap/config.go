package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"tiny-issue-tracker/internal/infra/setup"
)

// Config 存储从环境变量或 .env 文件加载的全部配置
type Config struct {
	// 数据库
	DBDriver   string // "sqlite"（默认）或 "mysql"
	DBPath     string // sqlite 数据库文件
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// 服务
	ServerPort     string
	LogLevel       string
	JWTSecret      string
	JWTExpiryHours int

	// 追踪器
	ProjectTitle string
	BaseURL      string
	StatusLabels map[int]string
	SeedUsers    []setup.SeedUser

	// 通知
	NotifyIssueCreate   bool
	NotifyIssueEdit     bool
	NotifyIssueDelete   bool
	NotifyIssueStatus   bool
	NotifyIssuePriority bool
	NotifyCommentCreate bool
	FromEmail           string
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	MailTimeout         time.Duration
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件（如果存在），忽略错误以允许只用环境变量
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBPath:         getEnv("DB_PATH", "tit.db"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBName:         getEnv("DB_NAME", "issue_tracker"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

		ProjectTitle: getEnv("PROJECT_TITLE", "My Project"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),

		NotifyIssueCreate:   getEnvBool("NOTIFY_ISSUE_CREATE"),
		NotifyIssueEdit:     getEnvBool("NOTIFY_ISSUE_EDIT"),
		NotifyIssueDelete:   getEnvBool("NOTIFY_ISSUE_DELETE"),
		NotifyIssueStatus:   getEnvBool("NOTIFY_ISSUE_STATUS"),
		NotifyIssuePriority: getEnvBool("NOTIFY_ISSUE_PRIORITY"),
		NotifyCommentCreate: getEnvBool("NOTIFY_COMMENT_CREATE"),
		FromEmail:           getEnv("FROM_EMAIL", "noreply@example.com"),
		SMTPHost:            getEnv("SMTP_HOST", "127.0.0.1"),
		SMTPPort:            getEnvInt("SMTP_PORT", 25),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		MailTimeout:         time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.DBDriver == "mysql" && cfg.DBUser == "" {
		return nil, fmt.Errorf("environment variable DB_USER must be set for the mysql driver")
	}

	var err error
	cfg.StatusLabels, err = parseStatusLabels(getEnv("STATUS_LABELS", "0:Active,1:Resolved"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_LABELS: %w", err)
	}
	cfg.SeedUsers, err = parseSeedUsers(getEnv("SEED_USERS",
		"admin:admin:admin@example.com:admin;user:user:user@example.com:"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_USERS: %w", err)
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// DSN 构建 mysql 驱动的连接字符串
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// InitialWatchers 返回全部播种用户的非空邮箱，
// 作为新问题的初始观察者列表（保留旧版行为）。
func (c *Config) InitialWatchers() []string {
	var emails []string
	for _, u := range c.SeedUsers {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails
}

// parseStatusLabels 解析 "0:Active,1:Resolved" 形式的映射
func parseStatusLabels(s string) (map[int]string, error) {
	labels := make(map[int]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed entry %q", pair)
		}
		code, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed status code in %q", pair)
		}
		labels[code] = strings.TrimSpace(parts[1])
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no status labels configured")
	}
	return labels, nil
}

// parseSeedUsers 解析 "username:password:email:admin;..." 形式的初始用户列表
func parseSeedUsers(s string) ([]setup.SeedUser, error) {
	var users []setup.SeedUser
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed entry %q, want username:password[:email[:admin]]", entry)
		}
		u := setup.SeedUser{Username: parts[0], Password: parts[1]}
		if len(parts) > 2 {
			u.Email = parts[2]
		}
		if len(parts) > 3 {
			u.Admin = strings.EqualFold(parts[3], "admin") || parts[3] == "true" || parts[3] == "1"
		}
		users = append(users, u)
	}
	return users, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
