// Package bootstrap 负责装配并运行整个应用。
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "tiny-issue-tracker/internal/handler/http"
	"tiny-issue-tracker/internal/infra/mail"
	gormpersistence "tiny-issue-tracker/internal/infra/persistence/gorm"
	"tiny-issue-tracker/internal/infra/setup"
	"tiny-issue-tracker/internal/middleware"
	"tiny-issue-tracker/internal/repository"
	"tiny-issue-tracker/internal/service"
)

// App 包含应用的所有组件和配置
type App struct {
	Config *Config
	Log    *logrus.Logger
	DB     *gorm.DB
	Router *gin.Engine

	httpServer *http.Server
}

// NewApp 加载配置、连接数据库、装配各层组件
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	log := logrus.StandardLogger()
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	dsn := cfg.DBPath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.DSN()
	}
	db, err := setup.InitDB(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, err
	}

	// 仓库层
	userRepo := gormpersistence.NewGormUserRepository(db)
	issueRepo := gormpersistence.NewGormIssueRepository(db)
	commentRepo := gormpersistence.NewGormCommentRepository(db)

	// 空库时播种初始用户
	if err := setup.SeedUsers(context.Background(), userRepo, cfg.SeedUsers); err != nil {
		return nil, err
	}

	// 服务层
	trackerCfg := service.TrackerConfig{
		ProjectTitle:        cfg.ProjectTitle,
		BaseURL:             cfg.BaseURL,
		StatusLabels:        cfg.StatusLabels,
		InitialWatchers:     cfg.InitialWatchers(),
		NotifyIssueCreate:   cfg.NotifyIssueCreate,
		NotifyIssueEdit:     cfg.NotifyIssueEdit,
		NotifyIssueDelete:   cfg.NotifyIssueDelete,
		NotifyIssueStatus:   cfg.NotifyIssueStatus,
		NotifyIssuePriority: cfg.NotifyIssuePriority,
		NotifyCommentCreate: cfg.NotifyCommentCreate,
	}
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	notifier := service.NewNotifier(mailer, cfg.FromEmail, cfg.MailTimeout)

	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, err
	}
	issueService := service.NewIssueService(issueRepo, commentRepo, notifier, trackerCfg)
	commentService := service.NewCommentService(commentRepo, issueRepo, notifier, trackerCfg)

	// 处理器与路由
	router := setupRouter(cfg, userRepo,
		httpHandler.NewAuthHandler(authService),
		httpHandler.NewIssueHandler(issueService, cfg.StatusLabels),
		httpHandler.NewCommentHandler(commentService))

	return &App{
		Config: cfg,
		Log:    log,
		DB:     db,
		Router: router,
		httpServer: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: router,
		},
	}, nil
}

// setupRouter 装配路由：/login 公开，其余都在认证中间件之后
func setupRouter(cfg *Config, userRepo repository.UserRepository,
	authH *httpHandler.AuthHandler, issueH *httpHandler.IssueHandler, commentH *httpHandler.CommentHandler) *gin.Engine {

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.POST("/login", authH.Login)

	authed := router.Group("/", middleware.Auth(cfg.JWTSecret, userRepo))
	{
		authed.GET("/statuses", issueH.Statuses)
		authed.GET("/issues", issueH.List)
		authed.POST("/issues", issueH.Save)
		authed.GET("/issues/:id", issueH.Get)
		authed.DELETE("/issues/:id", issueH.Delete)
		authed.POST("/issues/:id/status", issueH.ChangeStatus)
		authed.POST("/issues/:id/priority", issueH.ChangePriority)
		authed.POST("/issues/:id/watch", issueH.SetWatch)
		authed.POST("/issues/:id/comments", commentH.Create)
		authed.DELETE("/issues/:id/comments/:cid", commentH.Delete)
	}
	return router
}

// requestLogger 返回记录每个请求的 gin 中间件
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"status_code": c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Server error")
		case c.Writer.Status() >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}

// Start 在后台启动 HTTP 服务
func (a *App) Start() {
	go func() {
		a.Log.WithField("addr", a.httpServer.Addr).Info("HTTP server starting")
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()
}

// Shutdown 优雅关闭 HTTP 服务和数据库连接
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.Log.WithError(err).Error("HTTP server shutdown failed")
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	a.Log.Info("Application stopped")
}
