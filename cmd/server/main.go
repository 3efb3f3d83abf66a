package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BlcaCola/Transcendent-Rebirth/config"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/api/handler"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/api/router"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/model"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/repository"
	"github.com/BlcaCola/Transcendent-Rebirth/internal/service"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/database"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/jwt"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/logger"
	"github.com/BlcaCola/Transcendent-Rebirth/pkg/redis"
)

// 管理员种子账号初始穿越点数
const adminSeedTravelPoints = 9999

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("服务启动失败", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		return err
	}

	// Redis 可选，仅限流使用；未启用时中间件降级放行
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(&cfg.Redis, zapLogger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	repo := repository.NewRepository(db)

	if err := seedAdmin(cfg, repo, zapLogger); err != nil {
		return err
	}

	jwtManager := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(repo, jwtManager, cfg, zapLogger)
	h := handler.NewHandler(svc, cfg, zapLogger)

	engine := router.New(router.Options{
		Config:     cfg,
		Logger:     zapLogger,
		Handler:    h,
		JWTManager: jwtManager,
		UserRepo:   repo.User,
		Redis:      redisClient,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zapLogger.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("优雅关闭失败: %w", err)
	}

	zapLogger.Info("服务已退出")
	return nil
}

// seedAdmin 确保管理员种子账号存在
// 账号已存在时不做任何修改（密码变更走管理接口）
func seedAdmin(cfg *config.Config, repo *repository.Repository, zapLogger *zap.Logger) error {
	if cfg.Admin.UserName == "" || cfg.Admin.Password == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.User.GetByUserName(ctx, cfg.Admin.UserName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var email *string
	if cfg.Admin.Email != "" {
		e := cfg.Admin.Email
		email = &e
	}

	admin := &model.User{
		UserName:     cfg.Admin.UserName,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
		TravelPoints: adminSeedTravelPoints,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return fmt.Errorf("创建管理员种子账号失败: %w", err)
	}

	zapLogger.Info("管理员种子账号已创建", zap.String("user_name", cfg.Admin.UserName))
	return nil
}
