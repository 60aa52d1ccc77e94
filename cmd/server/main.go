package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/api/handler"
	"github.com/VeeraVardhan35/campusConnect/internal/api/router"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/internal/validator"
	"github.com/VeeraVardhan35/campusConnect/pkg/database"
	"github.com/VeeraVardhan35/campusConnect/pkg/jwt"
	applogger "github.com/VeeraVardhan35/campusConnect/pkg/logger"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
	"github.com/VeeraVardhan35/campusConnect/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 0. 本地开发时从 .env 注入 CAMPUS_* 环境变量；文件不存在不视为错误
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Timetable.Timezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，缓存、限流与 Token 黑名单将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT、指标与校验器
	jwtMgr := jwt.NewManager(&cfg.Auth)
	m := metrics.New()
	validator.Setup()

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	clock := service.NewSystemClock(cfg.Timetable.Location())
	svc := service.NewService(cfg, repo, jwtMgr, rdb, m, clock, logger)
	h := handler.NewHandler(cfg, svc, m, logger)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, m, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	// WebSocket 连接为长连接，WriteTimeout 不作用于已升级的连接
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
