package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/seed"
	"github.com/VeeraVardhan35/campusConnect/pkg/database"
	applogger "github.com/VeeraVardhan35/campusConnect/pkg/logger"
	"github.com/VeeraVardhan35/campusConnect/pkg/redis"
)

func main() {
	fixturePath := flag.String("f", "config/fixtures.example.yaml", "夹具文件路径（YAML 或 JSON）")
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	fx, err := seed.Load(*fixturePath)
	if err != nil {
		logger.Fatal("夹具文件无效", zap.String("path", *fixturePath), zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(repository.NewRepository(db), logger)
	if _, err := seeder.Apply(ctx, fx); err != nil {
		logger.Fatal("夹具导入失败，已回滚", zap.Error(err))
	}

	// 运行中的服务可能缓存了旧的空闲表
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，跳过空闲表缓存清理", zap.Error(err))
		return
	}
	defer rdb.Close()
	if err := rdb.InvalidateAllAvailability(ctx); err != nil {
		logger.Warn("清空空闲表缓存失败", zap.Error(err))
	}
}
