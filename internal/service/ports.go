package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AvailabilityCache 空闲表快照缓存；未配置 Redis 时实现应退化为空操作
type AvailabilityCache interface {
	GetAvailability(ctx context.Context, date string) ([]byte, bool, error)
	SetAvailability(ctx context.Context, date string, data []byte, ttl time.Duration) error
	InvalidateAvailability(ctx context.Context, dates ...string) error
	// InvalidateAllAvailability 清空全部日期的快照；固定课表、教室或时间段变化时使用
	InvalidateAllAvailability(ctx context.Context) error
}

// RateLimiter 滑动窗口限流
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// TokenBlacklist 已登出 Token 的黑名单
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// flushAvailability 写入固定课表、教室或时间段后清空空闲表快照；失败只记录日志，快照随 TTL 过期
func flushAvailability(ctx context.Context, cache AvailabilityCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateAllAvailability(ctx); err != nil {
		logger.Warn("清空空闲表缓存失败", zap.Error(err))
	}
}
