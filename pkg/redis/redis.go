package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单、空闲表缓存与预订限流；nil *Client 上的所有方法均降级为无操作
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("redis 未启用")
	}
	return c.rdb.Ping(ctx).Err()
}

// ── Token 黑名单 ──

const blacklistPrefix = "campus:token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if c == nil || ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if c == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 空闲表缓存 ──

const (
	availabilityPrefix = "campus:availability:"
	scanBatch          = 100
)

// GetAvailability 读取某日期的空闲表快照，未命中时 ok=false
func (c *Client) GetAvailability(ctx context.Context, date string) ([]byte, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, availabilityPrefix+date).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// SetAvailability 写入某日期的空闲表快照
func (c *Client) SetAvailability(ctx context.Context, date string, data []byte, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.rdb.Set(ctx, availabilityPrefix+date, data, ttl).Err()
}

// InvalidateAvailability 预订状态变化后清除对应日期的快照
func (c *Client) InvalidateAvailability(ctx context.Context, dates ...string) error {
	if c == nil || len(dates) == 0 {
		return nil
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = availabilityPrefix + d
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateAllAvailability 固定课表或教室变化会影响所有日期，按前缀 SCAN 后批量删除
func (c *Client) InvalidateAllAvailability(ctx context.Context) error {
	if c == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, availabilityPrefix+"*", scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── 限流 ──

const rateLimitPrefix = "campus:rate_limit:"

// CheckRateLimit 滑动窗口限流：窗口内请求数未超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil || limit <= 0 {
		return true, nil
	}

	now := time.Now()
	fullKey := rateLimitPrefix + key
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	pipe.ZAdd(ctx, fullKey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
