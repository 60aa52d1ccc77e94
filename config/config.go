package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Timetable TimetableConfig `mapstructure:"timetable"`
	Booking   BookingConfig   `mapstructure:"booking"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
	SlowThreshold   int    `mapstructure:"slow_threshold_ms"`
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	AvailabilityTTL time.Duration `mapstructure:"availability_ttl"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TimetableConfig 课表与空闲计算配置
type TimetableConfig struct {
	Timezone            string        `mapstructure:"timezone"`
	FirstCheckpointHour int           `mapstructure:"first_checkpoint_hour"`
	LastCheckpointHour  int           `mapstructure:"last_checkpoint_hour"`
	StatusPushInterval  time.Duration `mapstructure:"status_push_interval"`
}

// maxStatusPushInterval 状态推送间隔上限；间隔过长时页面显示的状态会明显滞后
const maxStatusPushInterval = 10 * time.Minute

// Location 解析课表时区；Validate 已保证可解析
func (c *TimetableConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BookingConfig 临时预订配置
type BookingConfig struct {
	// CheckFixedSchedule 为 true 时，预订还需避开固定课表
	CheckFixedSchedule bool `mapstructure:"check_fixed_schedule"`
	// DefaultDurationMinutes 从空闲表发起预订时的默认时长
	DefaultDurationMinutes int `mapstructure:"default_duration_minutes"`
	// RateLimitPerMinute 每位教师每分钟最多提交的预订请求数，0 表示不限
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "campus_connect")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Kolkata")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)
	v.SetDefault("db.slow_threshold_ms", 200)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.availability_ttl", "5m")

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("timetable.timezone", "Asia/Kolkata")
	v.SetDefault("timetable.first_checkpoint_hour", 8)
	v.SetDefault("timetable.last_checkpoint_hour", 19)
	v.SetDefault("timetable.status_push_interval", "30s")

	v.SetDefault("booking.check_fixed_schedule", false)
	v.SetDefault("booking.default_duration_minutes", 60)
	v.SetDefault("booking.rate_limit_per_minute", 10)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	t := c.Timetable
	if t.FirstCheckpointHour < 0 || t.LastCheckpointHour > 23 || t.FirstCheckpointHour > t.LastCheckpointHour {
		return fmt.Errorf("配置校验失败: timetable 检查点窗口 %d-%d 无效", t.FirstCheckpointHour, t.LastCheckpointHour)
	}
	if _, err := time.LoadLocation(t.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: timetable.timezone %q 无效: %w", t.Timezone, err)
	}
	if t.StatusPushInterval < 0 || t.StatusPushInterval > maxStatusPushInterval {
		return fmt.Errorf("配置校验失败: timetable.status_push_interval 必须在 0-%s 之间", maxStatusPushInterval)
	}
	if c.Booking.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("配置校验失败: booking.default_duration_minutes 必须大于 0")
	}
	return nil
}
