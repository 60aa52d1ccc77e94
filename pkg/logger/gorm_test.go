package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObserved(slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), slow), logs
}

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	l, logs := newObserved(0)
	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	if logs.Len() != 0 {
		t.Errorf("记录不存在不应记录日志，实际 %d 条", logs.Len())
	}
}

func TestGormLogger_LogsErrors(t *testing.T) {
	l, logs := newObserved(0)
	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("connection refused"))
	if logs.FilterMessage("SQL 执行失败").Len() != 1 {
		t.Errorf("期望 1 条错误日志，实际 %d", logs.Len())
	}
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := newObserved(time.Millisecond)
	l.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), sqlFn, nil)
	if logs.FilterMessage("慢查询").Len() != 1 {
		t.Error("超过阈值的查询应记录慢查询日志")
	}
}

func TestGormLogger_Silent(t *testing.T) {
	l, logs := newObserved(time.Millisecond)
	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, errors.New("boom"))
	if logs.Len() != 0 {
		t.Error("Silent 模式不应输出日志")
	}
}
