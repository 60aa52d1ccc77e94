package service

import "time"

// Clock 当前时间来源，便于测试注入固定时刻
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock 返回按 loc 取当前时间的 Clock；loc 为 nil 时使用 UTC
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }
