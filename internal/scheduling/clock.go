// Package scheduling 课表核心计算：时间区间、冲突判定、空闲网格、教室状态与预订状态机。
//
// 本包不依赖存储与 HTTP，所有"当前时间"均由调用方显式传入。
package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock    = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidInterval = errors.New("结束时间必须晚于开始时间")
	ErrInvalidDate     = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// DateLayout ISO 日期格式
const DateLayout = "2006-01-02"

// Clock 一天内的时刻，单位为自零点起的分钟数
type Clock int

// NewClock 由时、分构造 Clock
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock 解析 "HH:MM"，同时兼容数据库 time 列返回的 "HH:MM:SS"
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 3 {
		// 秒位只接受 00：分钟粒度以下的精度不参与冲突计算
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec != 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return NewClock(h, m), nil
}

// MustClock 解析失败时 panic，仅用于常量与测试
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf 取 t 在其时区下的时分
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// Hour 小时部分
func (c Clock) Hour() int { return int(c) / 60 }

// Minute 分钟部分
func (c Clock) Minute() int { return int(c) % 60 }

// String 格式化为 "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Add 增加分钟数，结果截断在当天 23:59 以内
func (c Clock) Add(minutes int) Clock {
	n := int(c) + minutes
	if n > 23*60+59 {
		n = 23*60 + 59
	}
	if n < 0 {
		n = 0
	}
	return Clock(n)
}

// On 将时刻落到指定日期上
func (c Clock) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, date.Location())
}

// ── 区间 ──

// Interval 半开区间 [Start, End)
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval 构造区间，要求 start < end
func NewInterval(start, end Clock) (Interval, error) {
	if start >= end {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval 由两个 "HH:MM" 字符串构造区间
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps 两区间是否相交；首尾相接不算冲突
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Contains 时刻 c 是否落在区间内（start <= c < end）
func (i Interval) Contains(c Clock) bool {
	return i.Start <= c && c < i.End
}

// Minutes 区间时长（分钟）
func (i Interval) Minutes() int {
	return int(i.End - i.Start)
}

// String "HH:MM-HH:MM"
func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Overlaps [s1,e1) 与 [s2,e2) 相交当且仅当 s1 < e2 且 s2 < e1
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && s2 < e1
}

// ── 日期 ──

// ParseDate 按 loc 解析 "YYYY-MM-DD"
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// DateOf 截断为 t 所在时区当天零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate 比较年月日，忽略时分秒
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BeforeDate a 的日期是否早于 b 的日期（各自按自身时区取年月日）
func BeforeDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
