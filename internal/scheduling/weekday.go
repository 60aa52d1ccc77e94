package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Weekday 小写英文星期名
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// TeachingDays 排课可用的六个教学日（周日不排课）
var TeachingDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf 由日期推导星期
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// ParseWeekday 解析教学日，大小写不敏感
func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if !w.IsTeachingDay() {
		return "", fmt.Errorf("无效的星期: %q", s)
	}
	return w, nil
}

// IsTeachingDay 是否属于六个教学日
func (w Weekday) IsTeachingDay() bool {
	for _, d := range TeachingDays {
		if d == w {
			return true
		}
	}
	return false
}

// Index 周一为 0，周日为 6；未知值返回 -1
func (w Weekday) Index() int {
	switch w {
	case Sunday:
		return 6
	default:
		for i, d := range TeachingDays {
			if d == w {
				return i
			}
		}
	}
	return -1
}

// Title 首字母大写形式，用于导出表头
func (w Weekday) Title() string {
	if w == "" {
		return ""
	}
	return strings.ToUpper(string(w[:1])) + string(w[1:])
}

// TimeWeekday 转为 time.Weekday
func (w Weekday) TimeWeekday() time.Weekday {
	switch w {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Sunday
	}
}

// NextOnOrAfter 返回 from 当天或之后第一个星期为 w 的日期
func (w Weekday) NextOnOrAfter(from time.Time) time.Time {
	d := DateOf(from)
	diff := (int(w.TimeWeekday()) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, diff)
}
