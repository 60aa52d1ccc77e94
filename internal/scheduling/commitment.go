package scheduling

import "time"

// Commitment 教室占用的统一视图。
//
// 两种时间模型并存：
//   - Recurring：固定课表，按星期每周重复，与具体日期无关
//   - Dated：临时预订，只在某个日历日生效
//
// 二者仅在空闲计算的合并阶段通过该接口统一，其余场景各自独立使用。
type Commitment interface {
	// RoomID 占用的教室
	RoomID() string
	// Window 当天的占用区间
	Window() Interval
	// OccursOn 是否在指定日期生效
	OccursOn(date time.Time) bool

	sealed()
}

// Recurring 每周重复的固定课表占用
type Recurring struct {
	ID          string
	ClassroomID string
	Day         Weekday
	Slot        Interval
}

func (r Recurring) RoomID() string   { return r.ClassroomID }
func (r Recurring) Window() Interval { return r.Slot }

// OccursOn 星期相同即生效
func (r Recurring) OccursOn(date time.Time) bool {
	return WeekdayOf(date) == r.Day
}

func (Recurring) sealed() {}

// Dated 指定日期的预订占用
type Dated struct {
	ID          string
	ClassroomID string
	Date        time.Time
	Slot        Interval
}

func (d Dated) RoomID() string   { return d.ClassroomID }
func (d Dated) Window() Interval { return d.Slot }

// OccursOn 仅在同一日历日生效
func (d Dated) OccursOn(date time.Time) bool {
	return SameDate(d.Date, date)
}

func (Dated) sealed() {}

// IndexByRoom 按教室分组，并只保留在 date 生效的占用
func IndexByRoom(date time.Time, commitments []Commitment) map[string][]Commitment {
	idx := make(map[string][]Commitment)
	for _, c := range commitments {
		if !c.OccursOn(date) {
			continue
		}
		idx[c.RoomID()] = append(idx[c.RoomID()], c)
	}
	return idx
}
