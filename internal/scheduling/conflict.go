package scheduling

import (
	"sort"
	"time"
)

// FindConflicts 在同教室同日期的已有预订中找出与候选区间相交者。
// excludeID 非空时跳过该记录（编辑场景避免与自身冲突）。
// existing 应只包含仍占用教室的预订（pending / approved）。
func FindConflicts(candidate Dated, existing []Dated, excludeID string) []Dated {
	var conflicts []Dated
	for _, e := range existing {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.ClassroomID != candidate.ClassroomID || !SameDate(e.Date, candidate.Date) {
			continue
		}
		if e.Slot.Overlaps(candidate.Slot) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// FindScheduleConflicts 找出在 date 对应星期、同教室、与 slot 相交的固定课表
func FindScheduleConflicts(classroomID string, date time.Time, slot Interval, schedules []Recurring) []Recurring {
	var conflicts []Recurring
	for _, s := range schedules {
		if s.ClassroomID != classroomID || !s.OccursOn(date) {
			continue
		}
		if s.Slot.Overlaps(slot) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}

// OccupiedAt 任一占用覆盖时刻 t（start <= t < end）即为占用
func OccupiedAt(t Clock, commitments []Commitment) bool {
	for _, c := range commitments {
		if c.Window().Contains(t) {
			return true
		}
	}
	return false
}

// ── 同一主体的周期性重叠（如教师跨班级同时段授课） ──

// Engagement 某主体在某星期某区间的一项固定安排
type Engagement struct {
	ID      string
	OwnerID string
	Day     Weekday
	Slot    Interval
}

// Clash 同一主体同一天两项相交的安排
type Clash struct {
	OwnerID  string
	Day      Weekday
	FirstID  string
	SecondID string
	Overlap  Interval
}

// FindClashes 按 (OwnerID, Day) 分组后两两检查区间相交，结果按主体、星期、开始时间排序
func FindClashes(items []Engagement) []Clash {
	type key struct {
		owner string
		day   Weekday
	}
	groups := make(map[key][]Engagement)
	var keys []key
	for _, it := range items {
		k := key{it.OwnerID, it.Day}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], it)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].owner != keys[j].owner {
			return keys[i].owner < keys[j].owner
		}
		return keys[i].day.Index() < keys[j].day.Index()
	})

	var clashes []Clash
	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Slot.Start < g[j].Slot.Start })
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				if g[j].Slot.Start >= g[i].Slot.End {
					break
				}
				clashes = append(clashes, Clash{
					OwnerID:  k.owner,
					Day:      k.day,
					FirstID:  g[i].ID,
					SecondID: g[j].ID,
					Overlap: Interval{
						Start: maxClock(g[i].Slot.Start, g[j].Slot.Start),
						End:   minClock(g[i].Slot.End, g[j].Slot.End),
					},
				})
			}
		}
	}
	return clashes
}

func maxClock(a, b Clock) Clock {
	if a > b {
		return a
	}
	return b
}

func minClock(a, b Clock) Clock {
	if a < b {
		return a
	}
	return b
}
