package scheduling

import (
	"sort"
	"time"
)

// RoomState 教室实时状态
type RoomState string

const (
	RoomOngoing   RoomState = "ongoing"
	RoomScheduled RoomState = "scheduled"
	RoomCompleted RoomState = "completed"
	RoomFree      RoomState = "free"
)

// RoomStatus 单个教室的状态判定结果
type RoomStatus struct {
	State RoomState
	// Current ongoing 时为正在进行的课，scheduled 时为下一节课
	Current *Recurring
	// Next scheduled 时 Current 之后的再下一节课
	Next *Recurring
}

// ResolveRoomStatus 依据 now 判定教室状态。
// 优先级 ongoing > scheduled > completed > free，仅取首个命中的条件。
// entries 为该教室的全部固定课表，函数内部按 now 的星期过滤。
func ResolveRoomStatus(now time.Time, entries []Recurring) RoomStatus {
	day := WeekdayOf(now)
	t := ClockOf(now)

	var today []Recurring
	for _, e := range entries {
		if e.Day == day {
			today = append(today, e)
		}
	}
	sort.SliceStable(today, func(i, j int) bool { return today[i].Slot.Start < today[j].Slot.Start })

	for i := range today {
		if today[i].Slot.Contains(t) {
			cur := today[i]
			return RoomStatus{State: RoomOngoing, Current: &cur}
		}
	}

	var upcoming []Recurring
	hadPast := false
	for _, e := range today {
		switch {
		case e.Slot.Start > t:
			upcoming = append(upcoming, e)
		case e.Slot.End <= t:
			hadPast = true
		}
	}

	if len(upcoming) > 0 {
		st := RoomStatus{State: RoomScheduled}
		first := upcoming[0]
		st.Current = &first
		if len(upcoming) > 1 {
			second := upcoming[1]
			st.Next = &second
		}
		return st
	}
	if hadPast {
		return RoomStatus{State: RoomCompleted}
	}
	return RoomStatus{State: RoomFree}
}
