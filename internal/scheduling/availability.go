package scheduling

import (
	"fmt"
	"time"
)

// 默认营业窗口：08:00 至 19:00，每小时一个检查点
const (
	DefaultFirstCheckpointHour = 8
	DefaultLastCheckpointHour  = 19
)

// HourlyCheckpoints 生成 [firstHour, lastHour] 闭区间内的整点检查点
func HourlyCheckpoints(firstHour, lastHour int) ([]Clock, error) {
	if firstHour < 0 || lastHour > 23 || firstHour > lastHour {
		return nil, fmt.Errorf("检查点窗口无效: %d-%d", firstHour, lastHour)
	}
	points := make([]Clock, 0, lastHour-firstHour+1)
	for h := firstHour; h <= lastHour; h++ {
		points = append(points, NewClock(h, 0))
	}
	return points, nil
}

// Grid 某日期的教室 × 检查点空闲表
type Grid struct {
	Date        time.Time
	Weekday     Weekday
	Checkpoints []Clock
	// RoomIDs 渲染顺序
	RoomIDs []string
	// Free 教室ID → 检查点标签("HH:MM") → 是否空闲
	Free map[string]map[string]bool
	Prev time.Time
	Next time.Time
}

// IsFree 查询单元格；未知教室或检查点视为不空闲
func (g *Grid) IsFree(roomID string, checkpoint Clock) bool {
	row, ok := g.Free[roomID]
	if !ok {
		return false
	}
	return row[checkpoint.String()]
}

// FreeCount 某教室的空闲检查点数
func (g *Grid) FreeCount(roomID string) int {
	n := 0
	for _, free := range g.Free[roomID] {
		if free {
			n++
		}
	}
	return n
}

// ComputeAvailability 合并固定课表与当日预订，计算空闲表。
// commitments 可以包含任意日期/星期的占用，不在 date 生效的会被忽略；
// 先按教室建立索引，避免每个单元格全量扫描。
func ComputeAvailability(date time.Time, roomIDs []string, checkpoints []Clock, commitments []Commitment) *Grid {
	day := DateOf(date)
	idx := IndexByRoom(day, commitments)

	grid := &Grid{
		Date:        day,
		Weekday:     WeekdayOf(day),
		Checkpoints: checkpoints,
		RoomIDs:     roomIDs,
		Free:        make(map[string]map[string]bool, len(roomIDs)),
		Prev:        day.AddDate(0, 0, -1),
		Next:        day.AddDate(0, 0, 1),
	}

	for _, room := range roomIDs {
		row := make(map[string]bool, len(checkpoints))
		busy := idx[room]
		for _, cp := range checkpoints {
			row[cp.String()] = !OccupiedAt(cp, busy)
		}
		grid.Free[room] = row
	}
	return grid
}
