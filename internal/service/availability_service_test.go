package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

func testTimetableConfig() config.TimetableConfig {
	return config.TimetableConfig{Timezone: "UTC", FirstCheckpointHour: 8, LastCheckpointHour: 19}
}

func setupTestAvailabilityService(cache AvailabilityCache) (AvailabilityService, *campusFixture) {
	f := newCampusFixture()
	svc := NewAvailabilityService(f.repo, cache, nil, fixedClock{testNow}, testTimetableConfig(), time.Minute, zap.NewNop())
	return svc, f
}

// ── FreeSlots 测试 ──

func TestAvailabilityService_FreeSlots_ScheduleBlocksCheckpoint(t *testing.T) {
	svc, f := setupTestAvailabilityService(nil)
	slot := f.store.addSlot("monday", "09:00", "10:00")
	f.store.addSchedule(f.cs101, f.prof, f.batch, f.l101, slot)

	resp, err := svc.FreeSlots(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	if resp.Weekday != "monday" {
		t.Errorf("期望 monday，实际 %s", resp.Weekday)
	}
	if len(resp.Checkpoints) != 12 || resp.Checkpoints[0] != "08:00" || resp.Checkpoints[11] != "19:00" {
		t.Errorf("检查点应为 08:00-19:00 共 12 个，实际 %v", resp.Checkpoints)
	}
	room := resp.Availability[f.l101.ClassroomID]
	if room["09:00"] {
		t.Error("L101 在 09:00 有课，应为占用")
	}
	if !room["10:00"] {
		t.Error("09:00-10:00 的课在 10:00 已结束，应为空闲")
	}
	if !resp.Availability[f.l102.ClassroomID]["09:00"] {
		t.Error("L102 无课，应为空闲")
	}
	if resp.PrevDate != "2025-03-09" || resp.NextDate != "2025-03-11" {
		t.Errorf("前后日期错误: %s / %s", resp.PrevDate, resp.NextDate)
	}
}

func TestAvailabilityService_FreeSlots_OtherWeekdayUnaffected(t *testing.T) {
	svc, f := setupTestAvailabilityService(nil)
	slot := f.store.addSlot("monday", "09:00", "10:00")
	f.store.addSchedule(f.cs101, f.prof, f.batch, f.l101, slot)

	resp, err := svc.FreeSlots(context.Background(), "2025-03-11")
	if err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	if !resp.Availability[f.l101.ClassroomID]["09:00"] {
		t.Error("周二不受周一课表影响")
	}
}

func TestAvailabilityService_FreeSlots_BlockingBookingsOnly(t *testing.T) {
	svc, f := setupTestAvailabilityService(nil)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	f.store.bookings["bk-a"] = &model.ClassroomBooking{
		BookingID: "bk-a", ProfessorID: f.prof.UserID, ClassroomID: f.l101.ClassroomID,
		Date: date, StartTime: "14:00:00", EndTime: "15:00:00", Status: string(scheduling.BookingPending),
	}
	f.store.bookings["bk-b"] = &model.ClassroomBooking{
		BookingID: "bk-b", ProfessorID: f.prof.UserID, ClassroomID: f.l101.ClassroomID,
		Date: date, StartTime: "16:00:00", EndTime: "17:00:00", Status: string(scheduling.BookingCancelled),
	}

	resp, err := svc.FreeSlots(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	room := resp.Availability[f.l101.ClassroomID]
	if room["14:00"] {
		t.Error("待审批预订应占用 14:00")
	}
	if !room["16:00"] {
		t.Error("已取消的预订不应占用 16:00")
	}
}

func TestAvailabilityService_FreeSlots_InvalidDateFallsBackToToday(t *testing.T) {
	svc, _ := setupTestAvailabilityService(nil)

	for _, in := range []string{"", "not-a-date"} {
		resp, err := svc.FreeSlots(context.Background(), in)
		if err != nil {
			t.Fatalf("FreeSlots(%q) 应成功: %v", in, err)
		}
		if resp.Date != "2025-03-01" {
			t.Errorf("FreeSlots(%q) 期望回退到今天 2025-03-01，实际 %s", in, resp.Date)
		}
	}
}

func TestAvailabilityService_FreeSlots_UsesCache(t *testing.T) {
	cache := newMockCache()
	svc, f := setupTestAvailabilityService(cache)
	ctx := context.Background()

	if _, err := svc.FreeSlots(ctx, "2025-03-10"); err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	if _, ok := cache.data["2025-03-10"]; !ok {
		t.Fatal("计算结果应写入缓存")
	}

	// 缓存命中时不重新计算
	slot := f.store.addSlot("monday", "09:00", "10:00")
	f.store.addSchedule(f.cs101, f.prof, f.batch, f.l101, slot)
	resp, err := svc.FreeSlots(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	if !resp.Availability[f.l101.ClassroomID]["09:00"] {
		t.Error("应返回缓存中的结果")
	}

	_ = cache.InvalidateAvailability(ctx, "2025-03-10")
	resp, _ = svc.FreeSlots(ctx, "2025-03-10")
	if resp.Availability[f.l101.ClassroomID]["09:00"] {
		t.Error("缓存清除后应重新计算")
	}
}

func TestAvailabilityService_FreeSlots_ScheduleWritesFlushCache(t *testing.T) {
	cache := newMockCache()
	svc, f := setupTestAvailabilityService(cache)
	schedules := NewClassScheduleService(f.repo, cache, zap.NewNop())
	ctx := context.Background()
	slot := f.store.addSlot("monday", "09:00", "10:00")

	if _, err := svc.FreeSlots(ctx, "2025-03-10"); err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	if _, err := svc.FreeSlots(ctx, "2025-03-17"); err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}

	created, err := schedules.Create(ctx, scheduleReq(f, f.prof, f.batch, f.l101, slot))
	if err != nil {
		t.Fatalf("创建课表应成功: %v", err)
	}
	if len(cache.data) != 0 {
		t.Errorf("创建课表后所有日期的快照都应清除，剩余 %d", len(cache.data))
	}
	for _, date := range []string{"2025-03-10", "2025-03-17"} {
		resp, _ := svc.FreeSlots(ctx, date)
		if resp.Availability[f.l101.ClassroomID]["09:00"] {
			t.Errorf("%s L101 09:00 已排课，应为占用", date)
		}
	}

	if err := schedules.Delete(ctx, created.ID); err != nil {
		t.Fatalf("删除课表应成功: %v", err)
	}
	resp, _ := svc.FreeSlots(ctx, "2025-03-10")
	if !resp.Availability[f.l101.ClassroomID]["09:00"] {
		t.Error("删除课表后 L101 09:00 应恢复空闲")
	}
	if cache.flushes != 2 {
		t.Errorf("期望清空 2 次，实际 %d", cache.flushes)
	}
}

func TestAvailabilityService_FreeSlots_CatalogWritesFlushCache(t *testing.T) {
	cache := newMockCache()
	svc, f := setupTestAvailabilityService(cache)
	rooms := NewClassroomService(f.repo, cache, zap.NewNop())
	slots := NewTimeSlotService(f.repo, cache, zap.NewNop())
	ctx := context.Background()
	slot := f.store.addSlot("monday", "09:00", "10:00")
	f.store.addSchedule(f.cs101, f.prof, f.batch, f.l101, slot)

	if _, err := svc.FreeSlots(ctx, "2025-03-10"); err != nil {
		t.Fatalf("FreeSlots 应成功: %v", err)
	}
	room, err := rooms.Create(ctx, &dto.CreateClassroomRequest{RoomNumber: "L301"})
	if err != nil {
		t.Fatalf("创建教室应成功: %v", err)
	}
	resp, _ := svc.FreeSlots(ctx, "2025-03-10")
	if _, ok := resp.Availability[room.ID]; !ok {
		t.Error("新建教室应出现在空闲表中")
	}

	// 课表随时间段移到 11:00
	start, end := "11:00", "12:00"
	if _, err := slots.Update(ctx, slot.TimeSlotID, &dto.UpdateTimeSlotRequest{StartTime: &start, EndTime: &end}); err != nil {
		t.Fatalf("更新时间段应成功: %v", err)
	}
	resp, _ = svc.FreeSlots(ctx, "2025-03-10")
	grid := resp.Availability[f.l101.ClassroomID]
	if !grid["09:00"] || grid["11:00"] {
		t.Errorf("时间段移动后应为 09:00 空闲、11:00 占用，实际 %v / %v", grid["09:00"], grid["11:00"])
	}
	if cache.flushes != 2 {
		t.Errorf("期望清空 2 次，实际 %d", cache.flushes)
	}
}

// ── ClassroomStatus 测试 ──

func setupStatusFixture() (AvailabilityService, *campusFixture, map[string]*model.ClassSchedule) {
	svc, f := setupTestAvailabilityService(nil)
	s := f.store
	entries := map[string]*model.ClassSchedule{
		"09": s.addSchedule(f.cs101, f.prof, f.batch, f.l101, s.addSlot("monday", "09:00", "10:00")),
		"11": s.addSchedule(f.cs101, f.prof, f.batch, f.l101, s.addSlot("monday", "11:00", "12:00")),
		"14": s.addSchedule(f.cs101, f.prof, f.batch, f.l101, s.addSlot("monday", "14:00", "15:00")),
	}
	return svc, f, entries
}

func statusOf(t *testing.T, resp *dto.ClassroomStatusResponse, roomID string) dto.ClassroomStatusItem {
	t.Helper()
	for _, item := range resp.Classrooms {
		if item.Classroom.ID == roomID {
			return item
		}
	}
	t.Fatalf("响应中缺少教室 %s", roomID)
	return dto.ClassroomStatusItem{}
}

func TestAvailabilityService_ClassroomStatus(t *testing.T) {
	svc, f, entries := setupStatusFixture()
	ctx := context.Background()

	tests := []struct {
		name        string
		at          string
		wantStatus  string
		wantCurrent string
		wantNext    string
	}{
		{"上课中", "2025-03-10T09:30:00Z", "ongoing", "09", ""},
		{"课间", "2025-03-10T10:30:00Z", "scheduled", "11", "14"},
		{"上课前", "2025-03-10T08:00:00Z", "scheduled", "09", "11"},
		{"仅剩最后一节", "2025-03-10T12:30:00Z", "scheduled", "14", ""},
		{"下课瞬间", "2025-03-10T10:00:00Z", "scheduled", "11", "14"},
		{"最后一节之后", "2025-03-10T16:00:00Z", "completed", "", ""},
		{"周日无课", "2025-03-09T10:00:00Z", "free", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ClassroomStatus(ctx, tt.at)
			if err != nil {
				t.Fatalf("ClassroomStatus 应成功: %v", err)
			}
			item := statusOf(t, resp, f.l101.ClassroomID)
			if item.Status != tt.wantStatus {
				t.Errorf("期望状态 %s，实际 %s", tt.wantStatus, item.Status)
			}
			if tt.wantCurrent == "" && item.CurrentClass != nil {
				t.Errorf("不应有当前课程，实际 %s", item.CurrentClass.ID)
			}
			if tt.wantCurrent != "" && (item.CurrentClass == nil || item.CurrentClass.ID != entries[tt.wantCurrent].ScheduleID) {
				t.Errorf("当前课程应为 %s 点的课", tt.wantCurrent)
			}
			if tt.wantNext == "" && item.NextClass != nil {
				t.Errorf("不应有下一节课，实际 %s", item.NextClass.ID)
			}
			if tt.wantNext != "" && (item.NextClass == nil || item.NextClass.ID != entries[tt.wantNext].ScheduleID) {
				t.Errorf("下一节课应为 %s 点的课", tt.wantNext)
			}
		})
	}

	resp, _ := svc.ClassroomStatus(ctx, "2025-03-10T09:30:00Z")
	if got := statusOf(t, resp, f.l102.ClassroomID).Status; got != "free" {
		t.Errorf("L102 无课应为 free，实际 %s", got)
	}
}

func TestAvailabilityService_ClassroomStatus_DefaultsToNow(t *testing.T) {
	svc, _, _ := setupStatusFixture()

	resp, err := svc.ClassroomStatus(context.Background(), "")
	if err != nil {
		t.Fatalf("ClassroomStatus 应成功: %v", err)
	}
	if resp.Weekday != "saturday" || resp.At != "2025-03-01T09:00:00Z" {
		t.Errorf("应取当前时间，实际 %s %s", resp.Weekday, resp.At)
	}
}

func TestAvailabilityService_ClassroomStatus_InvalidAt(t *testing.T) {
	svc, _ := setupTestAvailabilityService(nil)

	if _, err := svc.ClassroomStatus(context.Background(), "2025-03-10 09:30"); !errors.Is(err, ErrInvalidStatusAt) {
		t.Errorf("期望 ErrInvalidStatusAt，实际: %v", err)
	}
}
