package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// ── 测试辅助 ──

func setupTestBookingService(cfg config.BookingConfig) (BookingService, *campusFixture, *mockCache) {
	f := newCampusFixture()
	cache := newMockCache()
	if cfg.DefaultDurationMinutes == 0 {
		cfg.DefaultDurationMinutes = 60
	}
	svc := NewBookingService(f.repo, cache, nil, nil, fixedClock{testNow}, cfg, nil, zap.NewNop())
	return svc, f, cache
}

func bookingReq(roomID, date, start, end string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		ClassroomID: roomID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		CourseCode:  "cs101",
		CourseName:  "Programming",
		Purpose:     "Extra lecture",
	}
}

// ── Create 测试 ──

func TestBookingService_Create_TouchingAndOverlapping(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	first, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("10:00-11:00 应预订成功: %v", err)
	}
	if first.Status != string(scheduling.BookingPending) {
		t.Errorf("新预订期望 pending，实际 %s", first.Status)
	}
	if first.DurationMinutes != 60 {
		t.Errorf("期望时长 60 分钟，实际 %d", first.DurationMinutes)
	}
	if first.CourseCode != "CS101" {
		t.Errorf("课程代码应规整为大写，实际 %s", first.CourseCode)
	}

	_, err = svc.Create(ctx, f.other.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:30", "11:30"))
	var conflict *pkgerrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("10:30-11:30 应冲突，实际: %v", err)
	}
	if conflict.Resource != "L101" || !strings.Contains(err.Error(), "L101") {
		t.Errorf("冲突信息应指明教室 L101，实际: %v", err)
	}
	if len(conflict.ConflictIDs) != 1 || conflict.ConflictIDs[0] != first.ID {
		t.Errorf("冲突记录应为首个预订，实际: %v", conflict.ConflictIDs)
	}

	if _, err := svc.Create(ctx, f.other.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "11:00", "12:00")); err != nil {
		t.Errorf("首尾相接的 11:00-12:00 应成功: %v", err)
	}
}

func TestBookingService_Create_OtherRoomOrDateNoConflict(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")); err != nil {
		t.Fatalf("首个预订应成功: %v", err)
	}
	if _, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l102.ClassroomID, "2025-03-10", "10:00", "11:00")); err != nil {
		t.Errorf("不同教室不应冲突: %v", err)
	}
	if _, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-11", "10:00", "11:00")); err != nil {
		t.Errorf("不同日期不应冲突: %v", err)
	}
}

func TestBookingService_Create_PastDate(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})

	_, err := svc.Create(context.Background(), f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-02-28", "10:00", "11:00"))
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("期望 ErrPastDate，实际: %v", err)
	}
	if !pkgerrors.IsValidation(err) {
		t.Error("过去日期应为 ValidationError")
	}
}

func TestBookingService_Create_TodayAllowed(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})

	if _, err := svc.Create(context.Background(), f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-01", "15:00", "16:00")); err != nil {
		t.Errorf("当天应允许预订: %v", err)
	}
}

func TestBookingService_Create_InvalidInput(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.CreateBookingRequest
		want error
	}{
		{"结束早于开始", bookingReq(f.l101.ClassroomID, "2025-03-10", "11:00", "10:00"), ErrInvalidTimeRange},
		{"起止相同", bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "10:00"), ErrInvalidTimeRange},
		{"日期格式错误", bookingReq(f.l101.ClassroomID, "10/03/2025", "10:00", "11:00"), ErrInvalidDate},
		{"时间格式错误", bookingReq(f.l101.ClassroomID, "2025-03-10", "25:00", "26:00"), ErrInvalidClock},
		{"教室不存在", bookingReq("room-missing", "2025-03-10", "10:00", "11:00"), ErrClassroomNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, f.prof.UserID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}

	req := bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")
	req.Purpose = "   "
	if _, err := svc.Create(ctx, f.prof.UserID, req); !pkgerrors.IsValidation(err) {
		t.Errorf("用途为空应为 ValidationError，实际: %v", err)
	}
}

func TestBookingService_Create_NotProfessor(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})

	_, err := svc.Create(context.Background(), f.admin.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if !errors.Is(err, ErrNotProfessor) {
		t.Errorf("期望 ErrNotProfessor，实际: %v", err)
	}
}

func TestBookingService_Create_WithBatch(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	req := bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")
	req.BatchID = &f.batch.BatchID
	resp, err := svc.Create(ctx, f.prof.UserID, req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Batch == nil || resp.Batch.ID != f.batch.BatchID {
		t.Error("响应应包含班级信息")
	}

	missing := "batch-missing"
	req = bookingReq(f.l101.ClassroomID, "2025-03-10", "12:00", "13:00")
	req.BatchID = &missing
	if _, err := svc.Create(ctx, f.prof.UserID, req); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("期望 ErrBatchNotFound，实际: %v", err)
	}
}

func TestBookingService_Create_IntegrityRace(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	f.store.bookingCreateErr = gorm.ErrDuplicatedKey

	_, err := svc.Create(context.Background(), f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if !errors.Is(err, pkgerrors.ErrIntegrityRace) {
		t.Fatalf("唯一约束冲突应识别为竞争，实际: %v", err)
	}
	if !pkgerrors.IsConflict(err) || !strings.Contains(err.Error(), "L101") {
		t.Errorf("竞争应以冲突形式报告并指明教室，实际: %v", err)
	}
}

func TestBookingService_Create_FixedScheduleCheck(t *testing.T) {
	for _, check := range []bool{false, true} {
		svc, f, _ := setupTestBookingService(config.BookingConfig{CheckFixedSchedule: check})
		slot := f.store.addSlot("monday", "09:00", "10:00")
		f.store.addSchedule(f.cs101, f.prof, f.batch, f.l101, slot)

		_, err := svc.Create(context.Background(), f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "09:30", "10:30"))
		if check && !pkgerrors.IsConflict(err) {
			t.Errorf("开启固定课表检查时应冲突，实际: %v", err)
		}
		if !check && err != nil {
			t.Errorf("默认不检查固定课表，实际: %v", err)
		}
	}
}

func TestBookingService_Create_RateLimited(t *testing.T) {
	f := newCampusFixture()
	limiter := &mockLimiter{allow: 1}
	cfg := config.BookingConfig{DefaultDurationMinutes: 60, RateLimitPerMinute: 1}
	svc := NewBookingService(f.repo, nil, limiter, nil, fixedClock{testNow}, cfg, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}
	_, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "12:00", "13:00"))
	if !errors.Is(err, ErrBookingRateLimited) {
		t.Errorf("期望 ErrBookingRateLimited，实际: %v", err)
	}
}

func TestBookingService_Create_InvalidatesCache(t *testing.T) {
	svc, f, cache := setupTestBookingService(config.BookingConfig{})
	cache.data["2025-03-10"] = []byte(`{}`)

	if _, err := svc.Create(context.Background(), f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, ok := cache.data["2025-03-10"]; ok {
		t.Error("预订后应清除当日空闲表缓存")
	}
}

// ── 状态流转测试 ──

func TestBookingService_Cancel_ThenRebook(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, err := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, f.prof.UserID, b.ID)
	if err != nil {
		t.Fatalf("Cancel 应成功: %v", err)
	}
	if cancelled.Status != string(scheduling.BookingCancelled) {
		t.Errorf("期望 cancelled，实际 %s", cancelled.Status)
	}

	// 记录仍可查询
	got, err := svc.Get(ctx, f.prof.UserID, model.RoleProfessor, b.ID)
	if err != nil || got.Status != string(scheduling.BookingCancelled) {
		t.Fatalf("取消后的预订应仍可查询，err=%v", err)
	}

	if _, err := svc.Create(ctx, f.other.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00")); err != nil {
		t.Errorf("取消后同一时段应可再次预订: %v", err)
	}
}

func TestBookingService_Cancel_NotOwner(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if _, err := svc.Cancel(ctx, f.other.UserID, b.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Errorf("期望 ErrNotBookingOwner，实际: %v", err)
	}
}

func TestBookingService_ApproveRejectTransitions(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	approved, err := svc.Approve(ctx, b.ID)
	if err != nil || approved.Status != string(scheduling.BookingApproved) {
		t.Fatalf("Approve 应成功，err=%v", err)
	}
	if _, err := svc.Reject(ctx, b.ID); !errors.Is(err, scheduling.ErrIllegalTransition) {
		t.Errorf("已批准的预订不可驳回，实际: %v", err)
	}
	if _, err := svc.Cancel(ctx, f.prof.UserID, b.ID); err != nil {
		t.Errorf("已批准的预订可由本人取消: %v", err)
	}
	if _, err := svc.Approve(ctx, b.ID); !errors.Is(err, scheduling.ErrIllegalTransition) {
		t.Errorf("已取消的预订不可再批准，实际: %v", err)
	}

	other, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "14:00", "15:00"))
	rejected, err := svc.Reject(ctx, other.ID)
	if err != nil || rejected.Status != string(scheduling.BookingRejected) {
		t.Fatalf("Reject 应成功，err=%v", err)
	}
	if _, err := svc.Cancel(ctx, f.prof.UserID, other.ID); !errors.Is(err, scheduling.ErrIllegalTransition) {
		t.Errorf("已驳回的预订不可取消，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestBookingService_Update_ExcludesSelf(t *testing.T) {
	svc, f, cache := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if _, err := svc.Update(ctx, f.prof.UserID, b.ID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:30", "11:30")); err != nil {
		t.Fatalf("与自身重叠不应视为冲突: %v", err)
	}
	updated, err := svc.Update(ctx, f.prof.UserID, b.ID, bookingReq(f.l101.ClassroomID, "2025-03-11", "10:30", "11:30"))
	if err != nil {
		t.Fatalf("改期应成功: %v", err)
	}
	if updated.Date != "2025-03-11" || updated.StartTime != "10:30" {
		t.Errorf("更新结果不符，实际 %s %s", updated.Date, updated.StartTime)
	}

	joined := strings.Join(cache.invalidated, ",")
	if !strings.Contains(joined, "2025-03-10") || !strings.Contains(joined, "2025-03-11") {
		t.Errorf("新旧日期缓存均应清除，实际 %v", cache.invalidated)
	}
}

func TestBookingService_Update_ConflictWithOthers(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	_, _ = svc.Create(ctx, f.other.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "12:00", "13:00"))
	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))

	_, err := svc.Update(ctx, f.prof.UserID, b.ID, bookingReq(f.l101.ClassroomID, "2025-03-10", "11:30", "12:30"))
	if !pkgerrors.IsConflict(err) {
		t.Errorf("与他人预订重叠应冲突，实际: %v", err)
	}
}

func TestBookingService_Update_OnlyPending(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	_, _ = svc.Approve(ctx, b.ID)

	_, err := svc.Update(ctx, f.prof.UserID, b.ID, bookingReq(f.l101.ClassroomID, "2025-03-10", "12:00", "13:00"))
	if !errors.Is(err, ErrBookingNotEditable) || !errors.Is(err, scheduling.ErrIllegalTransition) {
		t.Errorf("已批准的预订不可修改，实际: %v", err)
	}
}

// ── 查询测试 ──

func TestBookingService_Get_Visibility(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	b, _ := svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	if _, err := svc.Get(ctx, f.other.UserID, model.RoleProfessor, b.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Errorf("他人预订不可见，实际: %v", err)
	}
	if _, err := svc.Get(ctx, f.admin.UserID, model.RoleAdmin, b.ID); err != nil {
		t.Errorf("管理员应可查看: %v", err)
	}
	if _, err := svc.Get(ctx, f.admin.UserID, model.RoleAdmin, "bk-missing"); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("期望 ErrBookingNotFound，实际: %v", err)
	}
}

func TestBookingService_ListMine_Ordered(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	_, _ = svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "10:00", "11:00"))
	_, _ = svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-12", "09:00", "10:00"))
	_, _ = svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", "14:00", "15:00"))

	items, err := svc.ListMine(ctx, f.prof.UserID)
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(items))
	}
	got := items[0].Date + " " + items[0].StartTime + "|" + items[1].Date + " " + items[1].StartTime
	if got != "2025-03-12 09:00|2025-03-10 14:00" {
		t.Errorf("应按日期、开始时间倒序，实际 %s", got)
	}
}

func TestBookingService_List_FilterAndPage(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})
	ctx := context.Background()

	for _, start := range []string{"08:00", "09:00", "10:00"} {
		_, _ = svc.Create(ctx, f.prof.UserID, bookingReq(f.l101.ClassroomID, "2025-03-10", start, scheduling.MustClock(start).Add(60).String()))
	}
	_, _ = svc.Create(ctx, f.prof.UserID, bookingReq(f.l102.ClassroomID, "2025-03-11", "10:00", "11:00"))

	page, err := svc.List(ctx, &dto.BookingListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2},
		Date:              "2025-03-10",
		Status:            "pending",
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Errorf("期望 total=3 且本页 2 条，实际 total=%d len=%d", page.Total, len(page.Items))
	}

	if _, err := svc.List(ctx, &dto.BookingListRequest{Date: "bad"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

func TestBookingService_Prefill(t *testing.T) {
	svc, f, _ := setupTestBookingService(config.BookingConfig{})

	form, err := svc.Prefill(context.Background(), &dto.PrefillRequest{
		ClassroomID: f.l101.ClassroomID,
		Date:        "2025-03-10",
		Time:        "14:00",
	})
	if err != nil {
		t.Fatalf("Prefill 应成功: %v", err)
	}
	if form.StartTime != "14:00" || form.EndTime != "15:00" {
		t.Errorf("默认时长一小时，实际 %s-%s", form.StartTime, form.EndTime)
	}
	if form.Classroom.RoomNumber != "L101" {
		t.Errorf("期望教室 L101，实际 %s", form.Classroom.RoomNumber)
	}
}
