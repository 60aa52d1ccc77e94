package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

func TestDashboardService_Professor(t *testing.T) {
	f := newCampusFixture()
	s := f.store
	// testNow 为周六
	today := s.addSchedule(f.cs101, f.prof, f.batch, f.l101, s.addSlot("saturday", "10:00", "11:00"))
	s.addSchedule(f.cs101, f.prof, f.batch, f.l101, s.addSlot("monday", "10:00", "11:00"))
	s.addSchedule(f.cs101, f.other, f.batch, f.l102, s.addSlot("saturday", "12:00", "13:00"))
	for i := 0; i < 7; i++ {
		seedBooking(f, fmt.Sprintf("bk-%d", i), fmt.Sprintf("2025-03-%02d", 10+i), "10:00", "11:00", scheduling.BookingPending)
	}

	svc := NewDashboardService(f.repo, fixedClock{testNow}, time.UTC, zap.NewNop())
	resp, err := svc.Professor(context.Background(), f.prof.UserID)
	if err != nil {
		t.Fatalf("Professor 应成功: %v", err)
	}
	if resp.Today != "2025-03-01" || resp.Weekday != "saturday" {
		t.Errorf("今日信息错误: %s %s", resp.Today, resp.Weekday)
	}
	if len(resp.TodayClasses) != 1 || resp.TodayClasses[0].ID != today.ScheduleID {
		t.Errorf("今日课程应只有本人周六的课，实际 %d 节", len(resp.TodayClasses))
	}
	if len(resp.RecentBookings) != 5 {
		t.Fatalf("最近预订应截取 5 条，实际 %d", len(resp.RecentBookings))
	}
	if resp.RecentBookings[0].Date != "2025-03-16" {
		t.Errorf("最近预订应按日期倒序，首条实际 %s", resp.RecentBookings[0].Date)
	}
}
