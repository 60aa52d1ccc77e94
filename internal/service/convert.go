package service

import (
	"sort"
	"time"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

const timestampLayout = time.RFC3339

// ── model → dto ──

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	if c == nil {
		return nil
	}
	return &dto.CourseResponse{ID: c.CourseID, Code: c.Code, Name: c.Name, Credits: c.Credits}
}

func toClassroomResponse(r *model.Classroom) *dto.ClassroomResponse {
	if r == nil {
		return nil
	}
	return &dto.ClassroomResponse{ID: r.ClassroomID, RoomNumber: r.RoomNumber, Building: r.Building, Capacity: r.Capacity}
}

func toBatchResponse(b *model.Batch) *dto.BatchResponse {
	if b == nil {
		return nil
	}
	return &dto.BatchResponse{ID: b.BatchID, Name: b.Name, Year: b.Year, Branch: b.Branch, Section: b.Section}
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.Name, ShortName: u.ShortName}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ShortName: u.ShortName,
		Year:      u.Year,
		Branch:    u.Branch,
		Section:   u.Section,
	}
}

// clockText 将数据库中的 "09:00:00" 规整为 "09:00"，无法解析时原样返回
func clockText(s string) string {
	c, err := scheduling.ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}

func toTimeSlotResponse(t *model.TimeSlot) *dto.TimeSlotResponse {
	if t == nil {
		return nil
	}
	start, end := clockText(t.StartTime), clockText(t.EndTime)
	return &dto.TimeSlotResponse{
		ID:        t.TimeSlotID,
		Day:       t.Day,
		StartTime: start,
		EndTime:   end,
		Label:     t.Weekday().Title() + " " + start + "-" + end,
	}
}

func toClassScheduleResponse(cs *model.ClassSchedule) *dto.ClassScheduleResponse {
	if cs == nil {
		return nil
	}
	return &dto.ClassScheduleResponse{
		ID:        cs.ScheduleID,
		Course:    toCourseResponse(cs.Course),
		Professor: toUserBrief(cs.Professor),
		Batch:     toBatchResponse(cs.Batch),
		Classroom: toClassroomResponse(cs.Classroom),
		TimeSlot:  toTimeSlotResponse(cs.TimeSlot),
	}
}

func toClassScheduleList(items []model.ClassSchedule) []dto.ClassScheduleResponse {
	out := make([]dto.ClassScheduleResponse, 0, len(items))
	for i := range items {
		out = append(out, *toClassScheduleResponse(&items[i]))
	}
	return out
}

func toBookingResponse(b *model.ClassroomBooking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:          b.BookingID,
		Professor:   toUserBrief(b.Professor),
		Classroom:   toClassroomResponse(b.Classroom),
		ClassroomID: b.ClassroomID,
		Batch:       toBatchResponse(b.Batch),
		Date:        b.DateString(),
		StartTime:   clockText(b.StartTime),
		EndTime:     clockText(b.EndTime),
		CourseCode:  b.CourseCode,
		CourseName:  b.CourseName,
		Purpose:     b.Purpose,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.Format(timestampLayout),
		UpdatedAt:   b.UpdatedAt.Format(timestampLayout),
	}
	if iv, err := b.Interval(); err == nil {
		resp.DurationMinutes = iv.Minutes()
	}
	return resp
}

func toBookingList(items []model.ClassroomBooking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(items))
	for i := range items {
		out = append(out, *toBookingResponse(&items[i]))
	}
	return out
}

// ── model → scheduling ──

// recurringOf 固定课表 → 周期性占用；TimeSlot 未预加载或时间非法时 ok=false
func recurringOf(cs *model.ClassSchedule) (scheduling.Recurring, bool) {
	if cs.TimeSlot == nil {
		return scheduling.Recurring{}, false
	}
	iv, err := cs.TimeSlot.Interval()
	if err != nil {
		return scheduling.Recurring{}, false
	}
	return scheduling.Recurring{
		ID:          cs.ScheduleID,
		ClassroomID: cs.ClassroomID,
		Day:         cs.TimeSlot.Weekday(),
		Slot:        iv,
	}, true
}

// datedOf 预订 → 按日期占用
func datedOf(b *model.ClassroomBooking) (scheduling.Dated, bool) {
	iv, err := b.Interval()
	if err != nil {
		return scheduling.Dated{}, false
	}
	return scheduling.Dated{
		ID:          b.BookingID,
		ClassroomID: b.ClassroomID,
		Date:        b.Date,
		Slot:        iv,
	}, true
}

// periodsOf 去重后的节次标签，按开始时间排序
func periodsOf(slots []*model.TimeSlot) []string {
	type period struct {
		iv    scheduling.Interval
		label string
	}
	seen := make(map[string]bool)
	var ps []period
	for _, ts := range slots {
		iv, err := ts.Interval()
		if err != nil {
			continue
		}
		label := iv.String()
		if seen[label] {
			continue
		}
		seen[label] = true
		ps = append(ps, period{iv: iv, label: label})
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].iv.Start != ps[j].iv.Start {
			return ps[i].iv.Start < ps[j].iv.Start
		}
		return ps[i].iv.End < ps[j].iv.End
	})
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.label
	}
	return out
}
