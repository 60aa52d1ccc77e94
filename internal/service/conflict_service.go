package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// ConflictService 预订冲突预检
type ConflictService interface {
	CheckBooking(ctx context.Context, req *dto.CheckBookingRequest) (*dto.ConflictCheckResponse, error)
}

type conflictService struct {
	repo          *repository.Repository
	loc           *time.Location
	checkSchedule bool
	logger        *zap.Logger
}

// NewConflictService 创建 ConflictService 实例；checkSchedule 为 true 时同时检查固定课表
func NewConflictService(repo *repository.Repository, loc *time.Location, checkSchedule bool, logger *zap.Logger) ConflictService {
	return &conflictService{repo: repo, loc: loc, checkSchedule: checkSchedule, logger: logger}
}

func (s *conflictService) CheckBooking(ctx context.Context, req *dto.CheckBookingRequest) (*dto.ConflictCheckResponse, error) {
	date, slot, err := parseBookingWindow(s.loc, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}

	conflict, err := detectBookingConflict(ctx, s.repo, room, date, slot, req.ExcludeID, s.checkSchedule)
	if err != nil {
		s.logger.Error("冲突检查失败", zap.String("classroom_id", room.ClassroomID), zap.Error(err))
		return nil, err
	}
	if conflict == nil {
		return &dto.ConflictCheckResponse{Conflict: false}, nil
	}
	return &dto.ConflictCheckResponse{
		Conflict:    true,
		Reason:      conflict.Error(),
		ConflictIDs: conflict.ConflictIDs,
	}, nil
}

// ── 共享的检查逻辑（预检与写入路径共用） ──

// detectBookingConflict 返回候选区间与已有占用的冲突，无冲突时返回 nil, nil。
// 已有预订仅统计 pending / approved；excludeID 为编辑中的预订本身。
func detectBookingConflict(
	ctx context.Context,
	repo *repository.Repository,
	room *model.Classroom,
	date time.Time,
	slot scheduling.Interval,
	excludeID string,
	checkSchedule bool,
) (*pkgerrors.ConflictError, error) {
	when := date.Format(scheduling.DateLayout) + " " + slot.String()

	bookings, err := repo.Booking.ListBlocking(ctx, date, room.ClassroomID)
	if err != nil {
		return nil, err
	}
	existing := make([]scheduling.Dated, 0, len(bookings))
	for i := range bookings {
		if d, ok := datedOf(&bookings[i]); ok {
			existing = append(existing, d)
		}
	}
	candidate := scheduling.Dated{ClassroomID: room.ClassroomID, Date: date, Slot: slot}
	if hits := scheduling.FindConflicts(candidate, existing, excludeID); len(hits) > 0 {
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
		}
		return pkgerrors.NewConflict(room.RoomNumber, when, ids...), nil
	}

	if !checkSchedule {
		return nil, nil
	}
	schedules, err := repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{
		ClassroomID: room.ClassroomID,
		Day:         string(scheduling.WeekdayOf(date)),
	})
	if err != nil {
		return nil, err
	}
	recurring := make([]scheduling.Recurring, 0, len(schedules))
	for i := range schedules {
		if r, ok := recurringOf(&schedules[i]); ok {
			recurring = append(recurring, r)
		}
	}
	if hits := scheduling.FindScheduleConflicts(room.ClassroomID, date, slot, recurring); len(hits) > 0 {
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
		}
		return pkgerrors.NewConflict(room.RoomNumber, when, ids...), nil
	}
	return nil, nil
}

// parseBookingWindow 解析日期与起止时间，错误统一转换为 ValidationError
func parseBookingWindow(loc *time.Location, date, start, end string) (time.Time, scheduling.Interval, error) {
	d, err := scheduling.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, scheduling.Interval{}, ErrInvalidDate
	}
	iv, err := scheduling.ParseInterval(start, end)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidInterval) {
			return time.Time{}, scheduling.Interval{}, ErrInvalidTimeRange
		}
		return time.Time{}, scheduling.Interval{}, ErrInvalidClock
	}
	return d, iv, nil
}
