package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
)

// AvailabilityService 教室空闲表与实时状态
type AvailabilityService interface {
	// FreeSlots 某日期的教室 × 整点空闲表；date 缺失或无法解析时取今天
	FreeSlots(ctx context.Context, date string) (*dto.AvailabilityResponse, error)
	// ClassroomStatus 各教室在 at 时刻的状态；at 为空时取当前时间，否则须为 RFC3339
	ClassroomStatus(ctx context.Context, at string) (*dto.ClassroomStatusResponse, error)
}

type availabilityService struct {
	repo    *repository.Repository
	cache   AvailabilityCache
	metrics *metrics.Metrics
	clock   Clock
	cfg     config.TimetableConfig
	ttl     time.Duration
	logger  *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例；cache、m 可为 nil
func NewAvailabilityService(
	repo *repository.Repository,
	cache AvailabilityCache,
	m *metrics.Metrics,
	clock Clock,
	cfg config.TimetableConfig,
	ttl time.Duration,
	logger *zap.Logger,
) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		cache:   cache,
		metrics: m,
		clock:   clock,
		cfg:     cfg,
		ttl:     ttl,
		logger:  logger,
	}
}

// ────────────────────── FreeSlots ──────────────────────

func (s *availabilityService) FreeSlots(ctx context.Context, date string) (*dto.AvailabilityResponse, error) {
	loc := s.cfg.Location()
	day, err := scheduling.ParseDate(date, loc)
	if err != nil {
		day = scheduling.DateOf(s.clock.Now().In(loc))
	}
	key := day.Format(scheduling.DateLayout)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	resp, err := s.compute(ctx, day)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetAvailability(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn("写入空闲表缓存失败", zap.String("date", key), zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *availabilityService) fromCache(ctx context.Context, key string) (*dto.AvailabilityResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.GetAvailability(ctx, key)
	if err != nil {
		s.logger.Warn("读取空闲表缓存失败", zap.String("date", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.CacheLookup(false)
		return nil, false
	}
	var resp dto.AvailabilityResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("空闲表缓存内容损坏", zap.String("date", key), zap.Error(err))
		return nil, false
	}
	s.metrics.CacheLookup(true)
	return &resp, true
}

func (s *availabilityService) compute(ctx context.Context, day time.Time) (*dto.AvailabilityResponse, error) {
	checkpoints, err := scheduling.HourlyCheckpoints(s.cfg.FirstCheckpointHour, s.cfg.LastCheckpointHour)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Classroom.List(ctx)
	if err != nil {
		s.logger.Error("查询教室失败", zap.Error(err))
		return nil, err
	}
	schedules, err := s.repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{
		Day: string(scheduling.WeekdayOf(day)),
	})
	if err != nil {
		s.logger.Error("查询固定课表失败", zap.Error(err))
		return nil, err
	}
	bookings, err := s.repo.Booking.ListBlocking(ctx, day, "")
	if err != nil {
		s.logger.Error("查询当日预订失败", zap.Error(err))
		return nil, err
	}

	commitments := make([]scheduling.Commitment, 0, len(schedules)+len(bookings))
	for i := range schedules {
		if r, ok := recurringOf(&schedules[i]); ok {
			commitments = append(commitments, r)
		}
	}
	for i := range bookings {
		if d, ok := datedOf(&bookings[i]); ok {
			commitments = append(commitments, d)
		}
	}

	roomIDs := make([]string, len(rooms))
	classrooms := make([]dto.ClassroomResponse, len(rooms))
	for i := range rooms {
		roomIDs[i] = rooms[i].ClassroomID
		classrooms[i] = *toClassroomResponse(&rooms[i])
	}

	grid := scheduling.ComputeAvailability(day, roomIDs, checkpoints, commitments)

	labels := make([]string, len(grid.Checkpoints))
	for i, cp := range grid.Checkpoints {
		labels[i] = cp.String()
	}
	return &dto.AvailabilityResponse{
		Date:         grid.Date.Format(scheduling.DateLayout),
		Weekday:      string(grid.Weekday),
		PrevDate:     grid.Prev.Format(scheduling.DateLayout),
		NextDate:     grid.Next.Format(scheduling.DateLayout),
		Checkpoints:  labels,
		Classrooms:   classrooms,
		Availability: grid.Free,
	}, nil
}

// ────────────────────── ClassroomStatus ──────────────────────

func (s *availabilityService) ClassroomStatus(ctx context.Context, at string) (*dto.ClassroomStatusResponse, error) {
	loc := s.cfg.Location()
	now := s.clock.Now()
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, ErrInvalidStatusAt
		}
		now = t
	}
	now = now.In(loc)
	day := scheduling.WeekdayOf(now)

	rooms, err := s.repo.Classroom.List(ctx)
	if err != nil {
		s.logger.Error("查询教室失败", zap.Error(err))
		return nil, err
	}
	schedules, err := s.repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{Day: string(day)})
	if err != nil {
		s.logger.Error("查询固定课表失败", zap.Error(err))
		return nil, err
	}

	byRoom := make(map[string][]scheduling.Recurring)
	byID := make(map[string]*dto.ClassScheduleResponse, len(schedules))
	for i := range schedules {
		r, ok := recurringOf(&schedules[i])
		if !ok {
			continue
		}
		byRoom[r.ClassroomID] = append(byRoom[r.ClassroomID], r)
		byID[r.ID] = toClassScheduleResponse(&schedules[i])
	}

	resp := &dto.ClassroomStatusResponse{
		At:         now.Format(time.RFC3339),
		Weekday:    string(day),
		Classrooms: make([]dto.ClassroomStatusItem, 0, len(rooms)),
	}
	for i := range rooms {
		st := scheduling.ResolveRoomStatus(now, byRoom[rooms[i].ClassroomID])
		item := dto.ClassroomStatusItem{
			Classroom: *toClassroomResponse(&rooms[i]),
			Status:    string(st.State),
		}
		// scheduled 时 current_class 为即将开始的一节，next_class 为其后一节
		if st.Current != nil {
			item.CurrentClass = byID[st.Current.ID]
		}
		if st.Next != nil {
			item.NextClass = byID[st.Next.ID]
		}
		resp.Classrooms = append(resp.Classrooms, item)
	}
	return resp, nil
}
