package service

import (
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/pkg/jwt"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
	"github.com/VeeraVardhan35/campusConnect/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth          AuthService
	User          UserService
	Course        CourseService
	Classroom     ClassroomService
	TimeSlot      TimeSlotService
	Batch         BatchService
	ClassSchedule ClassScheduleService
	Timetable     TimetableService
	Conflict      ConflictService
	Availability  AvailabilityService
	Booking       BookingService
	Dashboard     DashboardService
	Export        ExportService
}

// NewService 创建 Service 聚合；rdb 为 nil 时缓存、限流与 Token 黑名单均不启用
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	m *metrics.Metrics,
	clock Clock,
	logger *zap.Logger,
) *Service {
	var (
		cache     AvailabilityCache
		limiter   RateLimiter
		blacklist TokenBlacklist
	)
	if rdb != nil {
		cache, limiter, blacklist = rdb, rdb, rdb
	}
	loc := cfg.Timetable.Location()

	return &Service{
		Auth:          NewAuthService(repo, jwtMgr, blacklist, logger),
		User:          NewUserService(repo, logger),
		Course:        NewCourseService(repo, logger),
		Classroom:     NewClassroomService(repo, cache, logger),
		TimeSlot:      NewTimeSlotService(repo, cache, logger),
		Batch:         NewBatchService(repo, logger),
		ClassSchedule: NewClassScheduleService(repo, cache, logger),
		Timetable:     NewTimetableService(repo, logger),
		Conflict:      NewConflictService(repo, loc, cfg.Booking.CheckFixedSchedule, logger),
		Availability:  NewAvailabilityService(repo, cache, m, clock, cfg.Timetable, cfg.Redis.AvailabilityTTL, logger),
		Booking:       NewBookingService(repo, cache, limiter, m, clock, cfg.Booking, loc, logger),
		Dashboard:     NewDashboardService(repo, clock, loc, logger),
		Export:        NewExportService(repo, clock, loc, logger),
	}
}
