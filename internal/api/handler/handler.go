package handler

import (
	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	User          *UserHandler
	Course        *CourseHandler
	Classroom     *ClassroomHandler
	TimeSlot      *TimeSlotHandler
	Batch         *BatchHandler
	ClassSchedule *ClassScheduleHandler
	Timetable     *TimetableHandler
	Availability  *AvailabilityHandler
	Booking       *BookingHandler
	Dashboard     *DashboardHandler
	Export        *ExportHandler
	Status        *StatusHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth, svc.User),
		User:          NewUserHandler(svc.User),
		Course:        NewCourseHandler(svc.Course),
		Classroom:     NewClassroomHandler(svc.Classroom),
		TimeSlot:      NewTimeSlotHandler(svc.TimeSlot),
		Batch:         NewBatchHandler(svc.Batch),
		ClassSchedule: NewClassScheduleHandler(svc.ClassSchedule),
		Timetable:     NewTimetableHandler(svc.Timetable),
		Availability:  NewAvailabilityHandler(svc.Availability),
		Booking:       NewBookingHandler(svc.Booking, svc.Conflict),
		Dashboard:     NewDashboardHandler(svc.Dashboard),
		Export:        NewExportHandler(svc.Export),
		Status:        NewStatusHandler(svc.Availability, cfg.Timetable.StatusPushInterval, cfg.Server.CORS.AllowOrigins, m, logger),
	}
}
