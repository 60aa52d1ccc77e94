package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

const recentBookingLimit = 5

// DashboardService 教师工作台
type DashboardService interface {
	Professor(ctx context.Context, professorID string) (*dto.ProfessorDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	clock  Clock
	loc    *time.Location
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, clock Clock, loc *time.Location, logger *zap.Logger) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{repo: repo, clock: clock, loc: loc, logger: logger}
}

func (s *dashboardService) Professor(ctx context.Context, professorID string) (*dto.ProfessorDashboardResponse, error) {
	now := s.clock.Now().In(s.loc)
	day := scheduling.WeekdayOf(now)

	today, err := s.repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{
		ProfessorID: professorID,
		Day:         string(day),
	})
	if err != nil {
		s.logger.Error("查询今日课程失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}

	recent, err := s.repo.Booking.ListByProfessor(ctx, professorID, recentBookingLimit)
	if err != nil {
		s.logger.Error("查询最近预订失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}

	return &dto.ProfessorDashboardResponse{
		Today:          now.Format(scheduling.DateLayout),
		Weekday:        string(day),
		TodayClasses:   toClassScheduleList(today),
		RecentBookings: toBookingList(recent),
	}, nil
}
