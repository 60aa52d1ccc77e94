package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

// TimeSlotService 时间段业务接口
type TimeSlotService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error)
	List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string) error
}

type timeSlotService struct {
	repo   *repository.Repository
	cache  AvailabilityCache
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例；cache 可为 nil
func NewTimeSlotService(repo *repository.Repository, cache AvailabilityCache, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	day, iv, err := parseSlot(req.Day, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	slot := &model.TimeSlot{
		Day:       string(day),
		StartTime: iv.Start.String(),
		EndTime:   iv.End.String(),
	}
	if err := s.ensureRangeFree(ctx, slot, ""); err != nil {
		return nil, err
	}

	if err := s.repo.TimeSlot.Create(ctx, slot); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrTimeSlotExists
		}
		s.logger.Error("创建时间段失败", zap.String("day", slot.Day), zap.Error(err))
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotService) List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error) {
	var day string
	if req.Day != "" {
		w, err := scheduling.ParseWeekday(req.Day)
		if err != nil {
			return nil, ErrInvalidWeekday
		}
		day = string(w)
	}

	slots, err := s.repo.TimeSlot.List(ctx, day)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toTimeSlotResponse(&slots[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timeSlotService) Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	dayText, start, end := slot.Day, slot.StartTime, slot.EndTime
	if req.Day != nil {
		dayText = *req.Day
	}
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}

	day, iv, err := parseSlot(dayText, start, end)
	if err != nil {
		return nil, err
	}
	slot.Day = string(day)
	slot.StartTime = iv.Start.String()
	slot.EndTime = iv.End.String()

	if err := s.ensureRangeFree(ctx, slot, id); err != nil {
		return nil, err
	}
	if err := s.repo.TimeSlot.Update(ctx, slot); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrTimeSlotExists
		}
		s.logger.Error("更新时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	// 引用该时间段的课表随之移动
	flushAvailability(ctx, s.cache, s.logger)
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotService) Delete(ctx context.Context, id string) error {
	_, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.TimeSlot.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedByOthers
		}
		s.logger.Error("删除时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	flushAvailability(ctx, s.cache, s.logger)
	return nil
}

// ── 内部辅助方法 ──

// parseSlot 校验星期与起止时间
func parseSlot(day, start, end string) (scheduling.Weekday, scheduling.Interval, error) {
	w, err := scheduling.ParseWeekday(day)
	if err != nil {
		return "", scheduling.Interval{}, ErrInvalidWeekday
	}
	iv, err := scheduling.ParseInterval(start, end)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidInterval) {
			return "", scheduling.Interval{}, ErrInvalidTimeRange
		}
		return "", scheduling.Interval{}, ErrInvalidClock
	}
	return w, iv, nil
}

func (s *timeSlotService) ensureRangeFree(ctx context.Context, slot *model.TimeSlot, selfID string) error {
	existing, err := s.repo.TimeSlot.FindByRange(ctx, slot.Day, slot.StartTime, slot.EndTime)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询时间段失败", zap.String("day", slot.Day), zap.Error(err))
		return err
	}
	if existing.TimeSlotID != selfID {
		return ErrTimeSlotExists
	}
	return nil
}
