package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
)

const defaultCapacity = 60

// ClassroomService 教室业务接口
type ClassroomService interface {
	Create(ctx context.Context, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error)
	// List 按楼宇、房间号排序
	List(ctx context.Context) ([]dto.ClassroomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, id string) error
}

type classroomService struct {
	repo   *repository.Repository
	cache  AvailabilityCache
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例；空闲表按教室展开，增删改教室需清空 cache
func NewClassroomService(repo *repository.Repository, cache AvailabilityCache, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, requiredField("room_number", "教室编号")
	}
	if err := s.ensureNumberFree(ctx, number, ""); err != nil {
		return nil, err
	}

	room := &model.Classroom{
		RoomNumber: number,
		Building:   strings.TrimSpace(req.Building),
		Capacity:   defaultCapacity,
	}
	if room.Building == "" {
		room.Building = model.DefaultBuilding
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}

	if err := s.repo.Classroom.Create(ctx, room); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrRoomNumberExists
		}
		s.logger.Error("创建教室失败", zap.String("room_number", number), zap.Error(err))
		return nil, err
	}
	flushAvailability(ctx, s.cache, s.logger)
	return toClassroomResponse(room), nil
}

// ────────────────────── Query ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error) {
	room, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}
	return toClassroomResponse(room), nil
}

func (s *classroomService) List(ctx context.Context) ([]dto.ClassroomResponse, error) {
	rooms, err := s.repo.Classroom.List(ctx)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ClassroomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, *toClassroomResponse(&rooms[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	room, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}

	if req.RoomNumber != nil {
		number := strings.TrimSpace(*req.RoomNumber)
		if number == "" {
			return nil, requiredField("room_number", "教室编号")
		}
		if number != room.RoomNumber {
			if err := s.ensureNumberFree(ctx, number, id); err != nil {
				return nil, err
			}
		}
		room.RoomNumber = number
	}
	if req.Building != nil {
		room.Building = strings.TrimSpace(*req.Building)
		if room.Building == "" {
			room.Building = model.DefaultBuilding
		}
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}

	if err := s.repo.Classroom.Update(ctx, room); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrRoomNumberExists
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	flushAvailability(ctx, s.cache, s.logger)
	return toClassroomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classroomService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Classroom.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrClassroomNotFound)
	}
	if err := s.repo.Classroom.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedByOthers
		}
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	flushAvailability(ctx, s.cache, s.logger)
	return nil
}

func (s *classroomService) ensureNumberFree(ctx context.Context, number, selfID string) error {
	existing, err := s.repo.Classroom.GetByRoomNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询教室编号失败", zap.String("room_number", number), zap.Error(err))
		return err
	}
	if existing.ClassroomID != selfID {
		return ErrRoomNumberExists
	}
	return nil
}
