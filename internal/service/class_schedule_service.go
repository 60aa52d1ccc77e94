package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// 课表唯一约束名，与迁移脚本保持一致
const (
	constraintScheduleRoomSlot  = "uk_class_schedules_room_slot"
	constraintScheduleBatchSlot = "uk_class_schedules_batch_slot"
)

// ClassScheduleService 固定课表业务接口
type ClassScheduleService interface {
	Create(ctx context.Context, req *dto.CreateClassScheduleRequest) (*dto.ClassScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassScheduleResponse, error)
	List(ctx context.Context, req *dto.ClassScheduleListRequest) ([]dto.ClassScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}

type classScheduleService struct {
	repo   *repository.Repository
	cache  AvailabilityCache
	logger *zap.Logger
}

// NewClassScheduleService 创建 ClassScheduleService 实例；cache 可为 nil
func NewClassScheduleService(repo *repository.Repository, cache AvailabilityCache, logger *zap.Logger) ClassScheduleService {
	return &classScheduleService{repo: repo, cache: cache, logger: logger}
}

// scheduleRefs 创建课表时解析出的全部引用
type scheduleRefs struct {
	course    *model.Course
	professor *model.User
	batch     *model.Batch
	classroom *model.Classroom
	slot      *model.TimeSlot
}

// ────────────────────── Create ──────────────────────

func (s *classScheduleService) Create(ctx context.Context, req *dto.CreateClassScheduleRequest) (*dto.ClassScheduleResponse, error) {
	refs, err := s.resolveRefs(ctx, req)
	if err != nil {
		return nil, err
	}
	when := slotLabel(refs.slot)

	// 1. 同一教室同一时间段只能安排一门课
	taken, err := s.repo.ClassSchedule.FindByRoomSlot(ctx, refs.classroom.ClassroomID, refs.slot.TimeSlotID)
	if err != nil {
		s.logger.Error("查询教室课表失败", zap.Error(err))
		return nil, err
	}
	if taken != nil {
		return nil, pkgerrors.NewConflict(refs.classroom.RoomNumber, when, taken.ScheduleID)
	}

	// 2. 同一班级同一时间段只能上一门课
	taken, err = s.repo.ClassSchedule.FindByBatchSlot(ctx, refs.batch.BatchID, refs.slot.TimeSlotID)
	if err != nil {
		s.logger.Error("查询班级课表失败", zap.Error(err))
		return nil, err
	}
	if taken != nil {
		return nil, pkgerrors.NewConflict(refs.batch.Name, when, taken.ScheduleID)
	}

	cs := &model.ClassSchedule{
		CourseID:    refs.course.CourseID,
		ProfessorID: refs.professor.UserID,
		BatchID:     refs.batch.BatchID,
		ClassroomID: refs.classroom.ClassroomID,
		TimeSlotID:  refs.slot.TimeSlotID,
	}
	if err := s.repo.ClassSchedule.Create(ctx, cs); err != nil {
		if repository.IsDuplicateKey(err) {
			resource := refs.classroom.RoomNumber
			if repository.ConstraintName(err) == constraintScheduleBatchSlot {
				resource = refs.batch.Name
			}
			s.logger.Warn("课表写入触发唯一约束", zap.String("resource", resource), zap.Error(err))
			return nil, pkgerrors.NewRaceConflict(resource, when)
		}
		s.logger.Error("创建课表失败", zap.Error(err))
		return nil, err
	}

	flushAvailability(ctx, s.cache, s.logger)

	cs.Course, cs.Professor, cs.Batch, cs.Classroom, cs.TimeSlot = refs.course, refs.professor, refs.batch, refs.classroom, refs.slot
	return toClassScheduleResponse(cs), nil
}

func (s *classScheduleService) resolveRefs(ctx context.Context, req *dto.CreateClassScheduleRequest) (*scheduleRefs, error) {
	var (
		refs scheduleRefs
		err  error
	)
	if refs.course, err = s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	if refs.professor, err = s.repo.User.GetByID(ctx, req.ProfessorID); err != nil {
		return nil, notFoundOr(err, ErrProfessorNotFound)
	}
	if !refs.professor.IsProfessor() {
		return nil, ErrNotProfessor
	}
	if refs.batch, err = s.repo.Batch.GetByID(ctx, req.BatchID); err != nil {
		return nil, notFoundOr(err, ErrBatchNotFound)
	}
	if refs.classroom, err = s.repo.Classroom.GetByID(ctx, req.ClassroomID); err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}
	if refs.slot, err = s.repo.TimeSlot.GetByID(ctx, req.TimeSlotID); err != nil {
		return nil, notFoundOr(err, ErrTimeSlotNotFound)
	}
	return &refs, nil
}

// ────────────────────── Query ──────────────────────

func (s *classScheduleService) GetByID(ctx context.Context, id string) (*dto.ClassScheduleResponse, error) {
	cs, err := s.repo.ClassSchedule.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrClassScheduleNotFound)
	}
	return toClassScheduleResponse(cs), nil
}

func (s *classScheduleService) List(ctx context.Context, req *dto.ClassScheduleListRequest) ([]dto.ClassScheduleResponse, error) {
	filter := repository.ClassScheduleFilter{
		ProfessorID: req.ProfessorID,
		ClassroomID: req.ClassroomID,
	}
	if req.BatchID != "" {
		filter.BatchIDs = []string{req.BatchID}
	}
	if req.Day != "" {
		w, err := scheduling.ParseWeekday(req.Day)
		if err != nil {
			return nil, ErrInvalidWeekday
		}
		filter.Day = string(w)
	}

	items, err := s.repo.ClassSchedule.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出课表失败", zap.Error(err))
		return nil, err
	}
	return toClassScheduleList(items), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.ClassSchedule.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrClassScheduleNotFound)
	}
	if err := s.repo.ClassSchedule.Delete(ctx, id); err != nil {
		s.logger.Error("删除课表失败", zap.String("id", id), zap.Error(err))
		return err
	}
	flushAvailability(ctx, s.cache, s.logger)
	return nil
}

// slotLabel "monday 09:00-10:00"
func slotLabel(t *model.TimeSlot) string {
	return t.Day + " " + clockText(t.StartTime) + "-" + clockText(t.EndTime)
}
