package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
)

// ClassScheduleFilter 固定课表查询条件，零值字段不参与过滤
type ClassScheduleFilter struct {
	BatchIDs    []string
	ProfessorID string
	ClassroomID string
	Day         string
}

// ClassScheduleRepository 固定课表数据访问接口
type ClassScheduleRepository interface {
	Create(ctx context.Context, cs *model.ClassSchedule) error
	GetByID(ctx context.Context, id string) (*model.ClassSchedule, error)
	// List 预加载全部关联，按星期、开始时间排序
	List(ctx context.Context, filter ClassScheduleFilter) ([]model.ClassSchedule, error)
	// FindByRoomSlot 占用该教室该时间段的课表，不存在时返回 nil, nil
	FindByRoomSlot(ctx context.Context, classroomID, timeSlotID string) (*model.ClassSchedule, error)
	// FindByBatchSlot 该班级该时间段的课表，不存在时返回 nil, nil
	FindByBatchSlot(ctx context.Context, batchID, timeSlotID string) (*model.ClassSchedule, error)
	Delete(ctx context.Context, id string) error
}

type classScheduleRepo struct {
	db *gorm.DB
}

// NewClassScheduleRepo 创建 ClassScheduleRepository 实例
func NewClassScheduleRepo(db *gorm.DB) ClassScheduleRepository {
	return &classScheduleRepo{db: db}
}

func (r *classScheduleRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Course").
		Preload("Professor").
		Preload("Batch").
		Preload("Classroom").
		Preload("TimeSlot")
}

func (r *classScheduleRepo) Create(ctx context.Context, cs *model.ClassSchedule) error {
	return r.db.WithContext(ctx).Omit("Course", "Professor", "Batch", "Classroom", "TimeSlot").Create(cs).Error
}

func (r *classScheduleRepo) GetByID(ctx context.Context, id string) (*model.ClassSchedule, error) {
	var cs model.ClassSchedule
	if err := r.preloaded(ctx).Where("schedule_id = ?", id).First(&cs).Error; err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *classScheduleRepo) List(ctx context.Context, filter ClassScheduleFilter) ([]model.ClassSchedule, error) {
	var items []model.ClassSchedule
	db := r.preloaded(ctx).
		Select("class_schedules.*").
		Joins("JOIN time_slots ts ON ts.time_slot_id = class_schedules.time_slot_id")

	if len(filter.BatchIDs) > 0 {
		db = db.Where("class_schedules.batch_id IN ?", filter.BatchIDs)
	}
	if filter.ProfessorID != "" {
		db = db.Where("class_schedules.professor_id = ?", filter.ProfessorID)
	}
	if filter.ClassroomID != "" {
		db = db.Where("class_schedules.classroom_id = ?", filter.ClassroomID)
	}
	if filter.Day != "" {
		db = db.Where("ts.day = ?", filter.Day)
	}

	err := db.Order("CASE ts.day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 " +
		"WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END, ts.start_time ASC").
		Find(&items).Error
	return items, err
}

func (r *classScheduleRepo) findOne(ctx context.Context, query string, args ...interface{}) (*model.ClassSchedule, error) {
	var cs model.ClassSchedule
	err := r.preloaded(ctx).Where(query, args...).First(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *classScheduleRepo) FindByRoomSlot(ctx context.Context, classroomID, timeSlotID string) (*model.ClassSchedule, error) {
	return r.findOne(ctx, "classroom_id = ? AND time_slot_id = ?", classroomID, timeSlotID)
}

func (r *classScheduleRepo) FindByBatchSlot(ctx context.Context, batchID, timeSlotID string) (*model.ClassSchedule, error) {
	return r.findOne(ctx, "batch_id = ? AND time_slot_id = ?", batchID, timeSlotID)
}

func (r *classScheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("schedule_id = ?", id).Delete(&model.ClassSchedule{}).Error
}
