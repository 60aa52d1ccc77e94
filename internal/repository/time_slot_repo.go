package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
)

// TimeSlotRepository 时间段数据访问接口
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	// FindByRange 按 (day, start, end) 自然键查找
	FindByRange(ctx context.Context, day, start, end string) (*model.TimeSlot, error)
	List(ctx context.Context, day string) ([]model.TimeSlot, error)
	Update(ctx context.Context, slot *model.TimeSlot) error
	Delete(ctx context.Context, id string) error
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	if err := r.db.WithContext(ctx).Where("time_slot_id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) FindByRange(ctx context.Context, day, start, end string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("day = ? AND start_time = ? AND end_time = ?", day, start, end).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// dayOrder 按周一至周六排序，避免按字母序
const dayOrder = "CASE day WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 " +
	"WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 ELSE 7 END"

func (r *timeSlotRepo) List(ctx context.Context, day string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	db := r.db.WithContext(ctx)
	if day != "" {
		db = db.Where("day = ?", day)
	}
	err := db.Order(dayOrder + ", start_time ASC").Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) Update(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *timeSlotRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("time_slot_id = ?", id).Delete(&model.TimeSlot{}).Error
}
