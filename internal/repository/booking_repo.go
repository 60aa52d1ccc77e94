package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// BookingFilter 预订列表查询条件，零值字段不参与过滤
type BookingFilter struct {
	Status      string
	Date        *time.Time
	ClassroomID string
	ProfessorID string
}

// BookingRepository 临时预订数据访问接口（只增改，不删除）
type BookingRepository interface {
	Create(ctx context.Context, b *model.ClassroomBooking) error
	GetByID(ctx context.Context, id string) (*model.ClassroomBooking, error)
	// Update 乐观锁更新，版本不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, b *model.ClassroomBooking) error
	// ListBlocking 指定日期仍占用教室（pending / approved）的预订；classroomID 为空时返回全部教室
	ListBlocking(ctx context.Context, date time.Time, classroomID string) ([]model.ClassroomBooking, error)
	// ListByProfessor 按日期、开始时间倒序；limit <= 0 表示不限
	ListByProfessor(ctx context.Context, professorID string, limit int) ([]model.ClassroomBooking, error)
	List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.ClassroomBooking, int64, error)
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func blockingStatuses() []string {
	out := make([]string, len(scheduling.BlockingStatuses))
	for i, s := range scheduling.BlockingStatuses {
		out[i] = string(s)
	}
	return out
}

func (r *bookingRepo) Create(ctx context.Context, b *model.ClassroomBooking) error {
	return r.db.WithContext(ctx).Omit("Professor", "Classroom", "Batch").Create(b).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.ClassroomBooking, error) {
	var b model.ClassroomBooking
	err := r.db.WithContext(ctx).
		Preload("Professor").
		Preload("Classroom").
		Preload("Batch").
		Where("booking_id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) Update(ctx context.Context, b *model.ClassroomBooking) error {
	result := r.db.WithContext(ctx).
		Model(&model.ClassroomBooking{}).
		Where("booking_id = ? AND version = ?", b.BookingID, b.Version).
		Updates(map[string]interface{}{
			"classroom_id": b.ClassroomID,
			"batch_id":     b.BatchID,
			"date":         b.Date,
			"start_time":   b.StartTime,
			"end_time":     b.EndTime,
			"course_code":  b.CourseCode,
			"course_name":  b.CourseName,
			"purpose":      b.Purpose,
			"status":       b.Status,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	b.Version++
	return nil
}

func (r *bookingRepo) ListBlocking(ctx context.Context, date time.Time, classroomID string) ([]model.ClassroomBooking, error) {
	var items []model.ClassroomBooking
	db := r.db.WithContext(ctx).
		Where("date = ? AND status IN ?", date.Format(scheduling.DateLayout), blockingStatuses())
	if classroomID != "" {
		db = db.Where("classroom_id = ?", classroomID)
	}
	err := db.Order("start_time ASC").Find(&items).Error
	return items, err
}

func (r *bookingRepo) ListByProfessor(ctx context.Context, professorID string, limit int) ([]model.ClassroomBooking, error) {
	var items []model.ClassroomBooking
	db := r.db.WithContext(ctx).
		Preload("Classroom").
		Preload("Batch").
		Where("professor_id = ?", professorID).
		Order("date DESC, start_time DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&items).Error
	return items, err
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.ClassroomBooking, int64, error) {
	var items []model.ClassroomBooking
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ClassroomBooking{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		db = db.Where("date = ?", filter.Date.Format(scheduling.DateLayout))
	}
	if filter.ClassroomID != "" {
		db = db.Where("classroom_id = ?", filter.ClassroomID)
	}
	if filter.ProfessorID != "" {
		db = db.Where("professor_id = ?", filter.ProfessorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Professor").
		Preload("Classroom").
		Preload("Batch").
		Order("date ASC, start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}
