package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, room *model.Classroom) error
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	GetByRoomNumber(ctx context.Context, roomNumber string) (*model.Classroom, error)
	// List 按楼宇、房间号排序
	List(ctx context.Context) ([]model.Classroom, error)
	Update(ctx context.Context, room *model.Classroom) error
	Delete(ctx context.Context, id string) error
	// LockByID SELECT ... FOR UPDATE，串行化同一教室的预订写入；须在事务内调用
	LockByID(ctx context.Context, id string) (*model.Classroom, error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, room *model.Classroom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	if err := r.db.WithContext(ctx).Where("classroom_id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *classroomRepo) GetByRoomNumber(ctx context.Context, roomNumber string) (*model.Classroom, error) {
	var room model.Classroom
	if err := r.db.WithContext(ctx).Where("room_number = ?", roomNumber).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *classroomRepo) List(ctx context.Context) ([]model.Classroom, error) {
	var rooms []model.Classroom
	err := r.db.WithContext(ctx).
		Order("building ASC, room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *classroomRepo) Update(ctx context.Context, room *model.Classroom) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *classroomRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("classroom_id = ?", id).Delete(&model.Classroom{}).Error
}

func (r *classroomRepo) LockByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("classroom_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}
