package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
)

// BatchFilter 班级查询条件，零值字段不参与过滤
type BatchFilter struct {
	Year    int
	Branch  string
	Section string
}

// BatchRepository 班级数据访问接口
type BatchRepository interface {
	Create(ctx context.Context, batch *model.Batch) error
	GetByID(ctx context.Context, id string) (*model.Batch, error)
	GetByCohort(ctx context.Context, year int, branch, section string) (*model.Batch, error)
	List(ctx context.Context, filter BatchFilter) ([]model.Batch, error)
	Update(ctx context.Context, batch *model.Batch) error
	Delete(ctx context.Context, id string) error
}

type batchRepo struct {
	db *gorm.DB
}

// NewBatchRepo 创建 BatchRepository 实例
func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) Create(ctx context.Context, batch *model.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepo) GetByID(ctx context.Context, id string) (*model.Batch, error) {
	var batch model.Batch
	if err := r.db.WithContext(ctx).Where("batch_id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) GetByCohort(ctx context.Context, year int, branch, section string) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.WithContext(ctx).
		Where("year = ? AND branch = ? AND section = ?", year, branch, section).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) List(ctx context.Context, filter BatchFilter) ([]model.Batch, error) {
	var batches []model.Batch
	db := r.db.WithContext(ctx)
	if filter.Year != 0 {
		db = db.Where("year = ?", filter.Year)
	}
	if filter.Branch != "" {
		db = db.Where("branch = ?", filter.Branch)
	}
	if filter.Section != "" {
		db = db.Where("section = ?", filter.Section)
	}
	err := db.Order("year ASC, branch ASC, section ASC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) Update(ctx context.Context, batch *model.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *batchRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("batch_id = ?", id).Delete(&model.Batch{}).Error
}
