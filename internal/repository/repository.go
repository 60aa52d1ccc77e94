package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Course        CourseRepository
	Classroom     ClassroomRepository
	TimeSlot      TimeSlotRepository
	Batch         BatchRepository
	ClassSchedule ClassScheduleRepository
	Booking       BookingRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Course:        NewCourseRepo(db),
		Classroom:     NewClassroomRepo(db),
		TimeSlot:      NewTimeSlotRepo(db),
		Batch:         NewBatchRepo(db),
		ClassSchedule: NewClassScheduleRepo(db),
		Booking:       NewBookingRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 基于事务连接构造新的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误时回滚。
// 未绑定数据库（单元测试中手工组装的聚合）时直接在当前聚合上执行。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// ── PostgreSQL 错误识别 ──

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsDuplicateKey 是否为唯一约束冲突
// TranslateError 开启时为 gorm.ErrDuplicatedKey，否则为原始 pgconn.PgError
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation 是否为外键约束冲突（删除仍被引用的记录）
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// ConstraintName 唯一约束冲突时返回约束名，用于区分冲突维度
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
