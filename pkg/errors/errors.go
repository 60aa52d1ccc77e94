package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrIntegrityRace 冲突检查通过后写入时仍触发唯一约束（并发竞争）
var ErrIntegrityRace = errors.New("写入时违反唯一约束")

// ── 用户可修正的校验错误 ──

// ValidationError 参数或业务前置条件不满足
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidation 构造 ValidationError
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ── 时间冲突 ──

// ConflictError 候选时间与已有安排冲突，始终携带冲突的教室/班级与时间
type ConflictError struct {
	// Resource 冲突对象的可读名称，如教室号 "L101" 或班级名
	Resource string
	// When 冲突时间描述，如 "2025-03-10 10:00-11:00" 或 "monday 09:00-10:00"
	When string
	// ConflictIDs 冲突记录 ID
	ConflictIDs []string
	cause       error
}

func (e *ConflictError) Error() string {
	if e.When == "" {
		return fmt.Sprintf("%s 在所选时间已被占用", e.Resource)
	}
	return fmt.Sprintf("%s 在 %s 已被占用", e.Resource, e.When)
}

// Unwrap 竞争导致的冲突可通过 errors.Is(err, ErrIntegrityRace) 识别
func (e *ConflictError) Unwrap() error { return e.cause }

// NewConflict 构造 ConflictError
func NewConflict(resource, when string, ids ...string) *ConflictError {
	return &ConflictError{Resource: resource, When: when, ConflictIDs: ids}
}

// NewRaceConflict 由唯一约束冲突转换而来的 ConflictError
func NewRaceConflict(resource, when string) *ConflictError {
	return &ConflictError{Resource: resource, When: when, cause: ErrIntegrityRace}
}

// ── 引用不存在 ──

// NotFoundError 引用的实体不存在，操作中止
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s不存在", e.Entity)
	}
	return fmt.Sprintf("%s不存在: %s", e.Entity, e.Key)
}

// NewNotFound 构造 NotFoundError
func NewNotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// ── 判定辅助 ──

// IsValidation 是否为 ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict 是否为 ConflictError
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsNotFound 是否为 NotFoundError
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
