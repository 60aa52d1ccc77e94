package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
)

// ── 引用不存在（NotFoundError）──

var (
	ErrCourseNotFound        = pkgerrors.NewNotFound("课程", "")
	ErrClassroomNotFound     = pkgerrors.NewNotFound("教室", "")
	ErrTimeSlotNotFound      = pkgerrors.NewNotFound("时间段", "")
	ErrBatchNotFound         = pkgerrors.NewNotFound("班级", "")
	ErrProfessorNotFound     = pkgerrors.NewNotFound("教师", "")
	ErrUserNotFound          = pkgerrors.NewNotFound("用户", "")
	ErrClassScheduleNotFound = pkgerrors.NewNotFound("课表", "")
	ErrBookingNotFound       = pkgerrors.NewNotFound("预订", "")
)

// ── 用户可修正（ValidationError）──

var (
	ErrPastDate         = pkgerrors.NewValidation("date", "不能预订过去的日期")
	ErrInvalidDate      = pkgerrors.NewValidation("date", "日期格式应为 YYYY-MM-DD")
	ErrInvalidTimeRange = pkgerrors.NewValidation("end_time", "结束时间必须晚于开始时间")
	ErrInvalidClock     = pkgerrors.NewValidation("start_time", "时间格式应为 HH:MM")
	ErrInvalidWeekday   = pkgerrors.NewValidation("day", "星期必须是 monday 至 saturday 之一")
	ErrNotProfessor     = pkgerrors.NewValidation("professor_id", "指定用户不是教师")
	ErrInvalidStatusAt  = pkgerrors.NewValidation("at", "时间格式应为 RFC3339")
)

// ── 唯一键 / 引用冲突 ──

var (
	ErrCourseCodeExists   = errors.New("课程代码已存在")
	ErrRoomNumberExists   = errors.New("教室编号已存在")
	ErrTimeSlotExists     = errors.New("该星期已存在相同起止时间的时间段")
	ErrBatchExists        = errors.New("该年级、专业、班号的班级已存在")
	ErrReferencedByOthers = errors.New("记录仍被课表或预订引用，无法删除")
)

// ── 预订流程 ──

var (
	ErrNotBookingOwner    = errors.New("只能操作自己的预订")
	ErrBookingNotEditable = fmt.Errorf("仅待审批的预订可修改: %w", scheduling.ErrIllegalTransition)
	ErrBookingRateLimited = errors.New("预订提交过于频繁，请稍后再试")
)

// ── 认证 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrTokenRevoked       = errors.New("Token 已失效")
	ErrInvalidRefresh     = errors.New("Refresh Token 无效或已过期")
)

// requiredField 必填字段为空
func requiredField(field, label string) error {
	return pkgerrors.NewValidation(field, label+"不能为空")
}

// notFoundOr gorm.ErrRecordNotFound → sentinel，其余错误原样返回
func notFoundOr(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
