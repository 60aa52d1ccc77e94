package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// handleCatalogError 课程、教室、时间段、班级共用的错误映射
func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseCodeExists):
		response.Conflict(c, 12001, "课程代码已存在", nil)
	case errors.Is(err, service.ErrRoomNumberExists):
		response.Conflict(c, 12002, "教室编号已存在", nil)
	case errors.Is(err, service.ErrTimeSlotExists):
		response.Conflict(c, 12003, "该星期已存在相同起止时间的时间段", nil)
	case errors.Is(err, service.ErrBatchExists):
		response.Conflict(c, 12004, "该年级、专业、班号的班级已存在", nil)
	case errors.Is(err, service.ErrReferencedByOthers):
		response.Conflict(c, 12005, "记录仍被课表或预订引用，无法删除", nil)
	default:
		handleCommonError(c, err)
	}
}
