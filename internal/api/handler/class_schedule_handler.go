package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// ClassScheduleHandler 固定课表模块 HTTP 处理器
type ClassScheduleHandler struct {
	svc service.ClassScheduleService
}

// NewClassScheduleHandler 创建 ClassScheduleHandler
func NewClassScheduleHandler(svc service.ClassScheduleService) *ClassScheduleHandler {
	return &ClassScheduleHandler{svc: svc}
}

// ListClassSchedules 课表列表，可按班级、教师、教室、星期筛选
// GET /api/v1/class-schedules
func (h *ClassScheduleHandler) ListClassSchedules(c *gin.Context) {
	var req dto.ClassScheduleListRequest
	if !bindQuery(c, &req) {
		return
	}

	items, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetClassSchedule 课表详情
// GET /api/v1/class-schedules/:id
func (h *ClassScheduleHandler) GetClassSchedule(c *gin.Context) {
	id, ok := mustParam(c, "id", "课表ID")
	if !ok {
		return
	}

	item, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, item)
}

// CreateClassSchedule 排课；教室或班级在该时间段已被占用时返回 409
// POST /api/v1/class-schedules
func (h *ClassScheduleHandler) CreateClassSchedule(c *gin.Context) {
	var req dto.CreateClassScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.Created(c, item)
}

// DeleteClassSchedule 删除课表
// DELETE /api/v1/class-schedules/:id
func (h *ClassScheduleHandler) DeleteClassSchedule(c *gin.Context) {
	id, ok := mustParam(c, "id", "课表ID")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, nil)
}
