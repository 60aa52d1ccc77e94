package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// AvailabilityHandler 空闲表与教室状态 Handler
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

// FreeSlots 某日期各教室整点空闲表
// GET /api/v1/availability?date=2025-03-10
func (h *AvailabilityHandler) FreeSlots(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.svc.FreeSlots(c.Request.Context(), req.Date)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, resp)
}

// ClassroomStatus 各教室在某一时刻的状态
// GET /api/v1/classrooms/status?at=2025-03-10T09:30:00+05:30
func (h *AvailabilityHandler) ClassroomStatus(c *gin.Context) {
	var req dto.ClassroomStatusRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := h.svc.ClassroomStatus(c.Request.Context(), req.At)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, resp)
}
