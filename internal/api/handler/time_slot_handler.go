package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// TimeSlotHandler 时间段模块 HTTP 处理器
type TimeSlotHandler struct {
	svc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(svc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{svc: svc}
}

// ListTimeSlots 获取时间段列表
// GET /api/v1/time-slots
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	var req dto.TimeSlotListRequest
	if !bindQuery(c, &req) {
		return
	}

	items, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetTimeSlot 获取时间段详情
// GET /api/v1/time-slots/:id
func (h *TimeSlotHandler) GetTimeSlot(c *gin.Context) {
	id, ok := mustParam(c, "id", "时间段ID")
	if !ok {
		return
	}

	item, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, item)
}

// CreateTimeSlot 创建时间段
// POST /api/v1/time-slots
func (h *TimeSlotHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.CreateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.Created(c, item)
}

// UpdateTimeSlot 更新时间段
// PUT /api/v1/time-slots/:id
func (h *TimeSlotHandler) UpdateTimeSlot(c *gin.Context) {
	id, ok := mustParam(c, "id", "时间段ID")
	if !ok {
		return
	}

	var req dto.UpdateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, item)
}

// DeleteTimeSlot 删除时间段；仍被课表或预订引用时拒绝
// DELETE /api/v1/time-slots/:id
func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := mustParam(c, "id", "时间段ID")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}
