package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// ClassroomHandler 教室模块 HTTP 处理器
type ClassroomHandler struct {
	svc service.ClassroomService
}

// NewClassroomHandler 创建 ClassroomHandler
func NewClassroomHandler(svc service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{svc: svc}
}

// ListClassrooms 获取教室列表
// GET /api/v1/classrooms
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetClassroom 获取教室详情
// GET /api/v1/classrooms/:id
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id, ok := mustParam(c, "id", "教室ID")
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

// CreateClassroom 创建教室
// POST /api/v1/classrooms
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
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

// UpdateClassroom 更新教室
// PUT /api/v1/classrooms/:id
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id, ok := mustParam(c, "id", "教室ID")
	if !ok {
		return
	}

	var req dto.UpdateClassroomRequest
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

// DeleteClassroom 删除教室；仍被课表或预订引用时拒绝
// DELETE /api/v1/classrooms/:id
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	id, ok := mustParam(c, "id", "教室ID")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}
