package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// ListCourses 获取课程列表
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetCourse 获取课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := mustParam(c, "id", "课程ID")
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

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
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

// UpdateCourse 更新课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := mustParam(c, "id", "课程ID")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
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

// DeleteCourse 删除课程；仍被课表或预订引用时拒绝
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := mustParam(c, "id", "课程ID")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}
