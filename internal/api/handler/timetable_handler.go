package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// TimetableHandler 周课表模块 Handler
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// Weekly 当前用户的周课表：管理员看全部，教师看自己所授，学生看所在班级
// GET /api/v1/class-schedules/weekly
func (h *TimetableHandler) Weekly(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	resp, err := h.svc.Weekly(c.Request.Context(), userID, role)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, resp)
}

// ProfessorClashes 审计：同一教师同一时间在多处授课
// GET /api/v1/class-schedules/audit/professor-clashes
func (h *TimetableHandler) ProfessorClashes(c *gin.Context) {
	clashes, err := h.svc.ProfessorClashes(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, gin.H{"list": clashes})
}
