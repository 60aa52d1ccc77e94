package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// DashboardHandler 教师工作台
type DashboardHandler struct {
	svc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Professor 今日课程与最近预订
// GET /api/v1/dashboard/professor
func (h *DashboardHandler) Professor(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Professor(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.OK(c, resp)
}
