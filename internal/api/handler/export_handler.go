package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出周课表 Excel
// GET /api/v1/export/timetable.xlsx?batch_id=xxx 或 ?professor_id=xxx
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	buf, filename, err := h.exportSvc.TimetableXLSX(c.Request.Context(), c.Query("batch_id"), c.Query("professor_id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportCalendar 导出教师 iCalendar；教师默认导出自己的课表，管理员须指定 professor_id
// GET /api/v1/export/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	profID := c.Query("professor_id")
	switch {
	case profID == "" && role == model.RoleProfessor:
		profID = userID
	case profID == "":
		response.BadRequest(c, 10001, "professor_id 不能为空")
		return
	case role == model.RoleProfessor && profID != userID:
		response.Forbidden(c, 10003, "只能导出自己的日历")
		return
	}

	buf, filename, err := h.exportSvc.ProfessorCalendar(c.Request.Context(), profID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
