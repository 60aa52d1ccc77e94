package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// BookingHandler 临时预订模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc  service.BookingService
	conflictSvc service.ConflictService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService, conflictSvc service.ConflictService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, conflictSvc: conflictSvc}
}

// ────────────────────── 冲突预检 ──────────────────────

// CheckConflict 提交前预检候选时间是否冲突，不写入任何数据
// POST /api/v1/bookings/check
func (h *BookingHandler) CheckConflict(c *gin.Context) {
	var req dto.CheckBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.conflictSvc.CheckBooking(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, result)
}

// Prefill 从空闲表某格发起预订时的表单默认值
// GET /api/v1/bookings/prefill?classroom_id=&date=&time=
func (h *BookingHandler) Prefill(c *gin.Context) {
	var req dto.PrefillRequest
	if !bindQuery(c, &req) {
		return
	}

	form, err := h.bookingSvc.Prefill(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, form)
}

// ────────────────────── 教师操作 ──────────────────────

// CreateBooking 提交预订
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	profID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), profID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// UpdateBooking 修改待审批的预订
// PUT /api/v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	profID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParam(c, "id", "预订ID")
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookingSvc.Update(c.Request.Context(), profID, id, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// CancelBooking 取消自己的预订
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	profID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParam(c, "id", "预订ID")
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), profID, id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// ListMyBookings 我的预订，按日期与开始时间排序
// GET /api/v1/bookings/mine
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	profID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.ListMine(c.Request.Context(), profID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": bookings})
}

// GetBooking 预订详情；仅预订人本人或管理员可见
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	id, ok := mustParam(c, "id", "预订ID")
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Get(c.Request.Context(), userID, role, id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// ────────────────────── 管理员审批 ──────────────────────

// ListBookings 预订分页列表
// GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var req dto.BookingListRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.bookingSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, page)
}

// ApproveBooking 批准预订
// POST /api/v1/bookings/:id/approve
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	id, ok := mustParam(c, "id", "预订ID")
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Approve(c.Request.Context(), id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// RejectBooking 驳回预订
// POST /api/v1/bookings/:id/reject
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	id, ok := mustParam(c, "id", "预订ID")
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Reject(c.Request.Context(), id)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// handleBookingError 统一处理预订模块业务错误
func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotBookingOwner):
		response.Forbidden(c, 13001, "只能操作自己的预订")
	case errors.Is(err, service.ErrBookingRateLimited):
		response.TooManyRequests(c)
	default:
		handleCommonError(c, err)
	}
}
