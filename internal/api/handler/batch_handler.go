package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/service"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// BatchHandler 班级模块 HTTP 处理器
type BatchHandler struct {
	svc service.BatchService
}

// NewBatchHandler 创建 BatchHandler
func NewBatchHandler(svc service.BatchService) *BatchHandler {
	return &BatchHandler{svc: svc}
}

// ListBatches 获取班级列表
// GET /api/v1/batches
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var req dto.BatchListRequest
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

// GetBatch 获取班级详情
// GET /api/v1/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	id, ok := mustParam(c, "id", "班级ID")
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

// CreateBatch 创建班级
// POST /api/v1/batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
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

// UpdateBatch 更新班级
// PUT /api/v1/batches/:id
func (h *BatchHandler) UpdateBatch(c *gin.Context) {
	id, ok := mustParam(c, "id", "班级ID")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
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

// DeleteBatch 删除班级；仍被课表或预订引用时拒绝
// DELETE /api/v1/batches/:id
func (h *BatchHandler) DeleteBatch(c *gin.Context) {
	id, ok := mustParam(c, "id", "班级ID")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}
