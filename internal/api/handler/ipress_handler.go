package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/service"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/response"
)

// IpressHandler 机构目录模块 HTTP 处理器
type IpressHandler struct {
	ipressSvc service.IpressService
}

// NewIpressHandler 创建 IpressHandler
func NewIpressHandler(ipressSvc service.IpressService) *IpressHandler {
	return &IpressHandler{ipressSvc: ipressSvc}
}

// ListIpress 获取机构列表
// GET /api/v1/ipress?include_inactive=true
func (h *IpressHandler) ListIpress(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	list, err := h.ipressSvc.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetIpress 获取机构详情
// GET /api/v1/ipress/:id
func (h *IpressHandler) GetIpress(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "机构ID不能为空")
		return
	}

	ipress, err := h.ipressSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleIpressError(c, err)
		return
	}

	response.OK(c, ipress)
}

// CreateIpress 创建机构
// POST /api/v1/ipress
func (h *IpressHandler) CreateIpress(c *gin.Context) {
	var req dto.CreateIpressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ipress, err := h.ipressSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleIpressError(c, err)
		return
	}

	response.Created(c, ipress)
}

// UpdateIpress 更新机构
// PUT /api/v1/ipress/:id
func (h *IpressHandler) UpdateIpress(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "机构ID不能为空")
		return
	}

	var req dto.UpdateIpressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ipress, err := h.ipressSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleIpressError(c, err)
		return
	}

	response.OK(c, ipress)
}

// DeleteIpress 删除机构（软删除）
// DELETE /api/v1/ipress/:id
func (h *IpressHandler) DeleteIpress(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "机构ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ipressSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleIpressError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleIpressError 统一处理机构目录模块业务错误
func (h *IpressHandler) handleIpressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIpressNotExists):
		response.NotFound(c, 13001, "机构不存在")
	case errors.Is(err, service.ErrIpressCodeExists):
		response.BadRequest(c, 13002, "机构编码已存在")
	default:
		response.InternalError(c)
	}
}
