package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/service"
	pkgerrors "github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/errors"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/response"
)

// ShiftRequestHandler 排班申请模块 HTTP 处理器
type ShiftRequestHandler struct {
	workflowSvc service.ShiftRequestService
	querySvc    service.ShiftRequestQueryService
}

// NewShiftRequestHandler 创建 ShiftRequestHandler
func NewShiftRequestHandler(workflowSvc service.ShiftRequestService, querySvc service.ShiftRequestQueryService) *ShiftRequestHandler {
	return &ShiftRequestHandler{workflowSvc: workflowSvc, querySvc: querySvc}
}

// SaveShiftRequest 保存排班申请（创建或整树覆盖）
// POST /api/v1/shift-requests
func (h *ShiftRequestHandler) SaveShiftRequest(c *gin.Context) {
	var req dto.SaveShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	// ipress 角色只能操作本机构的申请（细粒度授权属外围层，此处仅兜底）
	role, _ := MustGetRole(c)
	if role == "ipress" {
		ipressID, _ := GetIpressID(c)
		if ipressID != req.IpressID {
			response.Forbidden(c, 10003, "无权操作其他机构的排班申请")
			return
		}
	}

	result, err := h.workflowSvc.Save(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// GetShiftRequest 按 ID 获取排班申请（含完整明细树）
// GET /api/v1/shift-requests/:id
func (h *ShiftRequestHandler) GetShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	result, err := h.querySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// GetShiftRequestByScope 按 (周期, 机构) 获取排班申请
// GET /api/v1/shift-requests/scope?period=&ipress_id=
func (h *ShiftRequestHandler) GetShiftRequestByScope(c *gin.Context) {
	period := c.Query("period")
	ipressID := c.Query("ipress_id")
	if period == "" || ipressID == "" {
		response.BadRequest(c, 10001, "period 与 ipress_id 不能为空")
		return
	}

	result, err := h.querySvc.GetByScope(c.Request.Context(), period, ipressID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// ListShiftRequests 列出排班申请（分页）
// GET /api/v1/shift-requests?ipress_id= | ?period= | ?status=
// 按参数优先级选择一种投影：机构 > 周期 > 状态
func (h *ShiftRequestHandler) ListShiftRequests(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	ctx := c.Request.Context()

	var (
		list []dto.ShiftRequestResponse
		err  error
	)
	switch {
	case c.Query("ipress_id") != "":
		list, err = h.querySvc.ListByIpress(ctx, c.Query("ipress_id"))
	case c.Query("period") != "":
		list, err = h.querySvc.ListByPeriod(ctx, c.Query("period"))
	case c.Query("status") != "":
		list, err = h.querySvc.ListByStatus(ctx, c.Query("status"))
	default:
		response.BadRequest(c, 10001, "必须提供 ipress_id、period 或 status 之一")
		return
	}
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	// 投影在服务层一次取回，分页在此裁剪
	total := int64(len(list))
	start := page.GetOffset()
	if start > len(list) {
		start = len(list)
	}
	end := start + page.GetPageSize()
	if end > len(list) {
		end = len(list)
	}
	response.OKPage(c, list[start:end], total, page.GetPage(), page.GetPageSize())
}

// ExistsShiftRequest 检查 (周期, 机构) 下是否已有申请
// GET /api/v1/shift-requests/exists?period=&ipress_id=
func (h *ShiftRequestHandler) ExistsShiftRequest(c *gin.Context) {
	period := c.Query("period")
	ipressID := c.Query("ipress_id")
	if period == "" || ipressID == "" {
		response.BadRequest(c, 10001, "period 与 ipress_id 不能为空")
		return
	}

	exists, err := h.querySvc.Exists(c.Request.Context(), period, ipressID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, dto.ExistsResponse{Exists: exists})
}

// SubmitShiftRequest 提交排班申请
// PUT /api/v1/shift-requests/:id/submit
func (h *ShiftRequestHandler) SubmitShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.workflowSvc.Submit(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// ApproveShiftRequest 批准排班申请
// PUT /api/v1/shift-requests/:id/approve
func (h *ShiftRequestHandler) ApproveShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.workflowSvc.Approve(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// RejectShiftRequest 驳回排班申请
// PUT /api/v1/shift-requests/:id/reject
func (h *ShiftRequestHandler) RejectShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.RejectShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12008, "驳回原因不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.workflowSvc.Reject(c.Request.Context(), id, req.Reason, callerID)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteShiftRequest 删除草稿状态的排班申请
// DELETE /api/v1/shift-requests/:id
func (h *ShiftRequestHandler) DeleteShiftRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.workflowSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListShiftRequestAudit 查看申请的审计日志
// GET /api/v1/shift-requests/:id/audit
func (h *ShiftRequestHandler) ListShiftRequestAudit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	logs, err := h.querySvc.ListAudit(c.Request.Context(), id)
	if err != nil {
		h.handleShiftRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// handleShiftRequestError 统一处理排班申请模块业务错误
func (h *ShiftRequestHandler) handleShiftRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 12001, "排班申请不存在")
	case errors.Is(err, service.ErrInvalidStateTransition):
		response.Conflict(c, 12002, "当前状态不允许该操作")
	case errors.Is(err, service.ErrInvalidBlock):
		response.BadRequest(c, 12003, "时段不在配置的枚举集合内")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12004, "排班日期格式无效")
	case errors.Is(err, service.ErrDateOutOfWindow):
		response.BadRequest(c, 12005, "排班日期早于当前日期")
	case errors.Is(err, service.ErrDuplicateAllocation):
		response.BadRequest(c, 12006, "同一明细内存在重复的日期时段")
	case errors.Is(err, service.ErrRequestEmpty):
		response.BadRequest(c, 12007, "申请不包含任何明细，无法提交")
	case errors.Is(err, service.ErrReasonRequired):
		response.BadRequest(c, 12008, "驳回原因不能为空")
	case errors.Is(err, service.ErrIpressNotFound):
		response.BadRequest(c, 12009, "医疗机构不存在或已停用")
	case errors.Is(err, service.ErrPeriodClosed):
		response.BadRequest(c, 12010, "排班周期不存在或未开放")
	case errors.Is(err, service.ErrInvalidStatusFilter):
		response.BadRequest(c, 12012, "无效的申请状态")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 12011, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
