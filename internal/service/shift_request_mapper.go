package service

import (
	"time"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

const tsLayout = "2006-01-02T15:04:05Z07:00"

// toShiftRequestResponse 将表头 + 完整明细树映射为响应 DTO
func toShiftRequestResponse(req *model.ShiftRequest) *dto.ShiftRequestResponse {
	details := make([]dto.DetailResponse, 0, len(req.Details))
	for i := range req.Details {
		details = append(details, toDetailResponse(&req.Details[i]))
	}

	resp := &dto.ShiftRequestResponse{
		ID:           req.ShiftRequestID,
		Period:       req.Period,
		IpressID:     req.IpressID,
		Status:       req.Status,
		RejectReason: req.RejectReason,
		Details:      details,
		CreatedAt:    req.CreatedAt.Format(tsLayout),
		UpdatedAt:    req.UpdatedAt.Format(tsLayout),
	}
	if req.Ipress != nil {
		resp.IpressName = req.Ipress.Name
	}
	if req.SubmittedAt != nil {
		resp.SubmittedAt = req.SubmittedAt.Format(tsLayout)
	}
	return resp
}

func toDetailResponse(d *model.ShiftRequestDetail) dto.DetailResponse {
	dates := make([]dto.CellResponse, 0, len(d.Dates))
	for _, cell := range d.Dates {
		dates = append(dates, dto.CellResponse{
			ID:    cell.DetailDateID,
			Date:  cell.Date.Format(cellDateLayout),
			Block: cell.Block,
		})
	}
	return dto.DetailResponse{
		ID:             d.DetailID,
		HospitalAreaID: d.HospitalAreaID,
		ServiceID:      d.ServiceID,
		ActivityID:     d.ActivityID,
		SubactivityID:  d.SubactivityID,
		Dates:          dates,
	}
}

// toAuditLogResponse 审计日志映射
func toAuditLogResponse(e *model.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:             e.AuditLogID,
		ShiftRequestID: e.ShiftRequestID,
		Action:         e.Action,
		FromStatus:     e.FromStatus,
		ToStatus:       e.ToStatus,
		ActorID:        e.ActorID,
		Detail:         e.Detail,
		CreatedAt:      e.CreatedAt.Format(tsLayout),
	}
}

// formatDate 可空日期格式化
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(cellDateLayout)
}
