package dto

// ── 排班申请模块 DTO ──

// SaveShiftRequestRequest 保存排班申请请求（创建或整树覆盖）
type SaveShiftRequestRequest struct {
	Period   string             `json:"period"    binding:"required,min=4,max=20"`
	IpressID string             `json:"ipress_id" binding:"required,uuid"`
	Details  []SaveDetailInput  `json:"details"   binding:"omitempty,dive"`
}

// SaveDetailInput 明细行输入
type SaveDetailInput struct {
	HospitalAreaID string          `json:"hospital_area_id" binding:"required,uuid"`
	ServiceID      string          `json:"service_id"       binding:"required,uuid"`
	ActivityID     string          `json:"activity_id"      binding:"required,uuid"`
	SubactivityID  *string         `json:"subactivity_id"   binding:"omitempty,uuid"`
	Dates          []SaveCellInput `json:"dates"            binding:"omitempty,dive"`
}

// SaveCellInput 排班单元格输入
type SaveCellInput struct {
	Date  string `json:"date"  binding:"required"` // "2025-01-10"
	Block string `json:"block" binding:"required"`
}

// RejectShiftRequestRequest 驳回申请请求
type RejectShiftRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ShiftRequestResponse 排班申请响应（表头 + 完整明细树）
type ShiftRequestResponse struct {
	ID           string           `json:"id"`
	Period       string           `json:"period"`
	IpressID     string           `json:"ipress_id"`
	IpressName   string           `json:"ipress_name,omitempty"`
	Status       string           `json:"status"`
	RejectReason string           `json:"reject_reason,omitempty"`
	SubmittedAt  string           `json:"submitted_at,omitempty"`
	Details      []DetailResponse `json:"details"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

// DetailResponse 明细行响应
type DetailResponse struct {
	ID             string         `json:"id"`
	HospitalAreaID string         `json:"hospital_area_id"`
	ServiceID      string         `json:"service_id"`
	ActivityID     string         `json:"activity_id"`
	SubactivityID  *string        `json:"subactivity_id,omitempty"`
	Dates          []CellResponse `json:"dates"`
}

// CellResponse 排班单元格响应
type CellResponse struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Block string `json:"block"`
}

// ExistsResponse 申请存在性响应
type ExistsResponse struct {
	Exists bool `json:"exists"`
}
