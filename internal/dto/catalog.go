package dto

// ── 目录模块 DTO（IPRESS / 周期）──

// CreateIpressRequest 创建机构请求
type CreateIpressRequest struct {
	Code    string `json:"code"    binding:"required,min=2,max=20"`
	Name    string `json:"name"    binding:"required,min=2,max=200"`
	Network string `json:"network" binding:"omitempty,max=100"`
}

// UpdateIpressRequest 更新机构请求
type UpdateIpressRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=200"`
	Network  *string `json:"network"   binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// IpressResponse 机构信息响应
type IpressResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Network  string `json:"network,omitempty"`
	IsActive bool   `json:"is_active"`
}

// CreatePeriodRequest 创建周期请求
type CreatePeriodRequest struct {
	Label     string  `json:"label"      binding:"required,min=4,max=20"`
	StartDate *string `json:"start_date"` // "2025-01-01"
	EndDate   *string `json:"end_date"`
}

// UpdatePeriodRequest 更新周期请求
type UpdatePeriodRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsOpen    *bool   `json:"is_open"`
}

// PeriodResponse 周期信息响应
type PeriodResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	IsOpen    bool   `json:"is_open"`
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	ID             string `json:"id"`
	ShiftRequestID string `json:"shift_request_id"`
	Action         string `json:"action"`
	FromStatus     string `json:"from_status,omitempty"`
	ToStatus       string `json:"to_status,omitempty"`
	ActorID        string `json:"actor_id"`
	Detail         string `json:"detail,omitempty"`
	CreatedAt      string `json:"created_at"`
}
