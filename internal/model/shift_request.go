package model

import "time"

// ── 申请状态 ──

const (
	StatusDraft     = "draft"     // 草稿：可反复保存、可删除
	StatusSubmitted = "submitted" // 已提交：等待协调员审核
	StatusApproved  = "approved"  // 已批准：终态
	StatusRejected  = "rejected"  // 已驳回：终态，须填写驳回原因
)

// ValidStatus 判断状态取值是否合法
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ShiftRequest 排班申请表头 — 对应 shift_requests
// (period, ipress_id) 全局唯一：同一机构在同一周期至多一份申请
type ShiftRequest struct {
	ShiftRequestID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"shift_request_id"`
	Period         string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_period_ipress" json:"period"`
	IpressID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_period_ipress"        json:"ipress_id"`
	Status         string     `gorm:"type:varchar(20);not null;default:'draft'"              json:"status"`
	RejectReason   string     `gorm:"type:varchar(500)"                                      json:"reject_reason,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	VersionedModel

	// 关联
	Ipress  *Ipress              `gorm:"foreignKey:IpressID;references:IpressID"                                       json:"ipress,omitempty"`
	Details []ShiftRequestDetail `gorm:"foreignKey:ShiftRequestID;references:ShiftRequestID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

// TableName 指定表名
func (ShiftRequest) TableName() string { return "shift_requests" }

// ShiftRequestDetail 申请明细行 — 对应 shift_request_details
// 描述一个 (区域, 服务, 活动, 子活动) 排班目标；目录 ID 为外部系统的不透明引用
type ShiftRequestDetail struct {
	DetailID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"detail_id"`
	ShiftRequestID string  `gorm:"type:uuid;not null;index"                       json:"shift_request_id"`
	HospitalAreaID string  `gorm:"type:uuid;not null"                             json:"hospital_area_id"`
	ServiceID      string  `gorm:"type:uuid;not null"                             json:"service_id"`
	ActivityID     string  `gorm:"type:uuid;not null"                             json:"activity_id"`
	SubactivityID  *string `gorm:"type:uuid"                                      json:"subactivity_id,omitempty"`
	BaseModel

	// 关联
	Dates []ShiftRequestDetailDate `gorm:"foreignKey:DetailID;references:DetailID;constraint:OnDelete:CASCADE" json:"dates,omitempty"`
}

// TableName 指定表名
func (ShiftRequestDetail) TableName() string { return "shift_request_details" }

// ShiftRequestDetailDate 排班单元格 — 对应 shift_request_detail_dates
// (detail_id, date, block) 唯一：同一明细内不允许重复的日期时段
type ShiftRequestDetailDate struct {
	DetailDateID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"detail_date_id"`
	DetailID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_detail_date_block" json:"detail_id"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:uq_detail_date_block" json:"date"`
	Block        string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_detail_date_block" json:"block"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                  json:"created_at"`
}

// TableName 指定表名
func (ShiftRequestDetailDate) TableName() string { return "shift_request_detail_dates" }
