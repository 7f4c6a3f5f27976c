package model

import "time"

// AuditLog 工作流审计日志 — 对应 audit_logs
// 仅追加；每次状态流转写入一条，写入失败不回滚业务操作
type AuditLog struct {
	AuditLogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`
	ShiftRequestID string    `gorm:"type:uuid;not null;index"                       json:"shift_request_id"`
	Action         string    `gorm:"type:varchar(20);not null"                      json:"action"` // save | submit | approve | reject | delete
	FromStatus     string    `gorm:"type:varchar(20)"                               json:"from_status,omitempty"`
	ToStatus       string    `gorm:"type:varchar(20)"                               json:"to_status,omitempty"`
	ActorID        string    `gorm:"type:uuid;not null"                             json:"actor_id"`
	Detail         string    `gorm:"type:varchar(500)"                              json:"detail,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
