package model

import "time"

// Period 排班周期目录表 — 对应 periods
// 周期标签（如 "2025-Q1"、"2025-03"）为业务主键，核心流程按标签引用
type Period struct {
	PeriodID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Label     string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"label"`
	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	IsOpen    bool       `gorm:"not null;default:true" json:"is_open"` // 是否接受新申请
	SoftDeleteModel
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }
