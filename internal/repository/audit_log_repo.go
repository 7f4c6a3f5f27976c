package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

// AuditLogRepository 审计日志数据访问接口（仅追加）
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListByRequest(ctx context.Context, requestID string) ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListByRequest(ctx context.Context, requestID string) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("shift_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
