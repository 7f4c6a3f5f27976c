package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	ShiftRequest       ShiftRequestRepository
	ShiftRequestDetail ShiftRequestDetailRepository
	Ipress             IpressRepository
	Period             PeriodRepository
	User               UserRepository
	AuditLog           AuditLogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                 db,
		ShiftRequest:       NewShiftRequestRepo(db),
		ShiftRequestDetail: NewShiftRequestDetailRepo(db),
		Ipress:             NewIpressRepo(db),
		Period:             NewPeriodRepo(db),
		User:               NewUserRepo(db),
		AuditLog:           NewAuditLogRepo(db),
	}
}

// BeginTx 开启数据库事务
// 单元测试使用内存 mock 时 db 为 nil，返回 nil 事务（调用方需做 nil 判断）
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
