package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

// ShiftRequestDetailRepository 排班申请明细数据访问接口
type ShiftRequestDetailRepository interface {
	// ReplaceTree 整树覆盖：删除原明细子树后写入新明细（须在事务内调用）
	ReplaceTree(ctx context.Context, requestID string, details []model.ShiftRequestDetail) error
	DeleteByRequest(ctx context.Context, requestID string) error
	CountByRequest(ctx context.Context, requestID string) (int64, error)
}

type shiftRequestDetailRepo struct {
	db *gorm.DB
}

// NewShiftRequestDetailRepo 创建 ShiftRequestDetailRepository 实例
func NewShiftRequestDetailRepo(db *gorm.DB) ShiftRequestDetailRepository {
	return &shiftRequestDetailRepo{db: db}
}

func (r *shiftRequestDetailRepo) ReplaceTree(ctx context.Context, requestID string, details []model.ShiftRequestDetail) error {
	if err := r.DeleteByRequest(ctx, requestID); err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	for i := range details {
		details[i].ShiftRequestID = requestID
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *shiftRequestDetailRepo) DeleteByRequest(ctx context.Context, requestID string) error {
	// 日期行由外键级联删除
	return r.db.WithContext(ctx).
		Where("shift_request_id = ?", requestID).
		Delete(&model.ShiftRequestDetail{}).Error
}

func (r *shiftRequestDetailRepo) CountByRequest(ctx context.Context, requestID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShiftRequestDetail{}).
		Where("shift_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}
