package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

// ShiftRequestRepository 排班申请表头数据访问接口
type ShiftRequestRepository interface {
	Create(ctx context.Context, req *model.ShiftRequest) error
	GetByID(ctx context.Context, id string) (*model.ShiftRequest, error)
	// GetHeaderByID 仅加载表头行（状态检查用，不拉明细树）
	GetHeaderByID(ctx context.Context, id string) (*model.ShiftRequest, error)
	GetByScope(ctx context.Context, period, ipressID string) (*model.ShiftRequest, error)
	// GetHeaderByScope 仅加载表头行
	GetHeaderByScope(ctx context.Context, period, ipressID string) (*model.ShiftRequest, error)
	ExistsByScope(ctx context.Context, period, ipressID string) (bool, error)
	ListByIpress(ctx context.Context, ipressID string) ([]model.ShiftRequest, error)
	ListByPeriod(ctx context.Context, period string) ([]model.ShiftRequest, error)
	ListByStatus(ctx context.Context, status string) ([]model.ShiftRequest, error)
	// UpdateStatus 比较并交换：仅当 status 与 version 均匹配时更新并递增版本号，
	// 返回受影响行数（0 表示并发竞争失败或状态已变）
	UpdateStatus(ctx context.Context, id, fromStatus string, version int, updates map[string]interface{}) (int64, error)
	// Delete 物理删除表头（明细与日期由外键级联删除）
	Delete(ctx context.Context, id string) error
}

type shiftRequestRepo struct {
	db *gorm.DB
}

// NewShiftRequestRepo 创建 ShiftRequestRepository 实例
func NewShiftRequestRepo(db *gorm.DB) ShiftRequestRepository {
	return &shiftRequestRepo{db: db}
}

func (r *shiftRequestRepo) Create(ctx context.Context, req *model.ShiftRequest) error {
	// GORM 在同一事务内级联插入 Details 及其 Dates
	return r.db.WithContext(ctx).Create(req).Error
}

// preloadTree 表头 + 完整明细树；调用方永远拿到物化的整棵树
func (r *shiftRequestRepo) preloadTree(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Ipress").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Details.Dates", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, block ASC")
		})
}

func (r *shiftRequestRepo) GetByID(ctx context.Context, id string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.preloadTree(ctx).
		Where("shift_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) GetHeaderByID(ctx context.Context, id string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.db.WithContext(ctx).
		Where("shift_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) GetByScope(ctx context.Context, period, ipressID string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.preloadTree(ctx).
		Where("period = ? AND ipress_id = ?", period, ipressID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) GetHeaderByScope(ctx context.Context, period, ipressID string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	err := r.db.WithContext(ctx).
		Where("period = ? AND ipress_id = ?", period, ipressID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepo) ExistsByScope(ctx context.Context, period, ipressID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShiftRequest{}).
		Where("period = ? AND ipress_id = ?", period, ipressID).
		Count(&count).Error
	return count > 0, err
}

func (r *shiftRequestRepo) ListByIpress(ctx context.Context, ipressID string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.preloadTree(ctx).
		Where("ipress_id = ?", ipressID).
		Order("period DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *shiftRequestRepo) ListByPeriod(ctx context.Context, period string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.preloadTree(ctx).
		Where("period = ?", period).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *shiftRequestRepo) ListByStatus(ctx context.Context, status string) ([]model.ShiftRequest, error) {
	var reqs []model.ShiftRequest
	err := r.preloadTree(ctx).
		Where("status = ?", status).
		Order("updated_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *shiftRequestRepo) UpdateStatus(ctx context.Context, id, fromStatus string, version int, updates map[string]interface{}) (int64, error) {
	values := make(map[string]interface{}, len(updates)+2)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = gorm.Expr("NOW()")

	res := r.db.WithContext(ctx).
		Model(&model.ShiftRequest{}).
		Where("shift_request_id = ? AND status = ? AND version = ?", id, fromStatus, version).
		Updates(values)
	return res.RowsAffected, res.Error
}

func (r *shiftRequestRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("shift_request_id = ?", id).
		Delete(&model.ShiftRequest{}).Error
}
