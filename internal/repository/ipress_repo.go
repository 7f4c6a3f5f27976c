package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
)

// IpressRepository 医疗机构目录数据访问接口
type IpressRepository interface {
	Create(ctx context.Context, ipress *model.Ipress) error
	GetByID(ctx context.Context, id string) (*model.Ipress, error)
	GetByCode(ctx context.Context, code string) (*model.Ipress, error)
	List(ctx context.Context, includeInactive bool) ([]model.Ipress, error)
	Update(ctx context.Context, ipress *model.Ipress) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ExistsActive(ctx context.Context, id string) (bool, error)
}

type ipressRepo struct {
	db *gorm.DB
}

// NewIpressRepo 创建 IpressRepository 实例
func NewIpressRepo(db *gorm.DB) IpressRepository {
	return &ipressRepo{db: db}
}

func (r *ipressRepo) Create(ctx context.Context, ipress *model.Ipress) error {
	return r.db.WithContext(ctx).Create(ipress).Error
}

func (r *ipressRepo) GetByID(ctx context.Context, id string) (*model.Ipress, error) {
	var ipress model.Ipress
	err := r.db.WithContext(ctx).
		Where("ipress_id = ?", id).
		First(&ipress).Error
	if err != nil {
		return nil, err
	}
	return &ipress, nil
}

func (r *ipressRepo) GetByCode(ctx context.Context, code string) (*model.Ipress, error) {
	var ipress model.Ipress
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&ipress).Error
	if err != nil {
		return nil, err
	}
	return &ipress, nil
}

func (r *ipressRepo) List(ctx context.Context, includeInactive bool) ([]model.Ipress, error) {
	var list []model.Ipress
	q := r.db.WithContext(ctx).Order("code ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ipressRepo) Update(ctx context.Context, ipress *model.Ipress) error {
	return r.db.WithContext(ctx).Save(ipress).Error
}

func (r *ipressRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Ipress{}).
		Where("ipress_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *ipressRepo) ExistsActive(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Ipress{}).
		Where("ipress_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}
