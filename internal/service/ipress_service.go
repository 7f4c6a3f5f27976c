package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
)

// ── 机构目录模块业务错误 ──

var (
	ErrIpressNotExists  = errors.New("机构不存在")
	ErrIpressCodeExists = errors.New("机构编码已存在")
)

// IpressService 医疗机构目录业务接口（简单直通 CRUD）
type IpressService interface {
	Create(ctx context.Context, req *dto.CreateIpressRequest, callerID string) (*dto.IpressResponse, error)
	GetByID(ctx context.Context, id string) (*dto.IpressResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.IpressResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateIpressRequest, callerID string) (*dto.IpressResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type ipressService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIpressService 创建 IpressService 实例
func NewIpressService(repo *repository.Repository, logger *zap.Logger) IpressService {
	return &ipressService{repo: repo, logger: logger}
}

func (s *ipressService) Create(ctx context.Context, req *dto.CreateIpressRequest, callerID string) (*dto.IpressResponse, error) {
	ipress := &model.Ipress{
		Code:     req.Code,
		Name:     req.Name,
		Network:  req.Network,
		IsActive: true,
	}
	ipress.CreatedBy = &callerID
	ipress.UpdatedBy = &callerID

	if err := s.repo.Ipress.Create(ctx, ipress); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrIpressCodeExists
		}
		s.logger.Error("创建机构失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	return s.toResponse(ipress), nil
}

func (s *ipressService) GetByID(ctx context.Context, id string) (*dto.IpressResponse, error) {
	ipress, err := s.repo.Ipress.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIpressNotExists
		}
		s.logger.Error("查询机构失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ipress), nil
}

func (s *ipressService) List(ctx context.Context, includeInactive bool) ([]dto.IpressResponse, error) {
	list, err := s.repo.Ipress.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("列出机构失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.IpressResponse, 0, len(list))
	for i := range list {
		result = append(result, *s.toResponse(&list[i]))
	}
	return result, nil
}

func (s *ipressService) Update(ctx context.Context, id string, req *dto.UpdateIpressRequest, callerID string) (*dto.IpressResponse, error) {
	ipress, err := s.repo.Ipress.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIpressNotExists
		}
		s.logger.Error("查询机构失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		ipress.Name = *req.Name
	}
	if req.Network != nil {
		ipress.Network = *req.Network
	}
	if req.IsActive != nil {
		ipress.IsActive = *req.IsActive
	}
	ipress.UpdatedBy = &callerID

	if err := s.repo.Ipress.Update(ctx, ipress); err != nil {
		s.logger.Error("更新机构失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ipress), nil
}

func (s *ipressService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Ipress.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIpressNotExists
		}
		s.logger.Error("查询机构失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Ipress.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除机构失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *ipressService) toResponse(ipress *model.Ipress) *dto.IpressResponse {
	return &dto.IpressResponse{
		ID:       ipress.IpressID,
		Code:     ipress.Code,
		Name:     ipress.Name,
		Network:  ipress.Network,
		IsActive: ipress.IsActive,
	}
}
