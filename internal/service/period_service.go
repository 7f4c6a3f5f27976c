package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
)

// ── 周期目录模块业务错误 ──

var (
	ErrPeriodNotExists   = errors.New("周期不存在")
	ErrPeriodLabelExists = errors.New("周期标签已存在")
	ErrPeriodDateInvalid = errors.New("周期日期无效")
)

// PeriodService 排班周期目录业务接口（简单直通 CRUD）
type PeriodService interface {
	Create(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PeriodResponse, error)
	List(ctx context.Context) ([]dto.PeriodResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type periodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeriodService 创建 PeriodService 实例
func NewPeriodService(repo *repository.Repository, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, logger: logger}
}

func (s *periodService) Create(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	period := &model.Period{
		Label:  req.Label,
		IsOpen: true,
	}

	if req.StartDate != nil {
		d, err := time.Parse(cellDateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := time.Parse(cellDateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.EndDate = &d
	}
	if period.StartDate != nil && period.EndDate != nil && !period.EndDate.After(*period.StartDate) {
		return nil, ErrPeriodDateInvalid
	}
	period.CreatedBy = &callerID
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Create(ctx, period); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPeriodLabelExists
		}
		s.logger.Error("创建周期失败", zap.String("label", req.Label), zap.Error(err))
		return nil, err
	}
	return s.toResponse(period), nil
}

func (s *periodService) GetByID(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotExists
		}
		s.logger.Error("查询周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(period), nil
}

func (s *periodService) List(ctx context.Context) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出周期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *s.toResponse(&periods[i]))
	}
	return result, nil
}

func (s *periodService) Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotExists
		}
		s.logger.Error("查询周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.StartDate != nil {
		d, err := time.Parse(cellDateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := time.Parse(cellDateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.EndDate = &d
	}
	if period.StartDate != nil && period.EndDate != nil && !period.EndDate.After(*period.StartDate) {
		return nil, ErrPeriodDateInvalid
	}
	if req.IsOpen != nil {
		period.IsOpen = *req.IsOpen
	}
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Update(ctx, period); err != nil {
		s.logger.Error("更新周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(period), nil
}

func (s *periodService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Period.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotExists
		}
		s.logger.Error("查询周期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Period.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除周期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *periodService) toResponse(period *model.Period) *dto.PeriodResponse {
	return &dto.PeriodResponse{
		ID:        period.PeriodID,
		Label:     period.Label,
		StartDate: formatDate(period.StartDate),
		EndDate:   formatDate(period.EndDate),
		IsOpen:    period.IsOpen,
	}
}
