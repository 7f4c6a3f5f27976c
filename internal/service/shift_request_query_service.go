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

// ErrInvalidStatusFilter 状态过滤参数不在枚举内
var ErrInvalidStatusFilter = errors.New("无效的申请状态")

// ShiftRequestQueryService 排班申请读侧投影
// 所有读取返回完整物化的 表头+明细+日期 树，调用方不会看到半截树
type ShiftRequestQueryService interface {
	GetByID(ctx context.Context, id string) (*dto.ShiftRequestResponse, error)
	GetByScope(ctx context.Context, period, ipressID string) (*dto.ShiftRequestResponse, error)
	ListByIpress(ctx context.Context, ipressID string) ([]dto.ShiftRequestResponse, error)
	ListByPeriod(ctx context.Context, period string) ([]dto.ShiftRequestResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.ShiftRequestResponse, error)
	Exists(ctx context.Context, period, ipressID string) (bool, error)
	ListAudit(ctx context.Context, requestID string) ([]dto.AuditLogResponse, error)
}

type shiftRequestQueryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftRequestQueryService 创建 ShiftRequestQueryService 实例
func NewShiftRequestQueryService(repo *repository.Repository, logger *zap.Logger) ShiftRequestQueryService {
	return &shiftRequestQueryService{repo: repo, logger: logger}
}

func (s *shiftRequestQueryService) GetByID(ctx context.Context, id string) (*dto.ShiftRequestResponse, error) {
	req, err := s.repo.ShiftRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询排班申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toShiftRequestResponse(req), nil
}

func (s *shiftRequestQueryService) GetByScope(ctx context.Context, period, ipressID string) (*dto.ShiftRequestResponse, error) {
	req, err := s.repo.ShiftRequest.GetByScope(ctx, period, ipressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("按范围查询排班申请失败",
			zap.String("period", period),
			zap.String("ipress_id", ipressID),
			zap.Error(err),
		)
		return nil, err
	}
	return toShiftRequestResponse(req), nil
}

func (s *shiftRequestQueryService) ListByIpress(ctx context.Context, ipressID string) ([]dto.ShiftRequestResponse, error) {
	reqs, err := s.repo.ShiftRequest.ListByIpress(ctx, ipressID)
	if err != nil {
		s.logger.Error("按机构列出排班申请失败", zap.String("ipress_id", ipressID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(reqs), nil
}

func (s *shiftRequestQueryService) ListByPeriod(ctx context.Context, period string) ([]dto.ShiftRequestResponse, error) {
	reqs, err := s.repo.ShiftRequest.ListByPeriod(ctx, period)
	if err != nil {
		s.logger.Error("按周期列出排班申请失败", zap.String("period", period), zap.Error(err))
		return nil, err
	}
	return s.toResponses(reqs), nil
}

func (s *shiftRequestQueryService) ListByStatus(ctx context.Context, status string) ([]dto.ShiftRequestResponse, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatusFilter
	}
	reqs, err := s.repo.ShiftRequest.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("按状态列出排班申请失败", zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return s.toResponses(reqs), nil
}

func (s *shiftRequestQueryService) Exists(ctx context.Context, period, ipressID string) (bool, error) {
	exists, err := s.repo.ShiftRequest.ExistsByScope(ctx, period, ipressID)
	if err != nil {
		s.logger.Error("检查排班申请存在性失败",
			zap.String("period", period),
			zap.String("ipress_id", ipressID),
			zap.Error(err),
		)
		return false, err
	}
	return exists, nil
}

func (s *shiftRequestQueryService) ListAudit(ctx context.Context, requestID string) ([]dto.AuditLogResponse, error) {
	logs, err := s.repo.AuditLog.ListByRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toAuditLogResponse(&logs[i]))
	}
	return result, nil
}

func (s *shiftRequestQueryService) toResponses(reqs []model.ShiftRequest) []dto.ShiftRequestResponse {
	result := make([]dto.ShiftRequestResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, *toShiftRequestResponse(&reqs[i]))
	}
	return result
}
