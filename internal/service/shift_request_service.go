package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/dto"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/model"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
	pkgerrors "github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/errors"
)

// ── 排班申请模块业务错误 ──

var (
	ErrRequestNotFound        = errors.New("排班申请不存在")
	ErrInvalidStateTransition = errors.New("当前状态不允许该操作")
	ErrDuplicateAllocation    = errors.New("同一明细内存在重复的日期时段")
	ErrRequestEmpty           = errors.New("申请不包含任何明细，无法提交")
	ErrReasonRequired         = errors.New("驳回原因不能为空")
	ErrIpressNotFound         = errors.New("医疗机构不存在或已停用")
	ErrPeriodClosed           = errors.New("排班周期不存在或未开放")
)

// ShiftRequestService 排班申请工作流接口
// 状态机：draft → submitted → {approved, rejected}；approved/rejected 为终态
type ShiftRequestService interface {
	// Save 创建或整树覆盖：首个保存创建 draft 表头，后续保存在 draft 下替换整棵明细树
	Save(ctx context.Context, req *dto.SaveShiftRequestRequest, callerID string) (*dto.ShiftRequestResponse, error)
	Submit(ctx context.Context, id string, callerID string) (*dto.ShiftRequestResponse, error)
	Approve(ctx context.Context, id string, callerID string) (*dto.ShiftRequestResponse, error)
	Reject(ctx context.Context, id string, reason string, callerID string) (*dto.ShiftRequestResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type shiftRequestService struct {
	repo     *repository.Repository
	calendar *BlockCalendar
	logger   *zap.Logger
}

// NewShiftRequestService 创建 ShiftRequestService 实例
func NewShiftRequestService(repo *repository.Repository, calendar *BlockCalendar, logger *zap.Logger) ShiftRequestService {
	return &shiftRequestService{repo: repo, calendar: calendar, logger: logger}
}

// ────────────────────── Save ──────────────────────

func (s *shiftRequestService) Save(ctx context.Context, req *dto.SaveShiftRequestRequest, callerID string) (*dto.ShiftRequestResponse, error) {
	// 1. 校验明细树（存储不被触碰，校验失败不留任何痕迹）
	details, err := s.buildDetails(req.Details)
	if err != nil {
		return nil, err
	}

	// 2. 校验外部目录引用
	okIpress, err := s.repo.Ipress.ExistsActive(ctx, req.IpressID)
	if err != nil {
		s.logger.Error("校验机构失败", zap.String("ipress_id", req.IpressID), zap.Error(err))
		return nil, err
	}
	if !okIpress {
		return nil, ErrIpressNotFound
	}
	okPeriod, err := s.repo.Period.ExistsOpen(ctx, req.Period)
	if err != nil {
		s.logger.Error("校验周期失败", zap.String("period", req.Period), zap.Error(err))
		return nil, err
	}
	if !okPeriod {
		return nil, ErrPeriodClosed
	}

	// 3. 查找既有表头：不存在则创建；存在且 draft 则覆盖；否则拒绝
	existing, err := s.repo.ShiftRequest.GetHeaderByScope(ctx, req.Period, req.IpressID)
	switch {
	case err == nil:
		if existing.Status != model.StatusDraft {
			return nil, ErrInvalidStateTransition
		}
		if err := s.replaceTree(ctx, existing, details, callerID); err != nil {
			return nil, err
		}
		s.recordAudit(ctx, existing.ShiftRequestID, "save", model.StatusDraft, model.StatusDraft, callerID, "")
		return s.loadResponse(ctx, existing.ShiftRequestID)

	case errors.Is(err, gorm.ErrRecordNotFound):
		id, err := s.create(ctx, req, details, callerID)
		if err != nil {
			return nil, err
		}
		s.recordAudit(ctx, id, "save", "", model.StatusDraft, callerID, "")
		return s.loadResponse(ctx, id)

	default:
		s.logger.Error("查询排班申请失败", zap.String("period", req.Period), zap.Error(err))
		return nil, err
	}
}

// create 抢占式创建：依赖 (period, ipress_id) 唯一索引仲裁并发
// 撞到唯一索引时说明并发写者已建出表头，回退为 draft 覆盖（仅重试一次）
func (s *shiftRequestService) create(ctx context.Context, req *dto.SaveShiftRequestRequest, details []model.ShiftRequestDetail, callerID string) (string, error) {
	header := &model.ShiftRequest{
		Period:   req.Period,
		IpressID: req.IpressID,
		Status:   model.StatusDraft,
		Details:  details,
	}
	header.CreatedBy = &callerID
	header.UpdatedBy = &callerID

	err := s.repo.ShiftRequest.Create(ctx, header)
	if err == nil {
		return header.ShiftRequestID, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		s.logger.Error("创建排班申请失败", zap.String("period", req.Period), zap.Error(err))
		return "", err
	}

	// 并发创建竞争失败：重读后按覆盖路径处理
	existing, err := s.repo.ShiftRequest.GetHeaderByScope(ctx, req.Period, req.IpressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 对方创建后又立即删除；让调用方重试
			return "", pkgerrors.ErrOptimisticLock
		}
		return "", err
	}
	if existing.Status != model.StatusDraft {
		return "", ErrInvalidStateTransition
	}
	if err := s.replaceTree(ctx, existing, details, callerID); err != nil {
		return "", err
	}
	return existing.ShiftRequestID, nil
}

// replaceTree 在单个事务内整树覆盖明细并更新表头元数据
// 表头更新带 status/version 条件：并发提交抢先时此处归零，整个覆盖回滚
func (s *shiftRequestService) replaceTree(ctx context.Context, existing *model.ShiftRequest, details []model.ShiftRequestDetail, callerID string) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	rows, err := txRepo.ShiftRequest.UpdateStatus(ctx, existing.ShiftRequestID, model.StatusDraft, existing.Version,
		map[string]interface{}{"updated_by": callerID})
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新排班申请表头失败", zap.String("id", existing.ShiftRequestID), zap.Error(err))
		return err
	}
	if rows == 0 {
		if tx != nil {
			tx.Rollback()
		}
		return s.classifyStaleWrite(ctx, existing.ShiftRequestID, model.StatusDraft)
	}

	if err := txRepo.ShiftRequestDetail.ReplaceTree(ctx, existing.ShiftRequestID, details); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("覆盖明细树失败", zap.String("id", existing.ShiftRequestID), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// buildDetails 校验并构造明细树
// 每个明细内的 (日期, 时段) 必须构成集合；单元格经 BlockCalendar 归一化
func (s *shiftRequestService) buildDetails(inputs []dto.SaveDetailInput) ([]model.ShiftRequestDetail, error) {
	details := make([]model.ShiftRequestDetail, 0, len(inputs))
	for _, in := range inputs {
		seen := make(map[string]struct{}, len(in.Dates))
		dates := make([]model.ShiftRequestDetailDate, 0, len(in.Dates))
		for _, cell := range in.Dates {
			valid, err := s.calendar.ValidateCell(cell.Date, cell.Block)
			if err != nil {
				return nil, err
			}
			key := valid.Date.Format(cellDateLayout) + "|" + valid.Block
			if _, dup := seen[key]; dup {
				return nil, ErrDuplicateAllocation
			}
			seen[key] = struct{}{}
			dates = append(dates, model.ShiftRequestDetailDate{
				Date:  valid.Date,
				Block: valid.Block,
			})
		}
		details = append(details, model.ShiftRequestDetail{
			HospitalAreaID: in.HospitalAreaID,
			ServiceID:      in.ServiceID,
			ActivityID:     in.ActivityID,
			SubactivityID:  in.SubactivityID,
			Dates:          dates,
		})
	}
	return details, nil
}

// ────────────────────── Submit ──────────────────────

func (s *shiftRequestService) Submit(ctx context.Context, id string, callerID string) (*dto.ShiftRequestResponse, error) {
	header, err := s.getHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if header.Status != model.StatusDraft {
		return nil, ErrInvalidStateTransition
	}

	count, err := s.repo.ShiftRequestDetail.CountByRequest(ctx, id)
	if err != nil {
		s.logger.Error("统计明细失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if count == 0 {
		return nil, ErrRequestEmpty
	}

	now := time.Now()
	if err := s.transition(ctx, header, model.StatusDraft, map[string]interface{}{
		"status":       model.StatusSubmitted,
		"submitted_at": now,
		"updated_by":   callerID,
	}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, id, "submit", model.StatusDraft, model.StatusSubmitted, callerID, "")
	return s.loadResponse(ctx, id)
}

// ────────────────────── Approve ──────────────────────

func (s *shiftRequestService) Approve(ctx context.Context, id string, callerID string) (*dto.ShiftRequestResponse, error) {
	header, err := s.getHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if header.Status != model.StatusSubmitted {
		return nil, ErrInvalidStateTransition
	}

	// 批准时清空驳回原因：reject_reason 仅在 rejected 状态存在
	if err := s.transition(ctx, header, model.StatusSubmitted, map[string]interface{}{
		"status":        model.StatusApproved,
		"reject_reason": "",
		"updated_by":    callerID,
	}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, id, "approve", model.StatusSubmitted, model.StatusApproved, callerID, "")
	return s.loadResponse(ctx, id)
}

// ────────────────────── Reject ──────────────────────

func (s *shiftRequestService) Reject(ctx context.Context, id string, reason string, callerID string) (*dto.ShiftRequestResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	header, err := s.getHeader(ctx, id)
	if err != nil {
		return nil, err
	}
	if header.Status != model.StatusSubmitted {
		return nil, ErrInvalidStateTransition
	}

	if err := s.transition(ctx, header, model.StatusSubmitted, map[string]interface{}{
		"status":        model.StatusRejected,
		"reject_reason": reason,
		"updated_by":    callerID,
	}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, id, "reject", model.StatusSubmitted, model.StatusRejected, callerID, reason)
	return s.loadResponse(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *shiftRequestService) Delete(ctx context.Context, id string, callerID string) error {
	header, err := s.getHeader(ctx, id)
	if err != nil {
		return err
	}
	if header.Status != model.StatusDraft {
		// 已提交的申请永不物理删除（审计要求）
		return ErrInvalidStateTransition
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 先用条件更新占住行，拦截与 submit 的并发竞争
	rows, err := txRepo.ShiftRequest.UpdateStatus(ctx, id, model.StatusDraft, header.Version,
		map[string]interface{}{"updated_by": callerID})
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}
	if rows == 0 {
		if tx != nil {
			tx.Rollback()
		}
		return s.classifyStaleWrite(ctx, id, model.StatusDraft)
	}

	if err := txRepo.ShiftRequestDetail.DeleteByRequest(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除明细树失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.ShiftRequest.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除排班申请失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.recordAudit(ctx, id, "delete", model.StatusDraft, "", callerID, "")
	return nil
}

// ── 内部辅助方法 ──

func (s *shiftRequestService) getHeader(ctx context.Context, id string) (*model.ShiftRequest, error) {
	header, err := s.repo.ShiftRequest.GetHeaderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("查询排班申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return header, nil
}

// transition 执行一次受 CAS 保护的状态流转
func (s *shiftRequestService) transition(ctx context.Context, header *model.ShiftRequest, fromStatus string, updates map[string]interface{}) error {
	rows, err := s.repo.ShiftRequest.UpdateStatus(ctx, header.ShiftRequestID, fromStatus, header.Version, updates)
	if err != nil {
		s.logger.Error("状态流转失败", zap.String("id", header.ShiftRequestID), zap.Error(err))
		return err
	}
	if rows == 0 {
		return s.classifyStaleWrite(ctx, header.ShiftRequestID, fromStatus)
	}
	return nil
}

// classifyStaleWrite 条件更新归零后的错误分类：
// 记录已消失 → NotFound；状态已被推进 → InvalidStateTransition；
// 状态未变但版本号落后 → 乐观锁冲突（调用方重读后可重试一次）
func (s *shiftRequestService) classifyStaleWrite(ctx context.Context, id, expectedStatus string) error {
	current, err := s.repo.ShiftRequest.GetHeaderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if current.Status != expectedStatus {
		return ErrInvalidStateTransition
	}
	return pkgerrors.ErrOptimisticLock
}

// recordAudit 写入审计日志；失败仅记录日志，绝不回滚业务流转
func (s *shiftRequestService) recordAudit(ctx context.Context, requestID, action, fromStatus, toStatus, actorID, detail string) {
	entry := &model.AuditLog{
		ShiftRequestID: requestID,
		Action:         action,
		FromStatus:     fromStatus,
		ToStatus:       toStatus,
		ActorID:        actorID,
		Detail:         detail,
	}
	if err := s.repo.AuditLog.Create(ctx, entry); err != nil {
		s.logger.Warn("写入审计日志失败",
			zap.String("request_id", requestID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *shiftRequestService) loadResponse(ctx context.Context, id string) (*dto.ShiftRequestResponse, error) {
	req, err := s.repo.ShiftRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("加载排班申请失败: %w", err)
	}
	return toShiftRequestResponse(req), nil
}
