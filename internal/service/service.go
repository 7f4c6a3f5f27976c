package service

import (
	"go.uber.org/zap"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/config"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/repository"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/jwt"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	ShiftRequest ShiftRequestService
	ShiftQuery   ShiftRequestQueryService
	Ipress       IpressService
	Period       PeriodService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	calendar := NewBlockCalendar(&cfg.Shift)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		ShiftRequest: NewShiftRequestService(repo, calendar, logger),
		ShiftQuery:   NewShiftRequestQueryService(repo, logger),
		Ipress:       NewIpressService(repo, logger),
		Period:       NewPeriodService(repo, logger),
	}
}
