package handler

import "github.com/stypcanto/mini-proyecto-cenate-sub008/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	ShiftRequest *ShiftRequestHandler
	Ipress       *IpressHandler
	Period       *PeriodHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		ShiftRequest: NewShiftRequestHandler(svc.ShiftRequest, svc.ShiftQuery),
		Ipress:       NewIpressHandler(svc.Ipress),
		Period:       NewPeriodHandler(svc.Period),
	}
}
