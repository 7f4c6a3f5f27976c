package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/config"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/api/handler"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/internal/api/middleware"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/jwt"
	"github.com/stypcanto/mini-proyecto-cenate-sub008/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 排班申请模块：机构端提交，协调员端审核
			shiftRequests := authorized.Group("/shift-requests")
			{
				shiftRequests.GET("", h.ShiftRequest.ListShiftRequests)
				shiftRequests.GET("/scope", h.ShiftRequest.GetShiftRequestByScope)
				shiftRequests.GET("/exists", h.ShiftRequest.ExistsShiftRequest)
				shiftRequests.GET("/:id", h.ShiftRequest.GetShiftRequest)
				shiftRequests.GET("/:id/audit", middleware.RoleAuth("admin", "coordinator"), h.ShiftRequest.ListShiftRequestAudit)
				shiftRequests.POST("", middleware.RoleAuth("admin", "ipress"), h.ShiftRequest.SaveShiftRequest)
				shiftRequests.PUT("/:id/submit", middleware.RoleAuth("admin", "ipress"), h.ShiftRequest.SubmitShiftRequest)
				shiftRequests.PUT("/:id/approve", middleware.RoleAuth("admin", "coordinator"), h.ShiftRequest.ApproveShiftRequest)
				shiftRequests.PUT("/:id/reject", middleware.RoleAuth("admin", "coordinator"), h.ShiftRequest.RejectShiftRequest)
				shiftRequests.DELETE("/:id", middleware.RoleAuth("admin", "ipress"), h.ShiftRequest.DeleteShiftRequest)
			}

			// 机构目录模块
			ipress := authorized.Group("/ipress")
			{
				ipress.GET("", h.Ipress.ListIpress)
				ipress.GET("/:id", h.Ipress.GetIpress)
				ipress.POST("", middleware.RoleAuth("admin"), h.Ipress.CreateIpress)
				ipress.PUT("/:id", middleware.RoleAuth("admin"), h.Ipress.UpdateIpress)
				ipress.DELETE("/:id", middleware.RoleAuth("admin"), h.Ipress.DeleteIpress)
			}

			// 周期目录模块
			periods := authorized.Group("/periods")
			{
				periods.GET("", h.Period.ListPeriods)
				periods.GET("/:id", h.Period.GetPeriod)
				periods.POST("", middleware.RoleAuth("admin"), h.Period.CreatePeriod)
				periods.PUT("/:id", middleware.RoleAuth("admin"), h.Period.UpdatePeriod)
				periods.DELETE("/:id", middleware.RoleAuth("admin"), h.Period.DeletePeriod)
			}
		}
	}

	return r
}
