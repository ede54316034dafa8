package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agent-dashboard/internal/api_gateway/handler"
	"github.com/agent-dashboard/internal/api_gateway/middleware"
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	sessions SessionStore,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// Page loads bring a dismissed maintenance notice back
	page := middleware.RestoreNotice(sessions)

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", accountHandler.Login)

		authed := v1.Group("", middleware.Auth(sessions))
		{
			authed.POST("/auth/logout", accountHandler.Logout)
			authed.GET("/session", page, accountHandler.Session)
			authed.GET("/maintenance", accountHandler.Maintenance)
			authed.POST("/maintenance/dismiss", accountHandler.DismissMaintenance)
			authed.GET("/security-payment", accountHandler.SecurityPayment)

			authed.GET("/dashboard", page, transactionHandler.Dashboard)
			authed.GET("/commissions", page, transactionHandler.Commissions)

			// Deposit and withdrawal views share handlers bound to their class
			for path, class := range map[string]shared.TransactionClass{
				"/deposits":    shared.TransactionClassDeposit,
				"/withdrawals": shared.TransactionClassWithdrawal,
			} {
				group := authed.Group(path)
				group.GET("", page, transactionHandler.List(class))
				group.GET("/:number", transactionHandler.Get(class))
				group.POST("/:number/confirm", transactionHandler.Confirm(class))
				group.POST("/:number/reject", transactionHandler.Reject(class))
			}
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
