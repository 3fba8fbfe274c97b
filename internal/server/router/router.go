package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(intakeHandler *handlers.IntakeHandler, stockHandler *handlers.StockHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/contributions", intakeHandler.SubmitContribution)
		api.POST("/payments/:id/review", intakeHandler.ReviewPayment)
		api.POST("/farmers/:code/reinstate", intakeHandler.ReinstateFarmer)

		api.GET("/stock/today", stockHandler.TodaySummary)
		api.GET("/stock/archive", stockHandler.Archive)
		api.GET("/stock/report", stockHandler.InventoryReport)
		api.POST("/stock/demand/recompute", stockHandler.RecomputeDemand)
		api.POST("/reservations", stockHandler.Reserve)
		api.POST("/sales", stockHandler.DebitSale)
		api.POST("/admin/rollover", stockHandler.Rollover)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
