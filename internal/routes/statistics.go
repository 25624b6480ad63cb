package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
	"inventory-system/pkg/middleware"
)

func runStatisticsRouter(e *echo.Echo, statisticsService services.StatisticsServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewStatisticsController(statisticsService, logger)

	stats := e.Group("/statistics", authMW.Auth)
	stats.GET("/", ctrl.GetStatistics)
	stats.GET("/dashboard", ctrl.GetDashboard)
}
