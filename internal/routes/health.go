package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
)

func runHealthRouter(e *echo.Echo, db controllers.Pinger, logger *zap.Logger) {
	ctrl := controllers.NewHealthController(db, logger)

	e.GET("/", ctrl.Root)
	e.GET("/health", ctrl.Health)
}
