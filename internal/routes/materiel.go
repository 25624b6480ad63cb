package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
	"inventory-system/pkg/middleware"
)

func runMaterielRouter(e *echo.Echo, materielService services.MaterielServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewMaterielController(materielService, logger)

	materiels := e.Group("/materiels", authMW.Auth)
	materiels.GET("/all", ctrl.GetAll)
	materiels.GET("/by-commune", ctrl.GetByCommune)
	materiels.GET("/nouveaux", ctrl.GetNew)
	materiels.GET("/search/by-code", ctrl.SearchByCode)
	materiels.GET("/:id", ctrl.FindMateriel)
}
