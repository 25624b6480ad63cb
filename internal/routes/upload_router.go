package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/middleware"
)

func runUploadRouter(
	e *echo.Echo,
	importService services.ImportServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	uploadController := controllers.NewUploadController(importService, fileStorage, logger)

	uploads := e.Group("/upload", authMW.Auth)
	uploads.POST("/excel", uploadController.UploadExcel)
	uploads.GET("/history", uploadController.GetHistory)
	uploads.GET("/dates", uploadController.GetDates)
	uploads.GET("/template", uploadController.GetTemplate)
}
