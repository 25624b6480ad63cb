package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type StatisticsController struct {
	statisticsService services.StatisticsServiceInterface
	logger            *zap.Logger
}

func NewStatisticsController(service services.StatisticsServiceInterface, logger *zap.Logger) *StatisticsController {
	return &StatisticsController{statisticsService: service, logger: logger}
}

func (ctrl *StatisticsController) GetStatistics(c echo.Context) error {
	query := dto.NewStatisticsQuery()
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	stats, err := ctrl.statisticsService.GetStatistics(c.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Statistiques du lot", http.StatusOK)
}

func (ctrl *StatisticsController) GetDashboard(c echo.Context) error {
	res, err := ctrl.statisticsService.GetDashboard(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Tableau de bord", http.StatusOK)
}
