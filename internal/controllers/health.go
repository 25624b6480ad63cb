package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// Pinger est satisfait par *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthController(db Pinger, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, logger: logger}
}

func (ctrl *HealthController) Root(c echo.Context) error {
	return utils.SuccessResponse(c, map[string]interface{}{
		"name":    "inventory-system",
		"version": "1.0.0",
		"routes": []string{
			"/auth", "/upload", "/materiels", "/statistics", "/health",
		},
	}, "API de gestion du parc informatique", http.StatusOK)
}

func (ctrl *HealthController) Health(c echo.Context) error {
	ctx, cancel := utils.Ctx(c, 3)
	defer cancel()

	if err := ctrl.db.Ping(ctx); err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusServiceUnavailable, "Base de données indisponible", err, nil),
			ctrl.logger,
		)
	}
	return utils.SuccessResponse(c, map[string]string{"database": "ok"}, "Service opérationnel", http.StatusOK)
}
