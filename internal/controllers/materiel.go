package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type MaterielController struct {
	materielService services.MaterielServiceInterface
	logger          *zap.Logger
}

func NewMaterielController(service services.MaterielServiceInterface, logger *zap.Logger) *MaterielController {
	return &MaterielController{materielService: service, logger: logger}
}

func (ctrl *MaterielController) GetAll(c echo.Context) error {
	query := dto.MaterielsByBatchQuery{PaginationQuery: dto.NewPaginationQuery()}
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	items, page, err := ctrl.materielService.GetAll(c.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.ListResponse(c, items, page, "Liste des matériels")
}

func (ctrl *MaterielController) GetByCommune(c echo.Context) error {
	query := dto.MaterielsByCommuneQuery{PaginationQuery: dto.NewPaginationQuery()}
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	items, page, err := ctrl.materielService.GetByCommune(c.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.ListResponse(c, items, page, "Matériels de la commune")
}

func (ctrl *MaterielController) GetNew(c echo.Context) error {
	query := dto.NewMaterielsQuery{PaginationQuery: dto.NewPaginationQuery()}
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	items, page, err := ctrl.materielService.GetNew(c.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.ListResponse(c, items, page, "Nouveaux matériels")
}

func (ctrl *MaterielController) SearchByCode(c echo.Context) error {
	query := dto.SearchByCodeQuery{PaginationQuery: dto.NewPaginationQuery()}
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	items, page, err := ctrl.materielService.SearchByCode(c.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.ListResponse(c, items, page, "Résultats de la recherche")
}

func (ctrl *MaterielController) FindMateriel(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	res, err := ctrl.materielService.FindMateriel(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Détail du matériel", http.StatusOK)
}
