package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/config"
	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/utils"
)

type UploadController struct {
	importService services.ImportServiceInterface
	fileStorage   filestorage.FileStorageInterface
	logger        *zap.Logger
}

func NewUploadController(
	importService services.ImportServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *UploadController {
	return &UploadController{importService: importService, fileStorage: fileStorage, logger: logger}
}

// UploadExcel importe le classeur reçu dans le champ multipart "file".
func (ctrl *UploadController) UploadExcel(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Aucun fichier n'a été transmis"), ctrl.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Erreur lors de la lecture du fichier", err, nil),
			ctrl.logger,
		)
	}
	defer src.Close()

	if err := utils.ValidateFile(fileHeader, src, config.ExcelImportContext); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	rules := config.UploadContexts[config.ExcelImportContext]
	savedPath, err := ctrl.fileStorage.Save(src, fileHeader.Filename, rules.PathPrefix)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Erreur lors de l'enregistrement du fichier", err, nil),
			ctrl.logger,
		)
	}
	defer func() {
		if err := ctrl.fileStorage.Delete(savedPath); err != nil {
			ctrl.logger.Warn("fichier temporaire non supprimé", zap.String("path", savedPath), zap.Error(err))
		}
	}()

	stored, err := ctrl.fileStorage.Open(savedPath)
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Erreur lors de la lecture du fichier", err, nil),
			ctrl.logger,
		)
	}
	defer stored.Close()

	filename := utils.SanitizeFilename(fileHeader.Filename)
	result, err := ctrl.importService.ImportWorkbook(c.Request().Context(), stored, filename, userID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	return utils.SuccessResponse(c, toUploadResultDTO(result), "Fichier importé avec succès", http.StatusOK)
}

func toUploadResultDTO(r *services.ImportResult) dto.UploadResultDTO {
	rejects := make([]dto.SkipEventDTO, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		rejects = append(rejects, dto.SkipEventDTO{Row: s.Row, Reason: s.Reason})
	}
	return dto.UploadResultDTO{
		Filename:     r.Filename,
		Inserted:     r.Inserted,
		Ignored:      r.Ignored,
		Rejected:     len(r.Skipped),
		ImportDate:   r.BatchDate.Format(time.DateOnly),
		ImportDateID: r.BatchID,
		Rejects:      rejects,
	}
}

func (ctrl *UploadController) GetHistory(c echo.Context) error {
	query := dto.NewPaginationQuery()
	if err := bindAndValidate(c, &query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	items, page, err := ctrl.importService.GetUploadHistory(c.Request().Context(), uint64(query.Skip), uint64(query.Limit))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.ListResponse(c, items, page, "Historique des imports")
}

func (ctrl *UploadController) GetDates(c echo.Context) error {
	dates, err := ctrl.importService.GetImportDates(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dates, "Dates d'importation", http.StatusOK)
}

// GetTemplate renvoie un classeur d'exemple à compléter.
func (ctrl *UploadController) GetTemplate(c echo.Context) error {
	f, err := services.BuildTemplate()
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusInternalServerError, "Erreur lors de la génération du modèle", err, nil),
			ctrl.logger,
		)
	}
	defer f.Close()

	fileName := fmt.Sprintf("modele_inventaire_%s.xlsx", time.Now().Format(time.DateOnly))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
