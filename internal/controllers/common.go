package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "inventory-system/pkg/errors"
)

// bindAndValidate lit la requête dans payload (dont les valeurs par défaut sont déjà posées)
// puis applique les règles validate.
func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.NewValidationError("Paramètres de requête invalides", nil)
	}
	return c.Validate(payload)
}

func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError("Identifiant invalide",
			map[string]string{name: c.Param(name)})
	}
	return id, nil
}
