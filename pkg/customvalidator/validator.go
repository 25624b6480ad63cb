package customvalidator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterCustomValidations enregistre les règles propres à l'application.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("strict_email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank_trim", isNotBlank); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
