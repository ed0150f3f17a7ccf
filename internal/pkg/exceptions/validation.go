package exceptions

import (
	"strings"

	"mediflow-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

// FormatFirstValidationError turns the first validator error into a
// client-facing message; anything that is not a validator error maps to
// the generic request message.
func FormatFirstValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return constvars.ErrClientCannotProcessRequest
	}

	first := validationErrors[0]
	fieldName := strings.ToLower(first.Field())
	customMessage, ok := constvars.CustomValidationErrorMessages[first.Tag()]
	if !ok {
		customMessage = "is invalid"
	}
	if strings.Contains(customMessage, "%s") {
		customMessage = strings.Replace(customMessage, "%s", first.Param(), 1)
	}
	return fieldName + " " + customMessage
}
