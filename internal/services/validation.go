package services

import (
	"errors"
	"fmt"
	"strings"

	"catalog/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// validationError converts a validator failure into an InvalidInput error.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Internal(err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return apperrors.InvalidInput("Validation failed: " + strings.Join(messages, "; "))
}
