package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"catalog/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundCarriesTerm(t *testing.T) {
	err := apperrors.NotFound("kids-tee")

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "kids-tee")
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection reset by peer")
	err := apperrors.Internal(cause)

	assert.Equal(t, "Unexpected error, check server logs", err.Error())
	assert.Equal(t, "Unexpected error, check server logs", apperrors.Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestKindOfWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", apperrors.Conflict("Product already exists"))

	assert.True(t, apperrors.Is(wrapped, apperrors.KindConflict))
	assert.False(t, apperrors.Is(wrapped, apperrors.KindNotFound))
	assert.Equal(t, http.StatusConflict, apperrors.HTTPStatus(wrapped))
	assert.Equal(t, "Product already exists", apperrors.Message(wrapped))
}

func TestForeignErrorsAreInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.Equal(t, "Unexpected error, check server logs", apperrors.Message(err))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
}

func TestInvalidInputStatus(t *testing.T) {
	err := apperrors.InvalidInput("limit must be positive")

	assert.Equal(t, "invalid_input", apperrors.KindOf(err).String())
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}
