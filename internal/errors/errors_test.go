package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/edgard/bfhl/internal/errors"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{name: "validation", err: apperrors.NewValidationError("no key", nil), want: apperrors.KindValidation},
		{name: "payload", err: apperrors.NewPayloadError("bad value", nil), want: apperrors.KindPayload},
		{name: "reduction", err: apperrors.NewReductionError("empty", nil), want: apperrors.KindReduction},
		{name: "arithmetic", err: apperrors.NewArithmeticError("overflow", nil), want: apperrors.KindArithmetic},
		{name: "remote call", err: apperrors.NewRemoteCallError("timeout", nil), want: apperrors.KindRemoteCall},
		{name: "remote parse", err: apperrors.NewRemoteParseError("no candidates", nil), want: apperrors.KindRemoteParse},
		{name: "wrapped", err: fmt.Errorf("dispatch: %w", apperrors.NewReductionError("empty", nil)), want: apperrors.KindReduction},
		{name: "plain error", err: errors.New("boom"), want: apperrors.KindUnknown},
		{name: "nil", err: nil, want: apperrors.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, apperrors.HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(apperrors.NewValidationError("two keys", nil)))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(apperrors.NewPayloadError("not a list", nil)))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(apperrors.NewRemoteCallError("down", nil)))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(errors.New("anything")))
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := apperrors.NewRemoteCallError("gemini request failed", cause)

	assert.Equal(t, "gemini request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.RemoteCall)
	assert.NotErrorIs(t, err, apperrors.RemoteParse)
	assert.Equal(t, "empty", apperrors.NewReductionError("empty", nil).Error())
}
