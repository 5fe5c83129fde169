package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := SheetFetch("Error 404: No se pudo cargar la hoja", nil)
	wrapped := Wrap(base, "loading participantes")

	assert.Equal(t, CodeSheetFetchFailed, GetCode(wrapped))
	assert.True(t, IsSheetFailure(wrapped))
	assert.Contains(t, wrapped.Error(), "loading participantes")
	assert.Contains(t, wrapped.Error(), "No se pudo cargar la hoja")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 2: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("section"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, HasCode(err, CodeNotFound))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeExportFailed, fmt.Errorf("disk full"))
	assert.Equal(t, CodeExportFailed, GetCode(err))
	assert.False(t, IsSheetFailure(err))
}

func TestHTTPStatusAndMessage(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("dashboard x"), http.StatusNotFound},
		{Validation("bad format"), http.StatusBadRequest},
		{Wrap(SheetParse("La hoja talleres no devolvió CSV", nil), "failed to load sheet talleres"), http.StatusBadGateway},
		{Export("failed to draw chart", fmt.Errorf("font")), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}

	wrapped := Wrap(SheetFetch("Error 404: No se pudo cargar la hoja talleres", nil), "failed to load sheet talleres")
	assert.Equal(t, "Error 404: No se pudo cargar la hoja talleres", Message(wrapped))
	assert.Equal(t, "plain", Message(fmt.Errorf("plain")))
}
