package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrMissingCredential, http.StatusUnauthorized},
		{ErrInvalidCredential, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicateIMEI, http.StatusConflict},
		{ErrIdentityUnavailable, http.StatusServiceUnavailable},
		{ErrInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, ToHTTPStatus(tt.code))
		})
	}
}

func TestJSON(t *testing.T) {
	e := echo.New()

	t.Run("app error keeps its code and hides the cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		err := fmt.Errorf("handler: %w", NewAppError(ErrDuplicateIMEI, "IMEI already registered", New("pq: duplicate key")))
		require.NoError(t, JSON(c, err))

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, ErrorBody{Error: "IMEI already registered", Code: ErrDuplicateIMEI}, body)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, JSON(c, New("boom")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal server error","code":"INTERNAL"}`, rec.Body.String())
	})
}

func TestToHTTPError(t *testing.T) {
	assert.Nil(t, ToHTTPError(nil))

	he := ToHTTPError(NewAppError(ErrForbidden, "not yours", nil))
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "not yours", he.Message)

	original := echo.NewHTTPError(http.StatusMethodNotAllowed, "nope")
	assert.Same(t, original, ToHTTPError(original))

	he = ToHTTPError(New("boom"))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(fmt.Errorf("wrapped: %w", NewAppError(ErrNotFound, "missing", nil))))
	assert.Equal(t, ErrInternal, CodeOf(New("boom")))
}

func TestLogError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	LogError(logger, nil, "ignored")
	LogError(logger, NewAppError(ErrInternal, "storage down", nil), "Request failed", zap.String("path", "/x"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Request failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, ErrInternal, fields["error_code"])
	assert.Equal(t, "/x", fields["path"])
}
