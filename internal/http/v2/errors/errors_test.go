package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrProviderError.WithDetail("token exchange failed"))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "PROVIDER_ERROR", body["code"])
	require.Equal(t, "token exchange failed", body["detail"])
	require.Empty(t, ErrProviderError.Detail)
}

func TestWriteError_GenericBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("db down"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	require.NotContains(t, rec.Body.String(), "db down")
}

func TestFromError_Unwraps(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrInvalidState)
	require.Same(t, ErrInvalidState, FromError(wrapped))
}
