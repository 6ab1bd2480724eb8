package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		if r.URL.Path == "/fail" {
			http.Error(w, "nope", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":"7"}`))
	}))
	defer srv.Close()

	var v struct{ ID string }
	require.NoError(t, GetJSON(context.Background(), srv.Client(), srv.URL+"/ok", &v))
	require.Equal(t, "7", v.ID)

	err := GetJSON(context.Background(), srv.Client(), srv.URL+"/fail", &v)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusForbidden, se.Code)
	require.Contains(t, se.Body, "nope")
}

func TestRaw(t *testing.T) {
	require.Equal(t, "x", Raw([]byte(`{"a":"x"}`))["a"])
	require.Nil(t, Raw([]byte(`not json`)))
}
