package connect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/hellosocial/internal/http/v2/dto/social"
	mw "github.com/dropDatabas3/hellosocial/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/hellosocial/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

type fakeConnect struct {
	status      []dto.ProviderStatus
	conn        *social.Connection
	connErr     error
	startURL    string
	callbackErr error
	disconnErr  error

	callbacks    []dto.CallbackRequest
	disconnected []social.ProviderID
}

func (f *fakeConnect) Status(context.Context, string) ([]dto.ProviderStatus, error) {
	return f.status, nil
}

func (f *fakeConnect) Connection(context.Context, string, social.ProviderID) (*social.Connection, error) {
	return f.conn, f.connErr
}

func (f *fakeConnect) Start(_ context.Context, _ string, p social.ProviderID) (*dto.StartResponse, error) {
	if p == social.Facebook {
		return nil, social.ErrProviderDisabled
	}
	return &dto.StartResponse{AuthorizationURL: f.startURL}, nil
}

func (f *fakeConnect) Callback(_ context.Context, req dto.CallbackRequest) (*social.Connection, error) {
	f.callbacks = append(f.callbacks, req)
	return f.conn, f.callbackErr
}

func (f *fakeConnect) Disconnect(_ context.Context, _ string, p social.ProviderID) error {
	f.disconnected = append(f.disconnected, p)
	return f.disconnErr
}

func newRouter(f *fakeConnect) http.Handler {
	c := NewConnectController(f)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithUserID(r.Context(), "sid-1")))
		})
	})
	r.Get("/connect", c.Status)
	r.Get("/connect/{provider}", c.Show)
	r.Post("/connect/{provider}", c.Start)
	r.Delete("/connect/{provider}", c.Disconnect)
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestStatus(t *testing.T) {
	f := &fakeConnect{status: []dto.ProviderStatus{{Provider: social.GitHub, Connected: true}, {Provider: social.Google}}}
	rec := serve(newRouter(f), http.MethodGet, "/connect")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-view="connect/status"`)
	require.Contains(t, rec.Body.String(), "GitHub")
}

func TestShow_ConnectAndConnected(t *testing.T) {
	f := &fakeConnect{connErr: social.ErrNoConnection}
	rec := serve(newRouter(f), http.MethodGet, "/connect/google")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-view="connect/googleConnect"`)

	f = &fakeConnect{conn: &social.Connection{Provider: social.Google, DisplayName: "Ada"}}
	rec = serve(newRouter(f), http.MethodGet, "/connect/google")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `data-view="connect/googleConnected"`)
}

func TestShow_UnknownProvider(t *testing.T) {
	rec := serve(newRouter(&fakeConnect{}), http.MethodGet, "/connect/myspace")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "PROVIDER_NOT_FOUND")
}

func TestStart(t *testing.T) {
	f := &fakeConnect{startURL: "https://accounts.example.com/o/oauth2/auth?state=abc"}
	rec := serve(newRouter(f), http.MethodPost, "/connect/google")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, f.startURL, rec.Header().Get("Location"))

	rec = serve(newRouter(f), http.MethodPost, "/connect/facebook")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallback(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		location string
	}{
		{"success", nil, http.StatusFound, "/connect/google"},
		{"denied", svc.ErrAccessDenied, http.StatusFound, "/connect/google"},
		{"bad state", social.ErrInvalidState, http.StatusBadRequest, ""},
		{"missing code", svc.ErrMissingCode, http.StatusBadRequest, ""},
		{"exchange failed", &social.ProviderError{Provider: social.Google, Op: "token exchange", Err: errors.New("invalid_grant")}, http.StatusBadGateway, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeConnect{callbackErr: tc.err}
			rec := serve(newRouter(f), http.MethodGet, "/connect/google?code=c1&state=s1")
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.location, rec.Header().Get("Location"))
			require.Len(t, f.callbacks, 1)
			require.Equal(t, dto.CallbackRequest{Provider: social.Google, UserID: "sid-1", Code: "c1", State: "s1"}, f.callbacks[0])
		})
	}
}

func TestCallback_ErrorParamsAreForwarded(t *testing.T) {
	f := &fakeConnect{callbackErr: svc.ErrAccessDenied}
	rec := serve(newRouter(f), http.MethodGet, "/connect/github?error=access_denied&error_description=nope")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Len(t, f.callbacks, 1)
	require.Equal(t, "access_denied", f.callbacks[0].Error)
	require.Equal(t, "nope", f.callbacks[0].ErrorDescription)
}

func TestDisconnect(t *testing.T) {
	f := &fakeConnect{}
	rec := serve(newRouter(f), http.MethodDelete, "/connect/GitHub")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/connect/github", rec.Header().Get("Location"))
	require.Equal(t, []social.ProviderID{social.GitHub}, f.disconnected)
}
