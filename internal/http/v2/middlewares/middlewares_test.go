package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellosocial/internal/session"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }), mk("a"), mk("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "h"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc", seen)
	require.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.NotEqual(t, "abc", seen)
	require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestWithRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestWithSession_InjectsUserID(t *testing.T) {
	mgr := session.NewManager("sid", false, time.Hour)
	var userID string
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		userID = GetUserID(r.Context())
	}), WithLogging(), WithSession(mgr))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, userID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, userID, cookies[0].Value)
}

func TestSessionRateKey_FreshSessionUsesIP(t *testing.T) {
	mgr := session.NewManager("sid", false, time.Hour)
	var key string
	var fresh bool
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		key = SessionRateKey(r)
		fresh = IsFreshSession(r.Context())
	}), WithSession(mgr))

	// sin cookie: la sesión es nueva, cuenta la IP
	req := httptest.NewRequest(http.MethodPost, "/connect/google", nil)
	req.RemoteAddr = "198.51.100.4:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.True(t, fresh)
	require.Equal(t, "ip:198.51.100.4", key)

	// con la cookie emitida, cuenta la sesión
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	req = httptest.NewRequest(http.MethodPost, "/connect/google", nil)
	req.RemoteAddr = "198.51.100.4:4000"
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, fresh)
	require.Equal(t, "sid:"+cookies[0].Value, key)
}

func TestWithMethodOverride(t *testing.T) {
	var method string
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { method = r.Method }), WithMethodOverride())

	req := httptest.NewRequest(http.MethodPost, "/connect/google", strings.NewReader("_method=delete"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, http.MethodDelete, method)

	req = httptest.NewRequest(http.MethodPost, "/connect/google", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, http.MethodPost, method)
}

func TestWithSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), WithSecurityHeaders(), WithNoStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "Cookie", rec.Header().Get("Vary"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}
