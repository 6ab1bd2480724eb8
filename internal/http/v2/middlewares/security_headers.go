package middlewares

import (
	"net/http"
	"strings"
)

// pageCSP permite fotos de perfil de los CDNs de los providers (img-src
// https:) y el POST del form de conexión, que termina en un redirect al
// provider (form-action https:). Las vistas no usan scripts.
const pageCSP = "default-src 'none'; img-src 'self' https:; style-src 'unsafe-inline'; " +
	"frame-ancestors 'none'; base-uri 'none'; form-action 'self' https:"

var pageHeaders = [][2]string{
	{"Content-Security-Policy", pageCSP},
	{"Referrer-Policy", "no-referrer"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-site"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
}

// isHTTPS detecta si el request llegó por HTTPS (directo o detrás de proxy).
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// WithSecurityHeaders agrega las cabeceras de las páginas HTML; HSTS solo
// cuando el request llegó por HTTPS.
func WithSecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range pageHeaders {
				h.Set(kv[0], kv[1])
			}
			if isHTTPS(r) {
				h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
